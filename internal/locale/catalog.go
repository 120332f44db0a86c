// Package locale holds the user-facing copy for every supported language.
// Messages are nested YAML documents flattened to dotted keys, so
// "progress.band.2" addresses progress: band: "2": in the file.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var embedded embed.FS

const Fallback = "en"

var rtl = map[string]bool{"ar": true}

// Catalog maps language to flattened message keys. It is safe for
// concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
}

// New returns a catalog loaded with the embedded messages.
func New() (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]string)}
	if err := c.loadFS(embedded, "messages"); err != nil {
		return nil, err
	}
	if _, ok := c.messages[Fallback]; !ok {
		return nil, fmt.Errorf("locale: embedded %s messages missing", Fallback)
	}
	return c, nil
}

// MustNew panics when the embedded messages fail to parse.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadDir merges every <lang>.yaml file in dir over the current messages.
// Keys present on disk win; keys absent on disk keep their embedded text.
func (c *Catalog) LoadDir(dir string) error {
	return c.loadFS(os.DirFS(dir), ".")
}

func (c *Catalog) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("locale: read %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, name)))
		if err != nil {
			return fmt.Errorf("locale: read %s: %w", name, err)
		}
		flat, err := parse(data)
		if err != nil {
			return fmt.Errorf("locale: parse %s: %w", name, err)
		}
		c.merge(Canonical(strings.TrimSuffix(name, ext)), flat)
	}
	return nil
}

func (c *Catalog) merge(lang string, flat map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst, ok := c.messages[lang]
	if !ok {
		dst = make(map[string]string, len(flat))
		c.messages[lang] = dst
	}
	for k, v := range flat {
		dst[k] = v
	}
}

func parse(data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if len(doc.Content) == 0 {
		return out, nil
	}
	if err := flatten("", doc.Content[0], out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, n *yaml.Node, out map[string]string) error {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := flatten(join(n.Content[i].Value), n.Content[i+1], out); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			if err := flatten(join(strconv.Itoa(i)), item, out); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		out[prefix] = n.Value
	case yaml.AliasNode:
		return flatten(prefix, n.Alias, out)
	default:
		return fmt.Errorf("unexpected node at %q (line %d)", prefix, n.Line)
	}
	return nil
}

// Text resolves key for lang, falling back to English and then to the key
// itself, and substitutes {name} placeholders from vars.
func (c *Catalog) Text(lang, key string, vars map[string]string) string {
	c.mu.RLock()
	s, ok := c.messages[Canonical(lang)][key]
	if !ok {
		s, ok = c.messages[Fallback][key]
	}
	c.mu.RUnlock()
	if !ok {
		s = key
	}
	return substitute(s, vars)
}

func substitute(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "{") {
		return s
	}
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*2)
	for _, k := range names {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// Has reports whether lang defines key itself, without fallback.
func (c *Catalog) Has(lang, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.messages[Canonical(lang)][key]
	return ok
}

// Languages lists the loaded language codes in sorted order.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether lang, after canonicalisation, has messages.
func (c *Catalog) Supported(lang string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.messages[Canonical(lang)]
	return ok
}

// Canonical lowercases a language tag and strips its region, so "en-GB"
// and "EN_gb" both become "en".
func Canonical(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func IsRTL(lang string) bool {
	return rtl[Canonical(lang)]
}

// Direction returns "rtl" or "ltr" for lang.
func Direction(lang string) string {
	if IsRTL(lang) {
		return "rtl"
	}
	return "ltr"
}
