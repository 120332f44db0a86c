package main

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const answersJSON = `{
  "language": "fr",
  "answers": [
    {"questionId": "cv-1", "category": "cv", "score": 5},
    {"questionId": "cv-2", "category": "cv", "score": 5},
    {"questionId": "int-1", "category": "interview", "score": 5},
    {"questionId": "int-2", "category": "interview", "score": 5},
    {"questionId": "sk-1", "category": "skills", "score": 5},
    {"questionId": "sk-2", "category": "skills", "score": 5},
    {"questionId": "js-1", "category": "jobsearch", "score": 5},
    {"questionId": "js-2", "category": "jobsearch", "score": 5}
  ],
  "signals": {"activitiesPct": 100, "cvPct": 100, "interviewPct": 100}
}`

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(input, []byte(answersJSON), 0644))

	out, err := execute(t, "score", "-i", input, "-c", "../../configs/role-catalog.yaml", "-l", "en")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "en", result["language"])
	assert.Equal(t, "L4", result["overall"].(map[string]interface{})["tierCode"])
	assert.Equal(t, "precision", result["path"])
	assert.NotEmpty(t, result["flightPath"])
}

func TestScoreCommand_WritesFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "answers.json")
	output := filepath.Join(dir, "out", "result.json")
	require.NoError(t, os.WriteFile(input, []byte(answersJSON), 0644))

	_, err := execute(t, "score", "-i", input, "-c", "", "-l", "", "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"language": "fr"`)
}

func TestScoreCommand_UnsupportedLanguage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(input, []byte(answersJSON), 0644))

	_, err := execute(t, "score", "-i", input, "-c", "", "-o", "", "-l", "xx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestLinksCommand(t *testing.T) {
	out, err := execute(t, "links", "-g", "Warehouse Operative", "-p", "Leeds", "--months", "72")
	require.NoError(t, err)

	var links map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &links))

	u, err := url.Parse(links["indeed"])
	require.NoError(t, err)
	assert.Equal(t, `"Warehouse Operative" experienced`, u.Query().Get("q"))
	assert.Equal(t, "10", u.Query().Get("radius"))
}
