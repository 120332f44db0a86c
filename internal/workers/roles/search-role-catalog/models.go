// internal/workers/roles/search-role-catalog/models.go
package searchrolecatalog

import "rekonet-workers/internal/store"

type Input struct {
	Query string `json:"query"`
	Size  int    `json:"size,omitempty"`
}

type Output struct {
	Query       string          `json:"query"`
	Suggestions []store.RoleHit `json:"suggestions"`
	Count       int             `json:"count"`
	// Source is "index", or "catalog" when the index was unreachable.
	Source string `json:"source"`
}
