package store

import _ "embed"

// Schema creates every table the Postgres store reads and writes.
//
//go:embed schema.sql
var Schema string
