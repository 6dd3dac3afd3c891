// Package migrations embeds the PostgreSQL schema.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.sql
var sqlFiles embed.FS

// File is one schema script.
type File struct {
	Name string
	SQL  string
}

// Files returns the embedded scripts sorted by name.
func Files() ([]File, error) {
	names, err := fs.Glob(sqlFiles, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]File, 0, len(names))
	for _, name := range names {
		body, err := sqlFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, File{Name: name, SQL: string(body)})
	}
	return out, nil
}
