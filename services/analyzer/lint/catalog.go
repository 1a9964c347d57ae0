// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
)

//go:embed messages
var embeddedMessages embed.FS

// Entry is the extended documentation for one pylint symbol. Empty fields
// mean the catalog has nothing for that aspect.
type Entry struct {
	Bad     string
	Good    string
	Related string
	Details string
}

// Catalog looks up extended documentation by pylint symbol.
//
// The layout is one directory per symbol holding any of bad.py, good.py,
// related.md, and details.md.
type Catalog struct {
	fsys fs.FS
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	sub, err := fs.Sub(embeddedMessages, "messages")
	if err != nil {
		panic(fmt.Sprintf("embedded pylint messages: %v", err))
	}
	return &Catalog{fsys: sub}
}

// NewCatalog reads documentation from fsys.
func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// DirCatalog reads documentation from a directory on disk.
func DirCatalog(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("message catalog: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("message catalog: %s is not a directory", dir)
	}
	return &Catalog{fsys: os.DirFS(dir)}, nil
}

// Lookup returns the entry for symbol. Missing files are not an error.
func (c *Catalog) Lookup(symbol string) Entry {
	if c == nil || c.fsys == nil || symbol == "" || !fs.ValidPath(symbol) {
		return Entry{}
	}
	return Entry{
		Bad:     c.read(symbol, "bad.py"),
		Good:    c.read(symbol, "good.py"),
		Related: c.read(symbol, "related.md"),
		Details: c.read(symbol, "details.md"),
	}
}

// Symbols lists the symbols that have at least one documentation file.
func (c *Catalog) Symbols() ([]string, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out, nil
}

func (c *Catalog) read(symbol, name string) string {
	data, err := fs.ReadFile(c.fsys, path.Join(symbol, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("reading pylint message documentation",
				slog.String("symbol", symbol),
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
		return ""
	}
	return string(data)
}

// params renders an entry into comment params. Absent documentation is
// nil so the serialized form carries an explicit null.
func (e Entry) params() map[string]any {
	p := map[string]any{
		"bad_code":     nil,
		"good_code":    nil,
		"related_info": nil,
		"details":      nil,
	}
	if e.Bad != "" {
		p["bad_code"] = "Instead of: \n```python\n" + e.Bad + "```\n\n"
	}
	if e.Good != "" {
		p["good_code"] = "Try: \n```python\n" + e.Good + "```\n\n"
	}
	if e.Related != "" {
		p["related_info"] = e.Related
	}
	if e.Details != "" {
		p["details"] = e.Details
	}
	return p
}
