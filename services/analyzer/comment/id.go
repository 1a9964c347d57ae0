// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package comment

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Language prefixes every rendered ID.
const Language = "python"

// ID identifies a kind of Comment within a namespace.
//
// The namespace is either an exercise slug ("two-fer") or a shared
// vocabulary ("general", "pylint"). IDs are comparable and are the only
// thing considered when deduplicating comments.
type ID struct {
	Namespace string
	Key       string
}

// NewID builds an ID. Both parts are lowercased.
func NewID(namespace, key string) ID {
	return ID{
		Namespace: strings.ToLower(namespace),
		Key:       strings.ToLower(key),
	}
}

// String renders the ID as "python.<namespace>.<key>".
func (id ID) String() string {
	return Language + "." + id.Namespace + "." + id.Key
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return id.Namespace == "" && id.Key == ""
}

// Validate rejects IDs with empty parts or whitespace.
func (id ID) Validate() error {
	if id.Namespace == "" || id.Key == "" {
		return fmt.Errorf("%w: %q", ErrInvalidID, id.String())
	}
	for _, r := range id.Namespace + id.Key {
		if unicode.IsSpace(r) || unicode.IsUpper(r) {
			return fmt.Errorf("%w: %q", ErrInvalidID, id.String())
		}
	}
	return nil
}

// ParseID is the inverse of String.
func ParseID(s string) (ID, error) {
	rest, ok := strings.CutPrefix(s, Language+".")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	ns, key, ok := strings.Cut(rest, ".")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	id := NewID(ns, key)
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// MarshalJSON encodes the rendered form.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes the rendered form.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
