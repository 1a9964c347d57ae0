// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package exercise

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Descriptor locates one submission: the exercise, the file to analyze,
// and where analysis.json goes.
type Descriptor struct {
	Slug      string
	InputPath string
	OutputDir string
}

// FileName returns the submission file name for slug: "two-fer" becomes
// "two_fer.py".
func FileName(slug string) string {
	return strings.ReplaceAll(slug, "-", "_") + ".py"
}

// NewDescriptor builds a Descriptor for slug with the submission expected
// at <inDir>/<FileName(slug)>. Neither directory is checked here.
func NewDescriptor(slug, inDir, outDir string) (Descriptor, error) {
	slug = strings.TrimSpace(slug)
	switch {
	case slug == "":
		return Descriptor{}, fmt.Errorf("%w: empty exercise", ErrInvalidDescriptor)
	case strings.ContainsAny(slug, `/\`):
		return Descriptor{}, fmt.Errorf("%w: exercise %q contains a path separator", ErrInvalidDescriptor, slug)
	case inDir == "":
		return Descriptor{}, fmt.Errorf("%w: empty input directory", ErrInvalidDescriptor)
	case outDir == "":
		return Descriptor{}, fmt.Errorf("%w: empty output directory", ErrInvalidDescriptor)
	}
	return Descriptor{
		Slug:      slug,
		InputPath: filepath.Join(inDir, FileName(slug)),
		OutputDir: outDir,
	}, nil
}
