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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Ordering(t *testing.T) {
	assert.Less(t, Celebratory, Informative)
	assert.Less(t, Informative, Actionable)
	assert.Less(t, Actionable, Essential)
	assert.True(t, Essential.AtLeast(Actionable))
	assert.False(t, Informative.AtLeast(Actionable))
}

func TestSeverity_Labels(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{Celebratory, "celebratory"},
		{Informative, "informative"},
		{Actionable, "actionable"},
		{Essential, "essential"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sev.String())

			parsed, err := ParseSeverity(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.sev, parsed)
		})
	}
}

func TestSeverity_Invalid(t *testing.T) {
	assert.False(t, Severity(7).IsValid())
	_, err := ParseSeverity("urgent")
	assert.ErrorIs(t, err, ErrUnknownSeverity)
	_, err = json.Marshal(Severity(-1))
	assert.Error(t, err)
}

func TestID_String(t *testing.T) {
	id := NewID("Two-Fer", "NO_DEF_ARG")
	assert.Equal(t, "python.two-fer.no_def_arg", id.String())
	assert.Equal(t, "python.general.malformed_code", MalformedCode.String())
	assert.Equal(t, "python.general.no_module", NoModule.String())
}

func TestID_Validate(t *testing.T) {
	assert.NoError(t, NewID("two-fer", "conditionals").Validate())
	assert.ErrorIs(t, ID{}.Validate(), ErrInvalidID)
	assert.ErrorIs(t, NewID("two fer", "x").Validate(), ErrInvalidID)
	assert.True(t, ID{}.IsZero())
}

func TestParseID(t *testing.T) {
	id, err := ParseID("python.pylint.missing-function-docstring")
	require.NoError(t, err)
	assert.Equal(t, NewID("pylint", "missing-function-docstring"), id)

	for _, bad := range []string{"", "go.two-fer.x", "python.two-fer", "python..x"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestComment_JSON(t *testing.T) {
	c := New(NewID("two-fer", "simple_concat"), Actionable, nil)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"comment":"python.two-fer.simple_concat","type":"actionable","params":{}}`, string(data))

	var back Comment
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.ID, back.ID)
	assert.Equal(t, c.Type, back.Type)
}

func TestComment_EqualIgnoresParams(t *testing.T) {
	a := New(MalformedCode, Essential, Params{"line": 1})
	b := New(MalformedCode, Informative, Params{"line": 9})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(New(NoModule, Essential, nil)))
}

func TestComment_Clone(t *testing.T) {
	a := New(MalformedCode, Essential, Params{"line": 1})
	b := a.Clone()
	b.Params["line"] = 2
	assert.Equal(t, 1, a.Params["line"])
}

func TestSet_DedupKeepsFirst(t *testing.T) {
	var s Set
	first := New(NewID("two-fer", "conditionals"), Actionable, Params{"line": 3})
	second := New(NewID("two-fer", "conditionals"), Essential, Params{"line": 8})
	other := New(NewID("two-fer", "no_return"), Essential, nil)

	assert.True(t, s.Add(first))
	assert.False(t, s.Add(second))
	assert.True(t, s.Add(other))

	got := s.Comments()
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, other.ID, got[1].ID)
	assert.True(t, s.Has(first.ID))
	assert.Equal(t, 2, s.Len())
}

func TestSet_Update(t *testing.T) {
	var s Set
	id := NewID("pylint", "unused-import")
	assert.False(t, s.Update(id, Params{}))
	s.Add(New(id, Essential, Params{"lineno": 1}))
	assert.True(t, s.Update(id, Params{"lineno": 1, "lines": []int{1, 4}}))

	c, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, []int{1, 4}, c.Params["lines"])
}

func TestSet_CommentsIsCopy(t *testing.T) {
	var s Set
	s.Add(New(NoModule, Essential, nil))
	out := s.Comments()
	out[0] = New(MalformedCode, Essential, nil)
	assert.True(t, s.Has(NoModule))
	c, _ := s.Get(NoModule)
	assert.Equal(t, NoModule, c.ID)
}
