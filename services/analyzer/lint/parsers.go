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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Message is one pylint message as emitted by --output-format=json.
type Message struct {
	// Category is pylint's "type": convention, refactor, warning, error,
	// fatal, or info.
	Category  string `json:"type"`
	Module    string `json:"module"`
	Object    string `json:"obj"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   *int   `json:"endLine"`
	EndColumn *int   `json:"endColumn"`
	Path      string `json:"path"`
	Symbol    string `json:"symbol"`
	Text      string `json:"message"`
	MessageID string `json:"message-id"`
}

// Code renders the message as "<id> <symbol>", e.g.
// "C0116 missing-function-docstring".
func (m Message) Code() string {
	return strings.TrimSpace(m.MessageID + " " + m.Symbol)
}

// ParsePylintJSON decodes pylint's JSON reporter output.
//
// Empty output means no messages. pylint prints an empty array when the
// file is clean.
func ParsePylintJSON(output []byte) ([]Message, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var msgs []Message
	if err := json.Unmarshal(trimmed, &msgs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}

	for i := range msgs {
		msgs[i].Category = strings.ToLower(strings.TrimSpace(msgs[i].Category))
		msgs[i].Symbol = strings.TrimSpace(msgs[i].Symbol)
		msgs[i].MessageID = strings.TrimSpace(msgs[i].MessageID)
	}
	return msgs, nil
}
