// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package syntax turns Python source into a read-only tree of typed nodes.
//
// Parsing is delegated to tree-sitter. The concrete syntax tree is lowered
// into a closed set of node variants (FunctionDef, BinaryOp, If, ...) that
// carry only the fields rule detectors consult, and the tree-sitter tree is
// released before Parse returns.
package syntax

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/AleutianAI/analyzer/services/analyzer/telemetry"
)

const (
	// DefaultMaxFileSize bounds the accepted source size.
	DefaultMaxFileSize int64 = 1 << 20

	// WarnFileSize logs a warning above this size. Exercise solutions are
	// usually a few kilobytes.
	WarnFileSize = 64 << 10

	// DefaultTimeout bounds a single tree-sitter parse.
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrFileTooLarge indicates the source exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent indicates the source is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")

	// ErrSyntax indicates the source does not form a valid Python module.
	ErrSyntax = errors.New("syntax error")
)

// SyntaxError locates the first error node tree-sitter reported, or the
// first construct the Python 3 compiler would reject.
// errors.Is(err, ErrSyntax) is true for every *SyntaxError.
type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
}

// Is makes SyntaxError match ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize sets the maximum accepted source size in bytes.
// Non-positive values are ignored.
func WithMaxFileSize(bytes int64) Option {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithTimeout bounds the wall-clock time of one parse. Non-positive values
// are ignored.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// Parser parses Python source with tree-sitter.
//
// Thread Safety: Safe for concurrent use. Each Parse call uses its own
// tree-sitter parser instance.
type Parser struct {
	maxFileSize int64
	timeout     time.Duration
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxFileSize: DefaultMaxFileSize,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses Python source into a Tree.
//
// Description:
//
//	Validates size and encoding, runs tree-sitter under a deadline, and
//	rejects any tree containing ERROR or MISSING nodes. The resulting
//	concrete syntax tree is lowered into the Node model.
//
// Inputs:
//
//	ctx      - Context for cancellation. Must not be nil.
//	source   - Python source bytes.
//	filePath - Used for logging and telemetry only.
//
// Outputs:
//
//	*Tree - The lowered tree. Nil on error.
//	error - ErrFileTooLarge, ErrInvalidContent, a *SyntaxError, or a
//	        context error. Callers that only need "did it parse" can treat
//	        every error the same way.
func (p *Parser) Parse(ctx context.Context, source []byte, filePath string) (*Tree, error) {
	ctx, span := startParseSpan(ctx, filePath, len(source))
	defer span.End()
	start := time.Now()

	tree, err := p.parse(ctx, source, filePath)

	if err != nil {
		telemetry.RecordError(span, err)
		recordParseMetrics(ctx, time.Since(start), 0, false)
		return nil, err
	}
	setParseSpanResult(span, tree.size, tree.lines)
	telemetry.SetSpanOK(span)
	recordParseMetrics(ctx, time.Since(start), tree.size, true)
	return tree, nil
}

func (p *Parser) parse(ctx context.Context, source []byte, filePath string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	if int64(len(source)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(source), p.maxFileSize)
	}

	if len(source) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(source)))
	}

	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parseCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tsTree, err := parser.ParseCtx(parseCtx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tsTree.Close()

	if err := parseCtx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tsTree.RootNode()
	if root == nil {
		return nil, &SyntaxError{Line: 1, Column: 1}
	}
	if root.HasError() {
		return nil, firstError(root)
	}

	l := &lowerer{src: source}
	mod, ok := l.lower(root, scopeModule).(*Module)
	if !ok {
		return nil, &SyntaxError{Line: 1, Column: 1}
	}
	if l.err != nil {
		return nil, l.err
	}

	return &Tree{
		root:  mod,
		path:  filePath,
		lines: bytes.Count(source, []byte("\n")) + 1,
		size:  l.count,
	}, nil
}

// firstError finds the first ERROR or MISSING node in source order.
func firstError(root *sitter.Node) *SyntaxError {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsError() || n.IsMissing() {
			pt := n.StartPoint()
			return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
		}
		if !n.HasError() {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}
	pt := root.StartPoint()
	return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}
