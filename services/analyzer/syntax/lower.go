// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// scope tracks where a definition sits for FunctionDef.TopLevel.
type scope int

const (
	scopeModule scope = iota
	scopeClass
	scopeFunction
)

// lowerer converts a tree-sitter tree into the Node model.
//
// The grammar still accepts some Python 2 forms and a few constructs the
// Python 3 compiler rejects. The first one seen is kept in err.
type lowerer struct {
	src   []byte
	count int
	err   *SyntaxError
}

// reject records n as the first construct that is not valid Python 3.
func (l *lowerer) reject(n *sitter.Node) {
	if l.err != nil {
		return
	}
	pt := n.StartPoint()
	l.err = &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

func (l *lowerer) lower(n *sitter.Node, sc scope) Node {
	l.count++
	span := spanOf(n)

	switch n.Type() {
	case "print_statement", "exec_statement":
		l.reject(n)
		return &Other{Type: n.Type(), base: base{span: span, children: l.children(n, sc)}}

	case "module":
		return &Module{base{span: span, children: l.children(n, sc)}}

	case "function_definition":
		fn := &FunctionDef{TopLevel: sc != scopeFunction}
		if name := n.ChildByFieldName("name"); name != nil {
			fn.Name = name.Content(l.src)
		}
		fn.Params = l.arguments(n.ChildByFieldName("parameters"), scopeFunction)
		fn.span = span
		fn.children = append([]Node{fn.Params}, l.childrenExcept(n, scopeFunction, "parameters", "name")...)
		return fn

	case "lambda":
		lam := &Lambda{Params: l.arguments(n.ChildByFieldName("parameters"), scopeFunction)}
		lam.span = span
		lam.children = append([]Node{lam.Params}, l.childrenExcept(n, scopeFunction, "parameters")...)
		return lam

	case "class_definition":
		return &Other{Type: n.Type(), base: base{span: span, children: l.children(n, scopeClass)}}

	case "binary_operator", "augmented_assignment":
		op := &BinaryOp{Augmented: n.Type() == "augmented_assignment"}
		if o := n.ChildByFieldName("operator"); o != nil {
			op.Operator = o.Type()
			if op.Augmented {
				op.Operator = strings.TrimSuffix(op.Operator, "=")
			}
		}
		op.Left = l.value(n.ChildByFieldName("left"))
		op.Right = l.value(n.ChildByFieldName("right"))
		op.span = span
		op.children = l.children(n, sc)
		return op

	case "if_statement", "elif_clause":
		return &If{Elif: n.Type() == "elif_clause", base: base{span: span, children: l.children(n, sc)}}

	case "return_statement":
		if sc != scopeFunction {
			l.reject(n)
		}
		ret := &Return{}
		if n.NamedChildCount() > 0 {
			ret.HasValue = true
			ret.Value = l.value(n.NamedChild(0))
		}
		ret.span = span
		ret.children = l.children(n, sc)
		return ret

	case "call":
		call := &Call{}
		if fn := n.ChildByFieldName("function"); fn != nil {
			call.Callee = fn.Content(l.src)
			if fn.Type() == "attribute" {
				if attr := fn.ChildByFieldName("attribute"); attr != nil {
					call.Method = attr.Content(l.src)
				}
				call.Receiver = l.value(fn.ChildByFieldName("object"))
			}
		}
		call.span = span
		call.children = l.children(n, sc)
		return call

	case "string":
		return &StringLiteral{Value: l.value(n), base: base{span: span, children: l.interpolations(n, sc)}}

	case "interpolation":
		return &Interpolation{base{span: span, children: l.children(n, sc)}}

	default:
		return &Other{Type: n.Type(), base: base{span: span, children: l.children(n, sc)}}
	}
}

func (l *lowerer) children(n *sitter.Node, sc scope) []Node {
	return l.childrenExcept(n, sc)
}

// childrenExcept lowers named children, skipping those attached under the
// given field names.
func (l *lowerer) childrenExcept(n *sitter.Node, sc scope, fields ...string) []Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	var skip []*sitter.Node
	for _, f := range fields {
		if c := n.ChildByFieldName(f); c != nil {
			skip = append(skip, c)
		}
	}
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if containsNode(skip, c) {
			continue
		}
		out = append(out, l.lower(c, sc))
	}
	return out
}

// interpolations lowers only the replacement fields of a string; the
// literal pieces carry nothing a detector looks at.
func (l *lowerer) interpolations(n *sitter.Node, sc scope) []Node {
	var out []Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "interpolation" {
			out = append(out, l.lower(c, sc))
			continue
		}
		out = append(out, l.interpolations(c, sc)...)
	}
	return out
}

// arguments lowers a parameters or lambda_parameters node. A nil node
// (lambda without parameters) yields an empty Arguments.
func (l *lowerer) arguments(n *sitter.Node, sc scope) *Arguments {
	args := &Arguments{}
	if n == nil {
		return args
	}
	l.count++
	args.span = spanOf(n)

	keywordOnly, seenDefault := false, false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "identifier":
			if seenDefault && !keywordOnly {
				l.reject(p)
			}
			args.Names = append(args.Names, p.Content(l.src))
		case "typed_parameter":
			if firstNamed(p, "list_splat_pattern") != nil {
				keywordOnly = true
			} else if seenDefault && !keywordOnly && firstNamed(p, "identifier") != nil {
				l.reject(p)
			}
			if id := firstNamed(p, "identifier"); id != nil {
				args.Names = append(args.Names, id.Content(l.src))
			}
		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				args.Names = append(args.Names, name.Content(l.src))
			}
			val := p.ChildByFieldName("value")
			if val == nil {
				continue
			}
			if !keywordOnly {
				seenDefault = true
			}
			if keywordOnly {
				args.KeywordDefaults = append(args.KeywordDefaults, l.value(val))
			} else {
				args.Defaults = append(args.Defaults, l.value(val))
			}
			args.children = append(args.children, l.lower(val, sc))
		case "list_splat_pattern", "keyword_separator":
			keywordOnly = true
			if id := firstNamed(p, "identifier"); id != nil {
				args.Names = append(args.Names, "*"+id.Content(l.src))
			}
		case "dictionary_splat_pattern":
			if id := firstNamed(p, "identifier"); id != nil {
				args.Names = append(args.Names, "**"+id.Content(l.src))
			}
		}
	}
	return args
}

// value summarizes an expression node.
func (l *lowerer) value(n *sitter.Node) Value {
	if n == nil {
		return Value{}
	}
	for n.Type() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		n = n.NamedChild(0)
	}
	text := n.Content(l.src)

	switch n.Type() {
	case "string":
		return stringValue(text)
	case "concatenated_string":
		joined := Value{Kind: ValueString, Text: text}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			part := stringValue(n.NamedChild(i).Content(l.src))
			if part.Kind != ValueString {
				return Value{Kind: part.Kind, Text: text}
			}
			joined.Str += part.Str
		}
		return joined
	case "integer", "float":
		return Value{Kind: ValueNumber, Text: text}
	case "identifier":
		return Value{Kind: ValueName, Text: text}
	case "none":
		return Value{Kind: ValueNone, Text: text}
	default:
		return Value{Kind: ValueOther, Text: text}
	}
}

// stringValue decodes the source text of a single string literal.
func stringValue(text string) Value {
	prefixEnd := strings.IndexAny(text, `"'`)
	if prefixEnd < 0 {
		return Value{Kind: ValueOther, Text: text}
	}
	prefix := strings.ToLower(text[:prefixEnd])
	body := text[prefixEnd:]

	switch {
	case strings.Contains(prefix, "f"):
		return Value{Kind: ValueFString, Text: text}
	case strings.Contains(prefix, "b"):
		return Value{Kind: ValueBytes, Text: text}
	}

	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(body, quote), quote)
	if !strings.Contains(prefix, "r") {
		inner = unescape(inner)
	}
	return Value{Kind: ValueString, Text: text, Str: inner}
}

// unescape resolves the common backslash escapes of Python string literals.
// Unknown escapes are kept verbatim, as Python does.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case '\n':
			// line continuation
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func spanOf(n *sitter.Node) Span {
	start, end := n.StartPoint(), n.EndPoint()
	return Span{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

func firstNamed(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func containsNode(nodes []*sitter.Node, n *sitter.Node) bool {
	for _, c := range nodes {
		if c.StartByte() == n.StartByte() && c.EndByte() == n.EndByte() && c.Type() == n.Type() {
			return true
		}
	}
	return false
}
