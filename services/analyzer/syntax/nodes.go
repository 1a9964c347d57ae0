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

// Kind discriminates the closed set of node variants.
type Kind int

const (
	KindModule Kind = iota
	KindFunctionDef
	KindLambda
	KindArguments
	KindBinaryOp
	KindIf
	KindReturn
	KindCall
	KindInterpolation
	KindString
	KindOther
)

var kindNames = [...]string{
	KindModule:        "module",
	KindFunctionDef:   "function_def",
	KindLambda:        "lambda",
	KindArguments:     "arguments",
	KindBinaryOp:      "binary_op",
	KindIf:            "if",
	KindReturn:        "return",
	KindCall:          "call",
	KindInterpolation: "interpolation",
	KindString:        "string",
	KindOther:         "other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Span is a 1-based source range.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Node is one element of a lowered syntax tree.
//
// The set of implementations is closed; switch on the concrete type or on
// Kind. Fields on each variant are only those that are meaningful for it,
// so a detector never has to probe for attributes that may be absent.
type Node interface {
	Kind() Kind
	Span() Span
	Children() []Node
	node()
}

type base struct {
	span     Span
	children []Node
}

func (b *base) Span() Span       { return b.span }
func (b *base) Children() []Node { return b.children }
func (b *base) node()            {}

// Module is the root of every tree.
type Module struct{ base }

// FunctionDef is a def statement.
type FunctionDef struct {
	base
	Name string

	// TopLevel is true at module scope or directly inside a class body,
	// false for functions nested in other functions.
	TopLevel bool

	// Params is never nil.
	Params *Arguments
}

// Lambda is a lambda expression.
type Lambda struct {
	base
	Params *Arguments
}

// Arguments is the parameter list of a function or lambda.
type Arguments struct {
	base
	Names []string

	// Defaults holds positional default values in declaration order.
	Defaults []Value

	// KeywordDefaults holds defaults of keyword-only parameters.
	KeywordDefaults []Value
}

// BinaryOp is an infix operation or an augmented assignment.
type BinaryOp struct {
	base

	// Operator is the bare operator ("+", "%", "//"), without "=" for
	// augmented assignments.
	Operator  string
	Augmented bool
	Left      Value
	Right     Value
}

// If is an if statement or one of its elif clauses.
type If struct {
	base
	Elif bool
}

// Return is a return statement.
type Return struct {
	base
	HasValue bool
	Value    Value
}

// Call is a call expression.
type Call struct {
	base

	// Callee is the full source text of the called expression.
	Callee string

	// Method is the attribute name when the callee is an attribute
	// access ("format" in "x.format(...)"), empty otherwise.
	Method   string
	Receiver Value
}

// Interpolation is a replacement field inside an f-string.
type Interpolation struct{ base }

// StringLiteral is a string or bytes literal.
type StringLiteral struct {
	base
	Value Value
}

// Other is any construct no detector needs to distinguish.
type Other struct {
	base

	// Type is the grammar node type, kept for debugging.
	Type string
}

func (*Module) Kind() Kind        { return KindModule }
func (*FunctionDef) Kind() Kind   { return KindFunctionDef }
func (*Lambda) Kind() Kind        { return KindLambda }
func (*Arguments) Kind() Kind     { return KindArguments }
func (*BinaryOp) Kind() Kind      { return KindBinaryOp }
func (*If) Kind() Kind            { return KindIf }
func (*Return) Kind() Kind        { return KindReturn }
func (*Call) Kind() Kind          { return KindCall }
func (*Interpolation) Kind() Kind { return KindInterpolation }
func (*StringLiteral) Kind() Kind { return KindString }
func (*Other) Kind() Kind         { return KindOther }

// ValueKind classifies a literal or simple expression.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueFString
	ValueBytes
	ValueNumber
	ValueName
	ValueNone
	ValueOther
)

// Value summarizes an expression used as a default, operand, or return value.
type Value struct {
	Kind ValueKind

	// Text is the expression's source text.
	Text string

	// Str is the decoded content for ValueString.
	Str string
}

// IsString reports whether v is a plain string literal equal to s.
func (v Value) IsString(s string) bool {
	return v.Kind == ValueString && v.Str == s
}
