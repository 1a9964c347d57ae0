// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"slices"

	"github.com/AleutianAI/analyzer/services/analyzer/comment"
	"github.com/AleutianAI/analyzer/services/analyzer/syntax"
)

// Reusable detector shapes. Exercise rule sets are assembled from these.

func lineParams(n syntax.Node) comment.Params {
	return comment.Params{"lineno": n.Span().StartLine}
}

// DefinitionPresence sets flag when a function called name is defined at
// module scope or directly in a class body.
func DefinitionPresence(name string, flag Flag) Detector {
	return Detector{
		Name:  "definition:" + name,
		Kinds: []syntax.Kind{syntax.KindFunctionDef},
		Sets:  []Flag{flag},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			fn, ok := n.(*syntax.FunctionDef)
			return nil, ok && fn.TopLevel && fn.Name == name
		},
	}
}

// OperatorUsage emits id for any binary operation or augmented assignment
// using one of ops.
func OperatorUsage(id comment.ID, severity comment.Severity, ops ...string) Detector {
	return Detector{
		Name:     "operator:" + id.Key,
		Emits:    id,
		Severity: severity,
		Kinds:    []syntax.Kind{syntax.KindBinaryOp},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			op, ok := n.(*syntax.BinaryOp)
			if !ok || !slices.Contains(ops, op.Operator) {
				return nil, false
			}
			params := lineParams(n)
			params["operator"] = op.Operator
			return params, true
		},
	}
}

// DefaultArgumentPresence sets flag when any parameter list declares a
// positional default value.
func DefaultArgumentPresence(flag Flag) Detector {
	return Detector{
		Name:  "default-argument-presence",
		Kinds: []syntax.Kind{syntax.KindArguments},
		Sets:  []Flag{flag},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			args, ok := n.(*syntax.Arguments)
			return nil, ok && len(args.Defaults) > 0
		},
	}
}

// DefaultArgumentValue emits id when the first positional default of a
// parameter list is anything other than the plain string want.
func DefaultArgumentValue(id comment.ID, severity comment.Severity, want string, requires Flag) Detector {
	return Detector{
		Name:     "default-argument-value:" + id.Key,
		Emits:    id,
		Severity: severity,
		Kinds:    []syntax.Kind{syntax.KindArguments},
		Requires: []Flag{requires},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			args, ok := n.(*syntax.Arguments)
			if !ok || len(args.Defaults) == 0 || args.Defaults[0].IsString(want) {
				return nil, false
			}
			params := lineParams(n)
			params["default"] = args.Defaults[0].Text
			return params, true
		},
	}
}

// ControlFlowShape emits id on any if statement or elif clause.
func ControlFlowShape(id comment.ID, severity comment.Severity) Detector {
	return Detector{
		Name:     "control-flow:" + id.Key,
		Emits:    id,
		Severity: severity,
		Kinds:    []syntax.Kind{syntax.KindIf},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			if _, ok := n.(*syntax.If); !ok {
				return nil, false
			}
			return lineParams(n), true
		},
	}
}

// ReturnPresence sets flag when a return statement carries a value.
func ReturnPresence(flag Flag) Detector {
	return Detector{
		Name:  "return-presence",
		Kinds: []syntax.Kind{syntax.KindReturn},
		Sets:  []Flag{flag},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			ret, ok := n.(*syntax.Return)
			return nil, ok && ret.HasValue
		},
	}
}

// MethodIdiom sets flag when a call invokes an attribute named method,
// e.g. "...".format(...).
func MethodIdiom(method string, flag Flag) Detector {
	return Detector{
		Name:  "idiom:method:" + method,
		Kinds: []syntax.Kind{syntax.KindCall},
		Sets:  []Flag{flag},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			call, ok := n.(*syntax.Call)
			return nil, ok && call.Method == method
		},
	}
}

// InterpolationIdiom sets flag when an f-string replacement field appears.
func InterpolationIdiom(flag Flag) Detector {
	return Detector{
		Name:  "idiom:interpolation",
		Kinds: []syntax.Kind{syntax.KindInterpolation},
		Sets:  []Flag{flag},
		Match: func(n syntax.Node, _ *Scratch) (comment.Params, bool) {
			_, ok := n.(*syntax.Interpolation)
			return nil, ok
		},
	}
}

// Require is an invariant that holds when flag was observed.
func Require(name string, id comment.ID, severity comment.Severity, flag Flag) Invariant {
	return Invariant{
		Name:     name,
		Emits:    id,
		Severity: severity,
		Holds:    func(s *Scratch) bool { return s.Has(flag) },
	}
}

// AnyOf returns an ideal predicate that holds when any flag was observed.
func AnyOf(flags ...Flag) func(*Scratch) bool {
	return func(s *Scratch) bool {
		return slices.ContainsFunc(flags, s.Has)
	}
}
