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

import "github.com/AleutianAI/analyzer/services/analyzer/comment"

// Comments raised by the two-fer rule set.
var (
	TwoFerNoMethod          = comment.NewID("two-fer", "no_method")
	TwoFerSimpleConcat      = comment.NewID("two-fer", "simple_concat")
	TwoFerNoDefArg          = comment.NewID("two-fer", "no_def_arg")
	TwoFerWrongDefArg       = comment.NewID("two-fer", "wrong_def_arg")
	TwoFerConditionals      = comment.NewID("two-fer", "conditionals")
	TwoFerPercentFormatting = comment.NewID("two-fer", "percent_formatting")
	TwoFerNoReturn          = comment.NewID("two-fer", "no_return")
)

const (
	flagTwoFerDefined Flag = "two_fer_defined"
	flagDefaultArg    Flag = "default_argument"
	flagReturnsValue  Flag = "returns_value"
	flagUsesFormat    Flag = "uses_str_format"
	flagUsesFString   Flag = "uses_f_string"
)

// TwoFer checks a solution to "One for X, one for me.":
// a top-level two_fer function with a default argument of "you" that
// returns a string built with str.format or an f-string.
func TwoFer() *RuleSet {
	return MustRuleSet(Definition{
		Slug: "two-fer",
		Detectors: []Detector{
			DefinitionPresence("two_fer", flagTwoFerDefined),
			OperatorUsage(TwoFerSimpleConcat, comment.Actionable, "+"),
			DefaultArgumentPresence(flagDefaultArg),
			DefaultArgumentValue(TwoFerWrongDefArg, comment.Essential, "you", flagDefaultArg),
			ControlFlowShape(TwoFerConditionals, comment.Actionable),
			OperatorUsage(TwoFerPercentFormatting, comment.Actionable, "%"),
			ReturnPresence(flagReturnsValue),
			MethodIdiom("format", flagUsesFormat),
			InterpolationIdiom(flagUsesFString),
		},
		Invariants: []Invariant{
			Require("has-method", TwoFerNoMethod, comment.Essential, flagTwoFerDefined),
			Require("has-default-argument", TwoFerNoDefArg, comment.Essential, flagDefaultArg),
			Require("has-return", TwoFerNoReturn, comment.Essential, flagReturnsValue),
		},
		Ideal: AnyOf(flagUsesFormat, flagUsesFString),
		Lint:  true,
	})
}
