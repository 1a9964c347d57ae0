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

// GhostGobbleArcadeGame has no structural rules; feedback comes from the
// linter alone.
func GhostGobbleArcadeGame() *RuleSet {
	return MustRuleSet(Definition{
		Slug: "ghost-gobble-arcade-game",
		Lint: true,
	})
}

// ProcessingLogs relies on the linter and falls back to a general
// recommendation when the linter has nothing to say.
func ProcessingLogs() *RuleSet {
	fallback := comment.New(comment.GeneralRecommendations, comment.Informative, nil)
	return MustRuleSet(Definition{
		Slug:     "processing-logs",
		Lint:     true,
		Fallback: &fallback,
	})
}

// All returns every built-in rule set. The list is closed: adding an
// exercise means adding a constructor here.
func All() []*RuleSet {
	return []*RuleSet{
		TwoFer(),
		GhostGobbleArcadeGame(),
		ProcessingLogs(),
	}
}
