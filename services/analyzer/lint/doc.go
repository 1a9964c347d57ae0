// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint turns pylint output into analyzer comments.
//
// # Overview
//
// The Runner executes pylint on a submission with JSON output, decodes
// each message, and converts it into a comment.Comment:
//
//	runner := lint.NewRunner(lint.WithRCFile("/opt/analyzer/pylintrc"))
//	comments, err := runner.Lint(ctx, "/tmp/solution/two_fer.py")
//
// # Severity Mapping
//
// pylint categories map to comment severities through a fixed table:
//
//	info, informational  -> informative
//	convention, refactor -> actionable
//	warning, error, fatal -> essential
//
// A Policy then drops messages that are noise for exercise feedback
// (line-too-long) and downgrades docstring and final-newline messages to
// informative.
//
// # Identity
//
// Each comment is identified as python.pylint.<category>.<symbol>. Repeated
// messages with the same symbol are folded into the first occurrence and
// their line numbers collected in the "lines" param.
//
// # Extended Documentation
//
// A Catalog supplies per-symbol examples (bad.py, good.py) and notes
// (related.md, details.md). The default catalog is embedded in the binary.
//
// # Failure Handling
//
// A missing pylint, a timeout, or undecodable output never fails an
// analysis. Lint returns the error for logging and callers proceed with
// zero lint comments.
package lint
