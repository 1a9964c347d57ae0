// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command analyzer runs automatic feedback analysis on Python exercise
// submissions and writes analysis.json.
//
// Usage:
//
//	analyzer run two-fer ./solution ./solution/output
//	analyzer list
//	analyzer show ./solution/output/analysis.json
//	analyzer batch two-fer ./sub1 ./sub2 --out-dir ./results
//	analyzer watch two-fer ./solution ./solution/output
//	analyzer serve --addr :8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
