/*
Copyright 2026 the Stockroom Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package smoke

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleReporter prints results as human readable lines.  Passing steps
// get a single line, failing ones are followed by whatever detail the step
// captured.
type ConsoleReporter struct {
	out    io.Writer
	passed string
	failed string
	halt   lipgloss.Style
	color  bool
}

// NewConsoleReporter writes to out, colouring the status words if color is set.
func NewConsoleReporter(out io.Writer, color bool) *ConsoleReporter {
	r := &ConsoleReporter{
		out:    out,
		passed: "PASSED",
		failed: "FAILED",
		halt:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		color:  color,
	}

	if color {
		r.passed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render(r.passed)
		r.failed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Render(r.failed)
	}

	return r
}

var _ Reporter = &ConsoleReporter{}

// Report prints a step result.
func (r *ConsoleReporter) Report(result StepResult) {
	if result.Passed {
		fmt.Fprintf(r.out, "%s: %s%s\n", result.Name, r.passed, result.Summary)
		return
	}

	fmt.Fprintf(r.out, "%s: %s\n", result.Name, r.failed)

	if result.Request != nil {
		fmt.Fprintf(r.out, "  Request: %s\n", formatValue(result.Request))
	}

	if result.Expected != nil && result.Got != nil {
		fmt.Fprintf(r.out, "  Expected: %s, Got: %s\n", *result.Expected, *result.Got)
	}

	for _, note := range result.Notes {
		fmt.Fprintf(r.out, "  %s\n", note)
	}

	if result.ResponseBody != nil && *result.ResponseBody != "" {
		fmt.Fprintf(r.out, "  Response Body: %s\n", *result.ResponseBody)
	}
}

// Halt prints the notice that ends a run early.
func (r *ConsoleReporter) Halt(notice string) {
	if r.color {
		notice = r.halt.Render(notice)
	}

	fmt.Fprintln(r.out, notice)
}
