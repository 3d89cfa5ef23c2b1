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

// Step names as they appear in the report.
const (
	StepRegister       = "User Registration"
	StepLogin          = "Login Test"
	StepCreateProduct  = "Add Product"
	StepUpdateQuantity = "Update Quantity"
	StepListProducts   = "Get Products"
)

// Halt notices printed when a run cannot continue.
const (
	NoticeLoginFailed   = "Login failed. Skipping further tests."
	NoticeProductFailed = "Product creation failed. Skipping further tests."
)

// StepResult is the outcome of one HTTP interaction.
type StepResult struct {
	Name   string
	Passed bool
	// Summary is appended to the status line, e.g. ", Updated quantity: 15".
	Summary string
	// Expected and Got are shown together on failure.
	Expected *string
	Got      *string
	// Request is the payload that was sent, if any.
	Request any
	// Notes are extra diagnostic lines.
	Notes []string
	// ResponseBody is the raw response, or the part of it worth showing.
	ResponseBody *string
}

// Summary is the outcome of a whole run.
type Summary struct {
	Results []StepResult
	// Halted is set when a step failed to produce state later steps need.
	Halted bool
	Notice string
	// Context is the final run context.
	Context RunContext
}

// Passed is true when every step ran and passed.
func (s *Summary) Passed() bool {
	if s.Halted {
		return false
	}

	for i := range s.Results {
		if !s.Results[i].Passed {
			return false
		}
	}

	return true
}

// Failed returns the names of the steps that failed.
func (s *Summary) Failed() []string {
	var failed []string

	for i := range s.Results {
		if !s.Results[i].Passed {
			failed = append(failed, s.Results[i].Name)
		}
	}

	return failed
}
