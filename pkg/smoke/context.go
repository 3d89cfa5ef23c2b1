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

// Stage is how far a run has progressed.
type Stage int

const (
	StageStart Stage = iota
	StageRegistered
	StageLoggedIn
	StageProductCreated
	StageQuantityUpdated
	StageProductsListed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageRegistered:
		return "registered"
	case StageLoggedIn:
		return "logged-in"
	case StageProductCreated:
		return "product-created"
	case StageQuantityUpdated:
		return "quantity-updated"
	case StageProductsListed:
		return "products-listed"
	}

	return "unknown"
}

// RunContext is the state threaded through a run.  It is a value type,
// every transition returns a new context and leaves the receiver untouched.
type RunContext struct {
	stage     Stage
	token     string
	productID string
}

// NewRunContext returns the context a run starts with.
func NewRunContext() RunContext {
	return RunContext{}
}

// Stage returns the furthest stage reached.
func (c RunContext) Stage() Stage {
	return c.stage
}

// Advance moves to a stage that produces no new state.
func (c RunContext) Advance(stage Stage) RunContext {
	if stage > c.stage {
		c.stage = stage
	}

	return c
}

// WithToken records a successful login.
func (c RunContext) WithToken(token string) RunContext {
	c.token = token

	return c.Advance(StageLoggedIn)
}

// WithProductID records a successful product creation.
func (c RunContext) WithProductID(productID string) RunContext {
	c.productID = productID

	return c.Advance(StageProductCreated)
}

// Token returns the bearer token, present once logged in.
func (c RunContext) Token() (string, bool) {
	return c.token, c.stage >= StageLoggedIn && c.token != ""
}

// ProductID returns the created product's identifier.
func (c RunContext) ProductID() (string, bool) {
	return c.productID, c.stage >= StageProductCreated && c.productID != ""
}
