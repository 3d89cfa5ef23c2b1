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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/stockroom-labs/api-smoke/pkg/client"

	"k8s.io/utils/ptr"
)

var (
	// ErrNoToken means a step that needs authentication ran before login succeeded.
	ErrNoToken = errors.New("no access token in run context")

	// ErrNoProduct means a step that needs a product ran before one was created.
	ErrNoProduct = errors.New("no product id in run context")
)

// statusFailure fills in the detail shown for an unexpected status code.
func statusFailure(name, expected string, request any, resp *client.Response) StepResult {
	return StepResult{
		Name:         name,
		Expected:     ptr.To(expected),
		Got:          ptr.To(strconv.Itoa(resp.StatusCode)),
		Request:      request,
		ResponseBody: ptr.To(resp.Text()),
	}
}

// register passes on 201, or on 409 as an earlier run may have created the
// user already.  It never stops the run.
func (r *Runner) register(ctx context.Context, rc RunContext) (RunContext, StepResult, error) {
	resp, err := r.client.Register(ctx, r.options.Credentials)
	if err != nil {
		return rc, StepResult{}, fmt.Errorf("registering user: %w", err)
	}

	next := rc.Advance(StageRegistered)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return next, statusFailure(StepRegister, "201 or 409", r.options.Credentials.Redacted(), resp), nil
	}

	return next, StepResult{Name: StepRegister, Passed: true}, nil
}

// login passes on 200 with a non-empty access_token.  Without a token the
// context stays where it was, which halts the run.
func (r *Runner) login(ctx context.Context, rc RunContext) (RunContext, StepResult, error) {
	resp, err := r.client.Login(ctx, r.options.Credentials)
	if err != nil {
		return rc, StepResult{}, fmt.Errorf("logging in: %w", err)
	}

	request := r.options.Credentials.Redacted()

	if resp.StatusCode != http.StatusOK {
		return rc, statusFailure(StepLogin, "200", request, resp), nil
	}

	token := ParseField[string](resp.Body, "access_token")

	reason := token.Reason
	if token.OK() && token.Value == "" {
		reason = "access_token is empty"
	}

	if reason != "" {
		return rc, StepResult{
			Name:         StepLogin,
			Expected:     ptr.To("non-empty access_token"),
			Got:          ptr.To(reason),
			Request:      request,
			ResponseBody: ptr.To(resp.Text()),
		}, nil
	}

	return rc.WithToken(token.Value), StepResult{Name: StepLogin, Passed: true}, nil
}

// identifier accepts the scalar shapes servers commonly use for ids.
func identifier(value any) (string, bool) {
	switch t := value.(type) {
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}

	return "", false
}

// createProduct passes on 201.  The status alone decides the result, but the
// run only continues if a product_id can be read from the body.
func (r *Runner) createProduct(ctx context.Context, rc RunContext) (RunContext, StepResult, error) {
	token, ok := rc.Token()
	if !ok {
		return rc, StepResult{}, ErrNoToken
	}

	resp, err := r.client.CreateProduct(ctx, token, r.options.Product)
	if err != nil {
		return rc, StepResult{}, fmt.Errorf("creating product: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return rc, statusFailure(StepCreateProduct, "201", r.options.Product, resp), nil
	}

	result := StepResult{Name: StepCreateProduct, Passed: true}

	attempt := ParseField[any](resp.Body, "product_id")
	if !attempt.OK() {
		logr.FromContextOrDiscard(ctx).Info("product created without a usable identifier", "reason", attempt.Reason, "traceID", resp.TraceID)

		return rc, result, nil
	}

	productID, ok := identifier(attempt.Value)
	if !ok {
		logr.FromContextOrDiscard(ctx).Info("product created without a usable identifier", "reason", fmt.Sprintf("product_id is %v", attempt.Value), "traceID", resp.TraceID)

		return rc, result, nil
	}

	return rc.WithProductID(productID), result, nil
}

// updateQuantity passes on 200.  The body is only read to echo the new
// quantity back to the user, whatever it holds does not change the result.
func (r *Runner) updateQuantity(ctx context.Context, rc RunContext) (RunContext, StepResult, error) {
	token, ok := rc.Token()
	if !ok {
		return rc, StepResult{}, ErrNoToken
	}

	productID, ok := rc.ProductID()
	if !ok {
		return rc, StepResult{}, ErrNoProduct
	}

	resp, err := r.client.UpdateQuantity(ctx, token, productID, r.options.NewQuantity)
	if err != nil {
		return rc, StepResult{}, fmt.Errorf("updating quantity: %w", err)
	}

	next := rc.Advance(StageQuantityUpdated)

	if resp.StatusCode != http.StatusOK {
		return next, statusFailure(StepUpdateQuantity, "200", client.QuantityUpdate{Quantity: r.options.NewQuantity}, resp), nil
	}

	result := StepResult{Name: StepUpdateQuantity, Passed: true}

	quantity := ParseField[any](resp.Body, "product", "quantity")

	switch quantity.Status {
	case ParseOK:
		result.Summary = fmt.Sprintf(", Updated quantity: %v", quantity.Value)
	case ParseFieldMissing:
		result.Summary = ", Updated quantity: unknown"
	case ParseBodyEmpty:
		result.Summary = ", but response body is empty"
	case ParseBodyMalformed:
		result.Summary = ", but response body is not valid JSON"
	}

	if !quantity.OK() || !sameQuantity(quantity.Value, r.options.NewQuantity) {
		// The listing check still uses the requested value, so a server that
		// silently ignores the update only shows up there.
		logr.FromContextOrDiscard(ctx).Info("quantity update not confirmed by response, listing check relies on the requested quantity",
			"requested", r.options.NewQuantity, "parse", quantity.Status.String(), "reason", quantity.Reason, "traceID", resp.TraceID)
	}

	return next, result, nil
}

// sameQuantity compares a decoded JSON value with an integer quantity.
func sameQuantity(value any, quantity int) bool {
	number, ok := value.(float64)

	return ok && number == float64(quantity)
}

// formatValue renders a decoded JSON value for the report.
func formatValue(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}

// findProduct returns the first record with the given name.
func findProduct(products []any, name string) map[string]any {
	for _, item := range products {
		product, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if product["name"] == name {
			return product
		}
	}

	return nil
}

// listProducts passes when the listing holds the product with the expected
// quantity.  Every broken link in that chain fails differently so the
// report shows where it broke.
func (r *Runner) listProducts(ctx context.Context, rc RunContext) (RunContext, StepResult, error) {
	token, ok := rc.Token()
	if !ok {
		return rc, StepResult{}, ErrNoToken
	}

	resp, err := r.client.ListProducts(ctx, token)
	if err != nil {
		return rc, StepResult{}, fmt.Errorf("listing products: %w", err)
	}

	next := rc.Advance(StageProductsListed)

	if resp.StatusCode != http.StatusOK {
		return next, statusFailure(StepListProducts, "200", nil, resp), nil
	}

	result := StepResult{Name: StepListProducts}

	data := ParseField[[]any](resp.Body, "data")

	switch data.Status {
	case ParseOK:
	case ParseBodyEmpty, ParseBodyMalformed:
		result.Expected = ptr.To("valid JSON list")
		result.Got = ptr.To("Invalid JSON")
		result.ResponseBody = ptr.To(resp.Text())

		return next, result, nil
	case ParseFieldMissing:
		result.Expected = ptr.To("data collection")
		result.Got = ptr.To(data.Reason)
		result.ResponseBody = ptr.To(resp.Text())

		return next, result, nil
	}

	products := data.Value
	name := r.options.Product.Name
	expected := r.options.ExpectedQuantity

	product := findProduct(products, name)
	if product == nil {
		result.Notes = []string{fmt.Sprintf("Could not find product named '%s'", name)}
		result.ResponseBody = ptr.To(formatValue(products))

		return next, result, nil
	}

	quantity := product["quantity"]

	if !sameQuantity(quantity, expected) {
		result.Notes = []string{fmt.Sprintf("Expected Quantity: %d, Got: %s", expected, formatValue(quantity))}
		result.ResponseBody = ptr.To(formatValue(products))

		return next, result, nil
	}

	result.Passed = true
	result.Summary = fmt.Sprintf(" (Quantity = %s)", formatValue(quantity))

	return next, result, nil
}
