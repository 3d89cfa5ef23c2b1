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

package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/stockroom-labs/api-smoke/pkg/constants"
)

// Options configure the client.
type Options struct {
	// BaseURL is the address of the API under test, e.g. http://localhost:8080.
	BaseURL string
	// RequestTimeout bounds each request, zero means no limit.
	RequestTimeout time.Duration
	// LogRequests logs a line per request at debug verbosity.
	LogRequests bool
	// LogResponses logs response bodies at debug verbosity.
	LogResponses bool
}

// Response is what the API answered.  Any status code is a valid response.
type Response struct {
	StatusCode int
	Body       []byte
	TraceID    string
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

type APIClient struct {
	baseURL   string
	client    *http.Client
	options   Options
	endpoints *Endpoints
}

// New returns a client for the API at options.BaseURL.
func New(options Options) *APIClient {
	return NewWithHTTPClient(options, &http.Client{
		Timeout: options.RequestTimeout,
	})
}

// NewWithHTTPClient allows the transport to be replaced, typically by tests.
func NewWithHTTPClient(options Options, client *http.Client) *APIClient {
	return &APIClient{
		baseURL:   strings.TrimSuffix(options.BaseURL, "/"),
		client:    client,
		options:   options,
		endpoints: NewEndpoints(),
	}
}

// logError logs a transport error with trace context.
func (c *APIClient) logError(log logr.Logger, method, path string, duration time.Duration, traceParent string, err error, message string) {
	log.Error(err, message, "method", method, "path", path, "duration", duration, "traceID", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// A fresh trace per request means a failed step can be found in the server logs.
func generateTraceID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func (c *APIClient) doRequest(ctx context.Context, method, path, token string, payload any) (*Response, error) {
	log := logr.FromContextOrDiscard(ctx)

	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation="+constants.Application)
	req.Header.Set("User-Agent", constants.VersionString())
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(log, method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("%s %s: http request failed: %w", method, path, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(log, method, path, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("%s %s: reading response body: %w", method, path, err)
	}

	if c.options.LogRequests {
		log.V(1).Info("request complete", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceID", extractTraceID(traceParent))
	}

	if c.options.LogResponses && len(respBody) > 0 {
		log.V(1).Info("response body", "method", method, "path", path, "body", string(respBody))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		TraceID:    extractTraceID(traceParent),
	}, nil
}

// Register creates a user account.
func (c *APIClient) Register(ctx context.Context, credentials Credentials) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, c.endpoints.Register(), "", credentials)
}

// Login exchanges credentials for an access token.
func (c *APIClient) Login(ctx context.Context, credentials Credentials) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, c.endpoints.Login(), "", credentials)
}

// CreateProduct adds a product to the catalogue.
func (c *APIClient) CreateProduct(ctx context.Context, token string, product Product) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, c.endpoints.Products(), token, product)
}

// UpdateQuantity sets the stock level of a product.
func (c *APIClient) UpdateQuantity(ctx context.Context, token, productID string, quantity int) (*Response, error) {
	return c.doRequest(ctx, http.MethodPut, c.endpoints.ProductQuantity(productID), token, QuantityUpdate{Quantity: quantity})
}

// ListProducts returns the first page of products.
func (c *APIClient) ListProducts(ctx context.Context, token string) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.Products(), token, nil)
}
