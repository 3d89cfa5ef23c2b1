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

// Package client provides the HTTP client used to drive the product API
// under test.
//
// The client deliberately knows nothing about what a "good" response is:
// every status code is handed back to the caller along with the raw body,
// and only transport level problems are reported as errors.  Judging the
// response is the job of the smoke runner.
//
// Each request carries W3C trace context headers so a failing run can be
// correlated with the server's logs.
package client
