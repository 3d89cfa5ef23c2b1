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

// Package smoke runs the product API smoke sequence: register, log in,
// create a product, update its quantity and find it in the listing.
//
// Steps run strictly one after another.  Each step receives the RunContext
// produced by the one before it, and the run stops as soon as a step fails
// to reach the stage that later steps depend on (no token, no product id).
package smoke
