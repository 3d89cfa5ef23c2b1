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
	"fmt"
	"net/url"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Authentication endpoints.
func (e *Endpoints) Register() string {
	return "/register"
}

func (e *Endpoints) Login() string {
	return "/login"
}

// Product endpoints.
func (e *Endpoints) Products() string {
	return "/products"
}

func (e *Endpoints) ProductQuantity(productID string) string {
	return fmt.Sprintf("/products/%s/quantity", url.PathEscape(productID))
}
