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

// Credentials are sent to both the registration and login endpoints.
type Credentials struct {
	Username string `json:"username" yaml:"username" validate:"required"`
	Password string `json:"password" yaml:"password" validate:"required"`
}

// Redacted returns a copy that is safe to print in reports.
func (c Credentials) Redacted() Credentials {
	if c.Password != "" {
		c.Password = "********"
	}

	return c
}

// Product is the product creation payload.
type Product struct {
	Name        string  `json:"name" yaml:"name" validate:"required,max=100"`
	Type        string  `json:"type" yaml:"type" validate:"required,max=50"`
	SKU         string  `json:"sku" yaml:"sku" validate:"required,max=20"`
	ImageURL    string  `json:"image_url" yaml:"imageURL" validate:"omitempty,http_url"`
	Description string  `json:"description" yaml:"description" validate:"max=500"`
	Quantity    int     `json:"quantity" yaml:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" yaml:"price" validate:"gte=0"`
}

// QuantityUpdate is the body of a product quantity update.
type QuantityUpdate struct {
	Quantity int `json:"quantity"`
}

// ProductPayloadBuilder builds product payloads.
type ProductPayloadBuilder struct {
	payload Product
}

// NewProductPayload creates a new product payload builder with the
// defaults used by a smoke run.
func NewProductPayload() *ProductPayloadBuilder {
	return &ProductPayloadBuilder{
		payload: Product{
			Name:        "Phone",
			Type:        "Electronics",
			SKU:         "PHN-001",
			ImageURL:    "https://example.com/phone.jpg",
			Description: "Latest Phone",
			Quantity:    5,
			Price:       999.99,
		},
	}
}

// WithName sets the product name.
func (b *ProductPayloadBuilder) WithName(name string) *ProductPayloadBuilder {
	b.payload.Name = name
	return b
}

// WithSKU sets the stock keeping unit.
func (b *ProductPayloadBuilder) WithSKU(sku string) *ProductPayloadBuilder {
	b.payload.SKU = sku
	return b
}

// WithQuantity sets the initial stock level.
func (b *ProductPayloadBuilder) WithQuantity(quantity int) *ProductPayloadBuilder {
	b.payload.Quantity = quantity
	return b
}

// WithPrice sets the unit price.
func (b *ProductPayloadBuilder) WithPrice(price float64) *ProductPayloadBuilder {
	b.payload.Price = price
	return b
}

// Build returns the completed product payload.
func (b *ProductPayloadBuilder) Build() Product {
	return b.payload
}
