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

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces.go -package=mock

import (
	"context"

	"github.com/stockroom-labs/api-smoke/pkg/client"
)

// Client is the subset of the API the smoke sequence drives.
type Client interface {
	Register(ctx context.Context, credentials client.Credentials) (*client.Response, error)
	Login(ctx context.Context, credentials client.Credentials) (*client.Response, error)
	CreateProduct(ctx context.Context, token string, product client.Product) (*client.Response, error)
	UpdateQuantity(ctx context.Context, token, productID string, quantity int) (*client.Response, error)
	ListProducts(ctx context.Context, token string) (*client.Response, error)
}

// Reporter receives step results as soon as they are known.
type Reporter interface {
	Report(result StepResult)
	Halt(notice string)
}
