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

package smoke_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/stockroom-labs/api-smoke/pkg/client"
	"github.com/stockroom-labs/api-smoke/pkg/smoke"
	"github.com/stockroom-labs/api-smoke/pkg/smoke/mock"

	"go.uber.org/mock/gomock"
)

var errConnectionRefused = errors.New("connection refused")

func response(status int, body string) *client.Response {
	return &client.Response{StatusCode: status, Body: []byte(body)}
}

var _ = Describe("Runner", func() {
	var (
		ctrl     *gomock.Controller
		api      *mock.MockClient
		reporter *mock.MockReporter
		reported []smoke.StepResult
		options  smoke.Options
		ctx      context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		api = mock.NewMockClient(ctrl)
		reporter = mock.NewMockReporter(ctrl)
		reported = nil
		ctx = context.Background()

		options = smoke.Options{
			Credentials:      client.Credentials{Username: "puja", Password: "mypassword"},
			Product:          client.NewProductPayload().Build(),
			NewQuantity:      15,
			ExpectedQuantity: 15,
		}

		reporter.EXPECT().Report(gomock.Any()).Do(func(result smoke.StepResult) {
			reported = append(reported, result)
		}).AnyTimes()
	})

	run := func() (*smoke.Summary, error) {
		return smoke.New(api, reporter, options).Run(ctx)
	}

	loggedIn := func() {
		api.EXPECT().Register(ctx, options.Credentials).Return(response(http.StatusCreated, `{}`), nil)
		api.EXPECT().Login(ctx, options.Credentials).Return(response(http.StatusOK, `{"access_token":"token"}`), nil)
	}

	created := func() {
		loggedIn()
		api.EXPECT().CreateProduct(ctx, "token", options.Product).Return(response(http.StatusCreated, `{"product_id":"p1"}`), nil)
	}

	Context("when the API cannot be reached", func() {
		It("returns the transport error and the steps completed so far", func() {
			api.EXPECT().Register(ctx, options.Credentials).Return(response(http.StatusCreated, `{}`), nil)
			api.EXPECT().Login(ctx, options.Credentials).Return(nil, errConnectionRefused)

			summary, err := run()
			Expect(err).To(MatchError(errConnectionRefused))
			Expect(err.Error()).To(HavePrefix("logging in: "))
			Expect(summary.Results).To(HaveLen(1))
			Expect(summary.Context.Stage()).To(Equal(smoke.StageRegistered))
			Expect(reported).To(HaveLen(1))
		})
	})

	Context("when login returns no token", func() {
		It("halts without touching products", func() {
			api.EXPECT().Register(ctx, options.Credentials).Return(response(http.StatusConflict, `{}`), nil)
			api.EXPECT().Login(ctx, options.Credentials).Return(response(http.StatusOK, `{"access_token":""}`), nil)
			reporter.EXPECT().Halt(smoke.NoticeLoginFailed)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Halted).To(BeTrue())

			Expect(reported).To(HaveLen(2))
			Expect(reported[0].Passed).To(BeTrue())
			Expect(reported[1].Passed).To(BeFalse())
			Expect(*reported[1].Expected).To(Equal("non-empty access_token"))
			Expect(*reported[1].Got).To(Equal("access_token is empty"))
		})

		It("halts when the token field is absent", func() {
			api.EXPECT().Register(ctx, options.Credentials).Return(response(http.StatusCreated, `{}`), nil)
			api.EXPECT().Login(ctx, options.Credentials).Return(response(http.StatusOK, `{"token":"abc"}`), nil)
			reporter.EXPECT().Halt(smoke.NoticeLoginFailed)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Halted).To(BeTrue())
			Expect(*reported[1].Got).To(Equal("access_token not found"))
		})
	})

	Context("when product creation fails", func() {
		It("halts with the product notice", func() {
			loggedIn()
			api.EXPECT().CreateProduct(ctx, "token", options.Product).Return(response(http.StatusBadRequest, `{"message":"Validation failed"}`), nil)
			reporter.EXPECT().Halt(smoke.NoticeProductFailed)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Halted).To(BeTrue())
			Expect(summary.Failed()).To(ConsistOf(smoke.StepCreateProduct))
			Expect(reported[2].Request).To(Equal(options.Product))
			Expect(*reported[2].Got).To(Equal("400"))
		})
	})

	Context("when the product identifier is a number", func() {
		It("threads it through as text", func() {
			loggedIn()
			api.EXPECT().CreateProduct(ctx, "token", options.Product).Return(response(http.StatusCreated, `{"product_id":42}`), nil)
			api.EXPECT().UpdateQuantity(ctx, "token", "42", 15).Return(response(http.StatusOK, `{"product":{"quantity":15}}`), nil)
			api.EXPECT().ListProducts(ctx, "token").Return(response(http.StatusOK, `{"data":[{"name":"Phone","quantity":15}]}`), nil)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Passed()).To(BeTrue())

			id, ok := summary.Context.ProductID()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("42"))
		})
	})

	Context("when the quantity update fails", func() {
		It("still lists products", func() {
			created()
			api.EXPECT().UpdateQuantity(ctx, "token", "p1", 15).Return(response(http.StatusNotFound, `{"message":"Product not found"}`), nil)
			api.EXPECT().ListProducts(ctx, "token").Return(response(http.StatusOK, `{"data":[{"name":"Phone","quantity":5}]}`), nil)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Halted).To(BeFalse())
			Expect(summary.Failed()).To(ConsistOf(smoke.StepUpdateQuantity, smoke.StepListProducts))
			Expect(reported[3].Request).To(Equal(client.QuantityUpdate{Quantity: 15}))
			Expect(reported[4].Notes).To(ConsistOf("Expected Quantity: 15, Got: 5"))
		})
	})

	DescribeTable("quantity update bodies",
		func(body, summary string) {
			created()
			api.EXPECT().UpdateQuantity(ctx, "token", "p1", 15).Return(response(http.StatusOK, body), nil)
			api.EXPECT().ListProducts(ctx, "token").Return(response(http.StatusOK, `{"data":[{"name":"Phone","quantity":15}]}`), nil)

			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(reported[3].Passed).To(BeTrue())
			Expect(reported[3].Summary).To(Equal(summary))
		},
		Entry("confirmed", `{"product":{"quantity":15}}`, ", Updated quantity: 15"),
		Entry("empty", ``, ", but response body is empty"),
		Entry("malformed", `OK`, ", but response body is not valid JSON"),
		Entry("no quantity", `{"product":{}}`, ", Updated quantity: unknown"),
	)

	DescribeTable("listing failures",
		func(status int, body, expected, got string) {
			created()
			api.EXPECT().UpdateQuantity(ctx, "token", "p1", 15).Return(response(http.StatusOK, `{"product":{"quantity":15}}`), nil)
			api.EXPECT().ListProducts(ctx, "token").Return(response(status, body), nil)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Failed()).To(ConsistOf(smoke.StepListProducts))
			Expect(summary.Context.Stage()).To(Equal(smoke.StageProductsListed))

			result := reported[4]
			Expect(*result.Expected).To(Equal(expected))
			Expect(*result.Got).To(Equal(got))
			Expect(*result.ResponseBody).To(Equal(body))
		},
		Entry("bad status", http.StatusUnauthorized, `{"message":"Token is not valid."}`, "200", "401"),
		Entry("malformed body", http.StatusOK, `<html>`, "valid JSON list", "Invalid JSON"),
		Entry("empty body", http.StatusOK, ``, "valid JSON list", "Invalid JSON"),
		Entry("no collection", http.StatusOK, `{"products":[]}`, "data collection", "data not found"),
	)

	Context("when the listing holds other products only", func() {
		It("prints the collection", func() {
			created()
			api.EXPECT().UpdateQuantity(ctx, "token", "p1", 15).Return(response(http.StatusOK, `{}`), nil)
			api.EXPECT().ListProducts(ctx, "token").Return(response(http.StatusOK, `{"data":[{"name":"Tablet","quantity":15}]}`), nil)

			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Failed()).To(ConsistOf(smoke.StepListProducts))
			Expect(reported[4].Notes).To(ConsistOf("Could not find product named 'Phone'"))
			Expect(*reported[4].ResponseBody).To(Equal(`[{"name":"Tablet","quantity":15}]`))
		})
	})
})
