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

package suites

import (
	"bytes"
	"net/http"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/stockroom-labs/api-smoke/pkg/client"
	"github.com/stockroom-labs/api-smoke/pkg/smoke"
)

var _ = Describe("Live API", func() {
	Context("when running the full sequence", func() {
		It("passes every step", func() {
			var out bytes.Buffer

			summary, err := smoke.New(api, smoke.NewConsoleReporter(&out, false), smoke.Options{
				Credentials:      cfg.Credentials,
				Product:          cfg.Product,
				NewQuantity:      cfg.NewQuantity,
				ExpectedQuantity: cfg.ListingQuantity(),
			}).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			GinkgoWriter.Print(out.String())

			Expect(summary.Failed()).To(BeEmpty())
			Expect(summary.Passed()).To(BeTrue())
		})
	})

	Context("when authentication is missing or wrong", func() {
		It("rejects listing without a token", func() {
			resp, err := api.ListProducts(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("rejects an invalid token", func() {
			resp, err := api.ListProducts(ctx, "not-a-token")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a wrong password", func() {
			_, err := api.Register(ctx, cfg.Credentials)
			Expect(err).NotTo(HaveOccurred())

			resp, err := api.Login(ctx, client.Credentials{Username: cfg.Credentials.Username, Password: cfg.Credentials.Password + "-wrong"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})
	})

	Context("when the product is invalid", func() {
		It("rejects it", func() {
			_, err := api.Register(ctx, cfg.Credentials)
			Expect(err).NotTo(HaveOccurred())

			resp, err := api.Login(ctx, cfg.Credentials)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			token := smoke.ParseField[string](resp.Body, "access_token")
			Expect(token.OK()).To(BeTrue(), token.Reason)

			product := client.NewProductPayload().WithQuantity(-1).Build()

			resp, err = api.CreateProduct(ctx, token.Value, product)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})
})
