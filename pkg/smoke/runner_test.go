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
	"bytes"
	"context"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/stockroom-labs/api-smoke/pkg/client"
	"github.com/stockroom-labs/api-smoke/pkg/smoke"
	"github.com/stockroom-labs/api-smoke/pkg/twin"
)

const (
	username = "puja"
	password = "mypassword"
)

var _ = Describe("Smoke run against the product API", func() {
	var (
		server  *twin.Server
		api     *httptest.Server
		out     *bytes.Buffer
		options smoke.Options
	)

	BeforeEach(func() {
		var err error

		server, err = twin.New(twin.Options{Secret: []byte("test-secret")})
		Expect(err).NotTo(HaveOccurred())

		api = httptest.NewServer(server)
		DeferCleanup(api.Close)

		out = &bytes.Buffer{}

		options = smoke.Options{
			Credentials:      client.Credentials{Username: username, Password: password},
			Product:          client.NewProductPayload().Build(),
			NewQuantity:      15,
			ExpectedQuantity: 15,
		}
	})

	run := func() *smoke.Summary {
		runner := smoke.New(client.New(client.Options{BaseURL: api.URL}), smoke.NewConsoleReporter(out, false), options)

		summary, err := runner.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		return summary
	}

	Describe("a healthy server", func() {
		It("passes every step for a new user", func() {
			summary := run()

			Expect(summary.Passed()).To(BeTrue())
			Expect(summary.Halted).To(BeFalse())
			Expect(summary.Results).To(HaveLen(5))
			Expect(summary.Context.Stage()).To(Equal(smoke.StageProductsListed))

			Expect(out.String()).To(Equal("User Registration: PASSED\n" +
				"Login Test: PASSED\n" +
				"Add Product: PASSED\n" +
				"Update Quantity: PASSED, Updated quantity: 15\n" +
				"Get Products: PASSED (Quantity = 15)\n"))

			products := server.Products()
			Expect(products).To(HaveLen(1))
			Expect(products[0].Quantity).To(Equal(15))
		})

		It("tolerates a user registered by an earlier run", func() {
			Expect(server.RegisterUser(username, password)).To(Succeed())

			summary := run()

			Expect(summary.Passed()).To(BeTrue())
			Expect(out.String()).To(HavePrefix("User Registration: PASSED\nLogin Test: PASSED\n"))
		})

		It("runs repeatedly against the same server", func() {
			Expect(run().Passed()).To(BeTrue())

			out.Reset()

			options.Product = client.NewProductPayload().WithSKU("PHN-002").WithPrice(899).Build()

			Expect(run().Passed()).To(BeTrue())
			Expect(server.Products()).To(HaveLen(2))
		})

		It("checks the configured listing quantity", func() {
			options.ExpectedQuantity = 3

			summary := run()

			Expect(summary.Passed()).To(BeFalse())
			Expect(summary.Failed()).To(ConsistOf(smoke.StepListProducts))
			Expect(out.String()).To(ContainSubstring("  Expected Quantity: 3, Got: 15\n"))
		})
	})

	Describe("a wrong password", func() {
		It("halts after login", func() {
			Expect(server.RegisterUser(username, "another-password")).To(Succeed())

			summary := run()

			Expect(summary.Halted).To(BeTrue())
			Expect(summary.Notice).To(Equal(smoke.NoticeLoginFailed))
			Expect(summary.Results).To(HaveLen(2))
			Expect(summary.Failed()).To(ConsistOf(smoke.StepLogin))

			Expect(out.String()).To(Equal("User Registration: PASSED\n" +
				"Login Test: FAILED\n" +
				"  Request: {\"username\":\"puja\",\"password\":\"********\"}\n" +
				"  Expected: 200, Got: 401\n" +
				"  Response Body: {\"message\":\"Invalid credentials\",\"success\":false}\n" +
				"Login failed. Skipping further tests.\n"))

			Expect(server.Products()).To(BeEmpty())
		})
	})

	Describe("a misbehaving server", func() {
		It("keeps going when registration fails", func() {
			server.SetFaults(twin.Faults{FailRegistration: true})
			Expect(server.RegisterUser(username, password)).To(Succeed())

			summary := run()

			Expect(summary.Halted).To(BeFalse())
			Expect(summary.Results).To(HaveLen(5))
			Expect(summary.Failed()).To(ConsistOf(smoke.StepRegister))
			Expect(out.String()).To(ContainSubstring("  Expected: 201 or 409, Got: 500\n"))
		})

		It("halts when the login body is not JSON", func() {
			server.SetFaults(twin.Faults{MalformedLogin: true})

			summary := run()

			Expect(summary.Halted).To(BeTrue())
			Expect(summary.Notice).To(Equal(smoke.NoticeLoginFailed))
			Expect(out.String()).To(ContainSubstring("  Expected: non-empty access_token, Got: response body is not valid JSON"))
		})

		It("halts when the product identifier is missing", func() {
			server.SetFaults(twin.Faults{OmitProductID: true})

			summary := run()

			Expect(summary.Halted).To(BeTrue())
			Expect(summary.Notice).To(Equal(smoke.NoticeProductFailed))
			Expect(summary.Results).To(HaveLen(3))
			Expect(summary.Context.Stage()).To(Equal(smoke.StageLoggedIn))

			Expect(out.String()).To(HaveSuffix("Add Product: PASSED\nProduct creation failed. Skipping further tests.\n"))
		})

		It("passes an update with an empty body and still checks the requested quantity", func() {
			server.SetFaults(twin.Faults{EmptyQuantityResponse: true})

			summary := run()

			Expect(summary.Passed()).To(BeTrue())
			Expect(out.String()).To(ContainSubstring("Update Quantity: PASSED, but response body is empty\n"))
			Expect(out.String()).To(ContainSubstring("Get Products: PASSED (Quantity = 15)\n"))
		})

		It("catches an update the server did not apply", func() {
			server.SetFaults(twin.Faults{IgnoreQuantityUpdate: true})

			summary := run()

			Expect(summary.Failed()).To(ConsistOf(smoke.StepListProducts))
			Expect(out.String()).To(ContainSubstring("Update Quantity: PASSED, Updated quantity: 5\n"))
			Expect(out.String()).To(ContainSubstring("Get Products: FAILED\n  Expected Quantity: 15, Got: 5\n"))
		})

		It("prints the whole collection when the product is missing", func() {
			server.SetFaults(twin.Faults{HideProducts: true})

			summary := run()

			Expect(summary.Failed()).To(ConsistOf(smoke.StepListProducts))
			Expect(out.String()).To(HaveSuffix("Get Products: FAILED\n" +
				"  Could not find product named 'Phone'\n" +
				"  Response Body: []\n"))
		})
	})
})
