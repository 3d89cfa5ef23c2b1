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

// Package twin is an in-memory stand-in for the product API the smoke
// runner targets.  It implements the same routes, status codes and
// response shapes, and can be told to misbehave in the ways a real server
// does so every failure path of a smoke run can be exercised locally.
package twin

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Faults make the twin deviate from a correct server.
type Faults struct {
	// FailRegistration answers registrations with a 500.
	FailRegistration bool
	// MalformedLogin answers successful logins with a body that is not JSON.
	MalformedLogin bool
	// OmitProductID leaves product_id out of the creation response.
	OmitProductID bool
	// EmptyQuantityResponse answers quantity updates with an empty body.
	EmptyQuantityResponse bool
	// IgnoreQuantityUpdate acknowledges quantity updates without applying them.
	IgnoreQuantityUpdate bool
	// HideProducts makes the listing return no products.
	HideProducts bool
}

//nolint:gochecknoglobals
var faultNames = map[string]func(*Faults){
	"fail-registration":       func(f *Faults) { f.FailRegistration = true },
	"malformed-login":         func(f *Faults) { f.MalformedLogin = true },
	"omit-product-id":         func(f *Faults) { f.OmitProductID = true },
	"empty-quantity-response": func(f *Faults) { f.EmptyQuantityResponse = true },
	"ignore-quantity-update":  func(f *Faults) { f.IgnoreQuantityUpdate = true },
	"hide-products":           func(f *Faults) { f.HideProducts = true },
}

// FaultNames lists the names accepted by ParseFaults.
func FaultNames() []string {
	names := make([]string, 0, len(faultNames))

	for name := range faultNames {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ParseFaults turns fault names, as given on the command line, into Faults.
func ParseFaults(names []string) (Faults, error) {
	var faults Faults

	for _, name := range names {
		set, ok := faultNames[name]
		if !ok {
			return Faults{}, fmt.Errorf("unknown fault %q, expected one of %s", name, strings.Join(FaultNames(), ", "))
		}

		set(&faults)
	}

	return faults, nil
}

// Options configure a twin.
type Options struct {
	// Secret signs access tokens, a random secret is used if empty.
	Secret []byte
	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration
	// Logger receives a line per request at debug verbosity.
	Logger logr.Logger
	Faults Faults
}

// Server is the twin.  It implements http.Handler.
type Server struct {
	router   chi.Router
	store    *Store
	tokens   *TokenIssuer
	validate *validator.Validate
	log      logr.Logger

	lock   sync.RWMutex
	faults Faults
}

var _ http.Handler = &Server{}

//nolint:gochecknoglobals
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// New creates a twin with an empty store.
func New(options Options) (*Server, error) {
	tokens, err := NewTokenIssuer(options.Secret, options.TokenTTL)
	if err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("registering validation: %w", err)
	}

	s := &Server{
		store:    NewStore(),
		tokens:   tokens,
		validate: validate,
		log:      options.Logger,
		faults:   options.Faults,
	}

	s.router = s.routes()

	return s, nil
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)

	router.Get("/health", s.health)
	router.Post("/register", s.register)
	router.Post("/login", s.login)

	router.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/products", s.createProduct)
		r.Get("/products", s.listProducts)
		r.Get("/products/{productID}", s.getProduct)
		r.Put("/products/{productID}/quantity", s.updateQuantity)
	})

	return router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetFaults replaces the active faults.
func (s *Server) SetFaults(faults Faults) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.faults = faults
}

func (s *Server) activeFaults() Faults {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.faults
}

// RegisterUser creates an account directly, as if registered by an earlier run.
func (s *Server) RegisterUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if _, err := s.store.CreateUser(username, hash); err != nil {
		return err
	}

	return nil
}

// Products returns every stored product, newest first.
func (s *Server) Products() []Product {
	products, _ := s.store.ListProducts(1, math.MaxInt)

	return products
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()), "traceparent", r.Header.Get("Traceparent"))
	})
}
