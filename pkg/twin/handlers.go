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

package twin

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type response map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{
		"success": false,
		"message": message,
	})
}

func (s *Server) decode(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return err
	}

	return s.validate.Struct(out)
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=6"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{"status": "ok"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if s.activeFaults().FailRegistration {
		writeError(w, http.StatusInternalServerError, "Internal server error during registration")
		return
	}

	var request credentialsRequest

	if err := s.decode(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Username must be 3-30 characters long and contain only letters, numbers, and underscores, password at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error during registration")
		return
	}

	user, err := s.store.CreateUser(request.Username, hash)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "Username already exists")
			return
		}

		writeError(w, http.StatusInternalServerError, "Internal server error during registration")

		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error during registration")
		return
	}

	writeJSON(w, http.StatusCreated, response{
		"success":      true,
		"message":      "User registered successfully",
		"access_token": token,
		"user":         userView{ID: user.ID, Username: user.Username},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := s.decode(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.store.User(request.Username)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(request.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if s.activeFaults().MalformedLogin {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>Login successful</html>"))

		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error during login")
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success":      true,
		"message":      "Login successful",
		"access_token": token,
		"user":         userView{ID: user.ID, Username: user.Username},
	})
}

type productRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Type        string   `json:"type" validate:"required,max=50"`
	SKU         string   `json:"sku" validate:"required,max=20"`
	ImageURL    string   `json:"image_url" validate:"omitempty,http_url"`
	Description string   `json:"description" validate:"max=500"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var request productRequest

	if err := s.decode(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			"success": false,
			"message": "Validation failed",
			"errors":  []string{err.Error()},
		})

		return
	}

	product := s.store.CreateProduct(Product{
		Name:        strings.TrimSpace(request.Name),
		Type:        strings.TrimSpace(request.Type),
		SKU:         strings.ToUpper(strings.TrimSpace(request.SKU)),
		ImageURL:    request.ImageURL,
		Description: request.Description,
		Quantity:    *request.Quantity,
		Price:       *request.Price,
		CreatedBy:   user.ID,
	})

	body := response{
		"success":    true,
		"message":    "Product added successfully",
		"product_id": product.ID,
		"product":    product,
	}

	if s.activeFaults().OmitProductID {
		delete(body, "product_id")
	}

	writeJSON(w, http.StatusCreated, body)
}

// pageParam mirrors the lenient parsing of the real service: anything that
// is not a number falls back to the default, then it is clamped.
func pageParam(value string, fallback, lower, upper int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed == 0 {
		parsed = fallback
	}

	return min(max(parsed, lower), upper)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := pageParam(query.Get("page"), 1, 1, math.MaxInt32)
	limit := pageParam(query.Get("limit"), defaultPageSize, 1, maxPageSize)

	products, total := s.store.ListProducts(page, limit)

	if s.activeFaults().HideProducts {
		products, total = []Product{}, 0
	}

	totalPages := (total + limit - 1) / limit

	writeJSON(w, http.StatusOK, response{
		"data": products,
		"pagination": response{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   total,
			"itemsPerPage": limit,
			"hasNextPage":  page < totalPages,
			"hasPrevPage":  page > 1,
		},
	})
}

// productID extracts and validates the identifier path parameter.
func productID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "productID")

	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID format")
		return "", false
	}

	return id, true
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := s.store.Product(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"product": product,
	})
}

func (s *Server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var request struct {
		Quantity *int `json:"quantity" validate:"required,gte=0"`
	}

	if err := s.decode(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Quantity must be a non-negative integer")
		return
	}

	faults := s.activeFaults()

	var (
		product Product
		err     error
	)

	if faults.IgnoreQuantityUpdate {
		product, err = s.store.Product(id)
	} else {
		product, err = s.store.SetQuantity(id, *request.Quantity)
	}

	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	if faults.EmptyQuantityResponse {
		w.WriteHeader(http.StatusOK)
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"message": "Product quantity updated successfully",
		"product": response{
			"id":        product.ID,
			"name":      product.Name,
			"sku":       product.SKU,
			"quantity":  product.Quantity,
			"updatedAt": product.UpdatedAt,
		},
	})
}
