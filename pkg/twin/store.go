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
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrConflict is returned when a username is already taken.
	ErrConflict = errors.New("resource already exists")

	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// User is a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Product is a catalogue entry.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	SKU         string    `json:"sku"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store keeps users and products in memory.  Products are kept in
// insertion order.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*User
	products []*Product
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users: map[string]*User{},
	}
}

// CreateUser adds a user, failing with ErrConflict if the name is taken.
func (s *Store) CreateUser(username string, passwordHash []byte) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return User{}, ErrConflict
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	s.users[username] = user

	return *user, nil
}

// User looks a user up by name.
func (s *Store) User(username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return User{}, ErrNotFound
	}

	return *user, nil
}

// UserByID looks a user up by identifier.
func (s *Store) UserByID(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			return *user, nil
		}
	}

	return User{}, ErrNotFound
}

// CreateProduct assigns an identifier and timestamps and stores the product.
func (s *Store) CreateProduct(product Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	s.products = append(s.products, &product)

	return product
}

func (s *Store) find(id string) *Product {
	index := slices.IndexFunc(s.products, func(p *Product) bool {
		return p.ID == id
	})

	if index < 0 {
		return nil
	}

	return s.products[index]
}

// Product returns a single product.
func (s *Store) Product(id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product := s.find(id)
	if product == nil {
		return Product{}, ErrNotFound
	}

	return *product, nil
}

// SetQuantity updates the stock level of a product.
func (s *Store) SetQuantity(id string, quantity int) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.find(id)
	if product == nil {
		return Product{}, ErrNotFound
	}

	product.Quantity = quantity
	product.UpdatedAt = time.Now()

	return *product, nil
}

// ListProducts returns one page of products, newest first, and the total count.
// Pages are numbered from 1.
func (s *Store) ListProducts(page, limit int) ([]Product, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.products)

	start := (page - 1) * limit
	if start >= total {
		return []Product{}, total
	}

	end := min(start+limit, total)

	result := make([]Product, 0, end-start)

	for i := total - 1 - start; i > total-1-end; i-- {
		result = append(result, *s.products[i])
	}

	return result, total
}
