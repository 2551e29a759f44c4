// Package service implements the CRM operations on top of the storage
// interfaces.
package service

import (
	"time"

	"github.com/copperline/copperline/internal/crm/storage"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Stores carries the persistence dependencies of the service.
type Stores struct {
	Customers storage.CustomerStore
	Products  storage.ProductStore
	Orders    storage.OrderStore
}

// Service exposes the CRM queries and mutations.
type Service struct {
	stores Stores
	clock  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New creates a Service backed by the given stores.
func New(stores Stores, opts ...Option) *Service {
	s := &Service{
		stores: stores,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
