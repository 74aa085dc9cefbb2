// Package application exposes the inventory operations the transport layer
// calls: CRUD, equality filters and the guarded restock delta.
package application

import (
	"context"
	"errors"

	"github.com/stockkeeper/inventory/internal/inventory/domain"
)

// ErrNotFound signals an id with no stored record. Callers treat it as a
// normal case, not a fault.
var ErrNotFound = errors.New("inventory item not found")

// ErrNegativeQuantity signals a restock delta that would drive the stored
// quantity below zero. The stored record is left unchanged.
var ErrNegativeQuantity = errors.New("resulting quantity would be negative")

type Service struct {
	repo ItemRepository
}

func NewService(repo ItemRepository) *Service {
	return &Service{repo: repo}
}

// Create validates the payload and inserts a new record. The returned item
// carries the id assigned by the storage layer.
func (s *Service) Create(ctx context.Context, payload map[string]any) (domain.Item, error) {
	item, err := domain.FromPayload(payload)
	if err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Item, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces the record stored under id with the payload's content.
// A missing id wins over an invalid payload, matching the read-then-validate
// order of the single-resource endpoints.
func (s *Service) Update(ctx context.Context, id int64, payload map[string]any) (domain.Item, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return domain.Item{}, err
	}
	item, err := domain.FromPayload(payload)
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = id
	if err := s.repo.Update(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]domain.Item, error) {
	return s.repo.List(ctx, filter)
}

// Restock adjusts the stored quantity by delta, which may be negative. The
// repository applies the adjustment atomically and reports ErrNotFound or
// ErrNegativeQuantity.
func (s *Service) Restock(ctx context.Context, id int64, delta int) (domain.Item, error) {
	return s.repo.Restock(ctx, id, delta)
}
