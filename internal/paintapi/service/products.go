package service

import (
	"context"
	"errors"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

type ProductRepository interface {
	InsertProduct(ctx context.Context, product *data.Product) (int, error)
	GetProduct(ctx context.Context, id int) (data.Product, error)
	GetProducts(ctx context.Context, filter data.ProductFilter) ([]data.Product, error)
	CountProducts(ctx context.Context, filter data.ProductFilter) (int, error)
	UpdateProduct(ctx context.Context, id int, changes data.ProductChanges) error
	DeleteProduct(ctx context.Context, id int) error
}

type Products struct {
	repository         ProductRepository
	transactionManager TransactionManager
}

func NewProducts(repository ProductRepository, transactionManager TransactionManager) *Products {
	return &Products{
		repository:         repository,
		transactionManager: transactionManager,
	}
}

func (s *Products) Create(ctx context.Context, product data.Product) (data.Product, error) {
	var created data.Product
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repository.InsertProduct(ctx, &product)
		if err != nil {
			return fmt.Errorf("error inserting product: %w", err)
		}
		created, err = s.repository.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("error reading back product: %w", err)
		}
		return nil
	})
	if err != nil {
		return data.Product{}, err
	}
	return created, nil
}

func (s *Products) Get(ctx context.Context, id int) (data.Product, error) {
	product, err := s.repository.GetProduct(ctx, id)
	if err != nil {
		return data.Product{}, mapNotFound(err)
	}
	return product, nil
}

func (s *Products) List(ctx context.Context, filter data.ProductFilter) ([]data.Product, int, error) {
	items, err := s.repository.GetProducts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing products: %w", err)
	}
	total, err := s.repository.CountProducts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting products: %w", err)
	}
	return items, total, nil
}

func (s *Products) Update(ctx context.Context, id int, changes data.ProductChanges) (data.Product, error) {
	var updated data.Product
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repository.UpdateProduct(ctx, id, changes); err != nil {
			return err
		}
		var err error
		updated, err = s.repository.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		return data.Product{}, mapNotFound(err)
	}
	return updated, nil
}

func (s *Products) Delete(ctx context.Context, id int) error {
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return s.repository.DeleteProduct(ctx, id)
	})
	return mapNotFound(err)
}

func mapNotFound(err error) error {
	if errors.Is(err, data.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
