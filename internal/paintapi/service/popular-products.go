package service

import (
	"context"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

type PopularProductRepository interface {
	InsertPopularProduct(ctx context.Context, product *data.PopularProduct) (int, error)
	GetPopularProduct(ctx context.Context, id int) (data.PopularProduct, error)
	GetPopularProducts(ctx context.Context, skip, limit int) ([]data.PopularProduct, error)
	UpdatePopularProduct(ctx context.Context, id int, changes data.PopularProductChanges) error
	DeletePopularProduct(ctx context.Context, id int) error
}

type PopularProducts struct {
	repository         PopularProductRepository
	transactionManager TransactionManager
}

func NewPopularProducts(repository PopularProductRepository, transactionManager TransactionManager) *PopularProducts {
	return &PopularProducts{
		repository:         repository,
		transactionManager: transactionManager,
	}
}

func (s *PopularProducts) Create(ctx context.Context, product data.PopularProduct) (data.PopularProduct, error) {
	var created data.PopularProduct
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repository.InsertPopularProduct(ctx, &product)
		if err != nil {
			return fmt.Errorf("error inserting popular product: %w", err)
		}
		created, err = s.repository.GetPopularProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("error reading back popular product: %w", err)
		}
		return nil
	})
	if err != nil {
		return data.PopularProduct{}, err
	}
	return created, nil
}

func (s *PopularProducts) Get(ctx context.Context, id int) (data.PopularProduct, error) {
	product, err := s.repository.GetPopularProduct(ctx, id)
	if err != nil {
		return data.PopularProduct{}, mapNotFound(err)
	}
	return product, nil
}

func (s *PopularProducts) List(ctx context.Context, skip, limit int) ([]data.PopularProduct, error) {
	items, err := s.repository.GetPopularProducts(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing popular products: %w", err)
	}
	return items, nil
}

func (s *PopularProducts) Update(ctx context.Context, id int, changes data.PopularProductChanges) (data.PopularProduct, error) {
	var updated data.PopularProduct
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repository.UpdatePopularProduct(ctx, id, changes); err != nil {
			return err
		}
		var err error
		updated, err = s.repository.GetPopularProduct(ctx, id)
		return err
	})
	if err != nil {
		return data.PopularProduct{}, mapNotFound(err)
	}
	return updated, nil
}

func (s *PopularProducts) Delete(ctx context.Context, id int) error {
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return s.repository.DeletePopularProduct(ctx, id)
	})
	return mapNotFound(err)
}
