package service

import (
	"context"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

type NewArrivalRepository interface {
	InsertNewArrival(ctx context.Context, arrival *data.NewArrival) (int, error)
	GetNewArrival(ctx context.Context, id int) (data.NewArrival, error)
	GetNewArrivals(ctx context.Context, skip, limit int) ([]data.NewArrival, error)
	UpdateNewArrival(ctx context.Context, id int, changes data.NewArrivalChanges) error
	DeleteNewArrival(ctx context.Context, id int) error
}

type NewArrivals struct {
	repository         NewArrivalRepository
	transactionManager TransactionManager
}

func NewNewArrivals(repository NewArrivalRepository, transactionManager TransactionManager) *NewArrivals {
	return &NewArrivals{
		repository:         repository,
		transactionManager: transactionManager,
	}
}

func (s *NewArrivals) Create(ctx context.Context, arrival data.NewArrival) (data.NewArrival, error) {
	var created data.NewArrival
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repository.InsertNewArrival(ctx, &arrival)
		if err != nil {
			return fmt.Errorf("error inserting new arrival: %w", err)
		}
		created, err = s.repository.GetNewArrival(ctx, id)
		if err != nil {
			return fmt.Errorf("error reading back new arrival: %w", err)
		}
		return nil
	})
	if err != nil {
		return data.NewArrival{}, err
	}
	return created, nil
}

func (s *NewArrivals) Get(ctx context.Context, id int) (data.NewArrival, error) {
	arrival, err := s.repository.GetNewArrival(ctx, id)
	if err != nil {
		return data.NewArrival{}, mapNotFound(err)
	}
	return arrival, nil
}

func (s *NewArrivals) List(ctx context.Context, skip, limit int) ([]data.NewArrival, error) {
	items, err := s.repository.GetNewArrivals(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing new arrivals: %w", err)
	}
	return items, nil
}

func (s *NewArrivals) Update(ctx context.Context, id int, changes data.NewArrivalChanges) (data.NewArrival, error) {
	var updated data.NewArrival
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repository.UpdateNewArrival(ctx, id, changes); err != nil {
			return err
		}
		var err error
		updated, err = s.repository.GetNewArrival(ctx, id)
		return err
	})
	if err != nil {
		return data.NewArrival{}, mapNotFound(err)
	}
	return updated, nil
}

func (s *NewArrivals) Delete(ctx context.Context, id int) error {
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return s.repository.DeleteNewArrival(ctx, id)
	})
	return mapNotFound(err)
}
