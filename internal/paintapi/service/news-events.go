package service

import (
	"context"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

type NewsEventRepository interface {
	InsertNewsEvent(ctx context.Context, event *data.NewsEvent) (int, error)
	GetNewsEvent(ctx context.Context, id int) (data.NewsEvent, error)
	GetNewsEvents(ctx context.Context, filter data.NewsEventFilter) ([]data.NewsEvent, error)
	CountNewsEvents(ctx context.Context, filter data.NewsEventFilter) (int, error)
	UpdateNewsEvent(ctx context.Context, id int, changes data.NewsEventChanges) error
	DeleteNewsEvent(ctx context.Context, id int) error
}

type NewsEvents struct {
	repository         NewsEventRepository
	transactionManager TransactionManager
}

func NewNewsEvents(repository NewsEventRepository, transactionManager TransactionManager) *NewsEvents {
	return &NewsEvents{
		repository:         repository,
		transactionManager: transactionManager,
	}
}

func (s *NewsEvents) Create(ctx context.Context, event data.NewsEvent) (data.NewsEvent, error) {
	var created data.NewsEvent
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repository.InsertNewsEvent(ctx, &event)
		if err != nil {
			return fmt.Errorf("error inserting news event: %w", err)
		}
		created, err = s.repository.GetNewsEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("error reading back news event: %w", err)
		}
		return nil
	})
	if err != nil {
		return data.NewsEvent{}, err
	}
	return created, nil
}

func (s *NewsEvents) Get(ctx context.Context, id int) (data.NewsEvent, error) {
	event, err := s.repository.GetNewsEvent(ctx, id)
	if err != nil {
		return data.NewsEvent{}, mapNotFound(err)
	}
	return event, nil
}

func (s *NewsEvents) List(ctx context.Context, filter data.NewsEventFilter) ([]data.NewsEvent, int, error) {
	items, err := s.repository.GetNewsEvents(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing news events: %w", err)
	}
	total, err := s.repository.CountNewsEvents(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting news events: %w", err)
	}
	return items, total, nil
}

func (s *NewsEvents) Update(ctx context.Context, id int, changes data.NewsEventChanges) (data.NewsEvent, error) {
	var updated data.NewsEvent
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repository.UpdateNewsEvent(ctx, id, changes); err != nil {
			return err
		}
		var err error
		updated, err = s.repository.GetNewsEvent(ctx, id)
		return err
	})
	if err != nil {
		return data.NewsEvent{}, mapNotFound(err)
	}
	return updated, nil
}

func (s *NewsEvents) Delete(ctx context.Context, id int) error {
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return s.repository.DeleteNewsEvent(ctx, id)
	})
	return mapNotFound(err)
}
