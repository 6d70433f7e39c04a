package service

import (
	"context"
	"fmt"

	"paint-backend/internal/paintapi/data"
)

type ContactRepository interface {
	InsertContactSubmission(ctx context.Context, submission *data.ContactSubmission) (data.ContactSubmission, error)
	GetContactSubmissions(ctx context.Context, skip, limit int) ([]data.ContactSubmission, error)
	SetContactSubmissionRead(ctx context.Context, id int, read bool) error
	DeleteContactSubmission(ctx context.Context, id int) error
	GetContactInfo(ctx context.Context) (data.ContactInfo, error)
	UpsertContactInfo(ctx context.Context, info data.ContactInfo) error
}

type Contact struct {
	repository         ContactRepository
	transactionManager TransactionManager
}

func NewContact(repository ContactRepository, transactionManager TransactionManager) *Contact {
	return &Contact{
		repository:         repository,
		transactionManager: transactionManager,
	}
}

func (s *Contact) Submit(ctx context.Context, submission data.ContactSubmission) (data.ContactSubmission, error) {
	var created data.ContactSubmission
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repository.InsertContactSubmission(ctx, &submission)
		if err != nil {
			return fmt.Errorf("error inserting contact submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return data.ContactSubmission{}, err
	}
	return created, nil
}

func (s *Contact) ListSubmissions(ctx context.Context, skip, limit int) ([]data.ContactSubmission, error) {
	items, err := s.repository.GetContactSubmissions(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing contact submissions: %w", err)
	}
	return items, nil
}

func (s *Contact) MarkRead(ctx context.Context, id int, read bool) error {
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return s.repository.SetContactSubmissionRead(ctx, id, read)
	})
	return mapNotFound(err)
}

func (s *Contact) DeleteSubmission(ctx context.Context, id int) error {
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return s.repository.DeleteContactSubmission(ctx, id)
	})
	return mapNotFound(err)
}

func (s *Contact) Info(ctx context.Context) (data.ContactInfo, error) {
	info, err := s.repository.GetContactInfo(ctx)
	if err != nil {
		return data.ContactInfo{}, mapNotFound(err)
	}
	return info, nil
}

func (s *Contact) UpdateInfo(ctx context.Context, info data.ContactInfo) (data.ContactInfo, error) {
	var updated data.ContactInfo
	err := s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repository.UpsertContactInfo(ctx, info); err != nil {
			return fmt.Errorf("error updating contact info: %w", err)
		}
		var err error
		updated, err = s.repository.GetContactInfo(ctx)
		return err
	})
	if err != nil {
		return data.ContactInfo{}, err
	}
	return updated, nil
}
