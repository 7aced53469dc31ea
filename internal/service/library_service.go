package service

import (
	"context"

	"Mansoor88-6/vr-event-console/internal/client"
	"Mansoor88-6/vr-event-console/internal/models"
)

// LibraryBackend lists the auxiliary catalog records
type LibraryBackend interface {
	ListCategories(ctx context.Context, page, size int) (*models.ListResponse[models.Category], error)
	ListTours(ctx context.Context, page, size int) (*models.ListResponse[models.Tour], error)
}

// LibraryService exposes categories and tours read-only, one backend page at a time
type LibraryService struct {
	backend LibraryBackend
}

func NewLibraryService(backend LibraryBackend) *LibraryService {
	return &LibraryService{backend: backend}
}

func (s *LibraryService) Categories(ctx context.Context, page, size int) (*models.ListResponse[models.Category], error) {
	if size < 1 {
		size = 10
	}
	return s.backend.ListCategories(ctx, page, size)
}

func (s *LibraryService) Tours(ctx context.Context, page, size int) (*models.ListResponse[models.Tour], error) {
	if size < 1 {
		size = client.DefaultTourPageSize
	}
	return s.backend.ListTours(ctx, page, size)
}
