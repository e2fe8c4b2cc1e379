package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

type locationService struct {
	repo ports.LocationRepository
	log  zerolog.Logger
}

// NewLocationService returns the LocationService implementation.
func NewLocationService(repo ports.LocationRepository, log zerolog.Logger) ports.LocationService {
	return &locationService{repo: repo, log: log}
}

func (s *locationService) Create(ctx context.Context, in ports.CreateLocationInput) (*domain.Location, error) {
	if in.Name == "" || in.Code == "" || in.Level < 1 {
		return nil, domain.ErrInvalidHierarchy
	}

	// Top-level nodes have no parent; everything else must sit exactly one
	// level below its parent.
	if in.ParentID == "" {
		if in.Level != 1 {
			return nil, domain.ErrInvalidHierarchy
		}
	} else {
		parent, err := s.repo.FindByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		child := &domain.Location{Level: in.Level}
		if !parent.CanContain(child) {
			return nil, fmt.Errorf("%w: level %d under level %d", domain.ErrInvalidHierarchy, in.Level, parent.Level)
		}
	}

	now := time.Now().UTC()
	l := &domain.Location{
		Name:      in.Name,
		Code:      in.Code,
		Level:     in.Level,
		ParentID:  in.ParentID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Create(ctx, l)
}

func (s *locationService) Get(ctx context.Context, id string) (*domain.Location, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *locationService) List(ctx context.Context, parentID string, page, limit int) ([]*domain.Location, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repo.List(ctx, parentID, page, limit)
}

func (s *locationService) Update(ctx context.Context, id string, in ports.UpdateLocationInput) (*domain.Location, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		l.Name = *in.Name
	}
	if in.Active != nil {
		l.Active = *in.Active
	}
	l.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return l, nil
}
