package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

type stubLocationRepo struct {
	locations map[string]*domain.Location
	nextID    int
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locations: make(map[string]*domain.Location)}
}

func (r *stubLocationRepo) FindByID(_ context.Context, id string) (*domain.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLocationRepo) Create(_ context.Context, l *domain.Location) (*domain.Location, error) {
	r.nextID++
	clone := *l
	clone.ID = "loc-" + strconv.Itoa(r.nextID)
	r.locations[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubLocationRepo) Save(_ context.Context, l *domain.Location) error {
	if _, ok := r.locations[l.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	clone := *l
	r.locations[l.ID] = &clone
	return nil
}

func (r *stubLocationRepo) List(_ context.Context, parentID string, _, _ int) ([]*domain.Location, int64, error) {
	var out []*domain.Location
	for _, l := range r.locations {
		if parentID == "" || l.ParentID == parentID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func TestLocationService_Create_TopLevel(t *testing.T) {
	svc := NewLocationService(newStubLocationRepo(), zerolog.Nop())

	l, err := svc.Create(context.Background(), ports.CreateLocationInput{Name: "Central", Code: "CEN", Level: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !l.Active {
		t.Fatalf("expected new location active")
	}
}

func TestLocationService_Create_TopLevelMustBeLevelOne(t *testing.T) {
	svc := NewLocationService(newStubLocationRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateLocationInput{Name: "Central", Code: "CEN", Level: 2})
	if !errors.Is(err, domain.ErrInvalidHierarchy) {
		t.Fatalf("expected ErrInvalidHierarchy, got %v", err)
	}
}

func TestLocationService_Create_ChildLevelCheck(t *testing.T) {
	repo := newStubLocationRepo()
	svc := NewLocationService(repo, zerolog.Nop())

	parent, err := svc.Create(context.Background(), ports.CreateLocationInput{Name: "Central", Code: "CEN", Level: 1})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	if _, err := svc.Create(context.Background(), ports.CreateLocationInput{
		Name: "District A", Code: "DA", Level: 2, ParentID: parent.ID,
	}); err != nil {
		t.Fatalf("valid child rejected: %v", err)
	}

	_, err = svc.Create(context.Background(), ports.CreateLocationInput{
		Name: "Village X", Code: "VX", Level: 3, ParentID: parent.ID,
	})
	if !errors.Is(err, domain.ErrInvalidHierarchy) {
		t.Fatalf("expected ErrInvalidHierarchy for level skip, got %v", err)
	}
}

func TestLocationService_Update(t *testing.T) {
	repo := newStubLocationRepo()
	svc := NewLocationService(repo, zerolog.Nop())

	l, err := svc.Create(context.Background(), ports.CreateLocationInput{Name: "Central", Code: "CEN", Level: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := false
	name := "Central Region"
	updated, err := svc.Update(context.Background(), l.ID, ports.UpdateLocationInput{Name: &name, Active: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Central Region" || updated.Active {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}
