package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

const generatedPasswordLength = 15

const maxPageSize = 100

type userService struct {
	repo ports.PrincipalRepository
	log  zerolog.Logger
}

// NewUserService returns the UserService implementation.
func NewUserService(repo ports.PrincipalRepository, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) Create(ctx context.Context, in ports.CreatePrincipalInput) (*domain.Principal, string, error) {
	if in.Username == "" || in.Role == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	generated := ""
	secret := in.Secret
	if secret == "" {
		pw, err := randomString(generatedPasswordLength)
		if err != nil {
			return nil, "", fmt.Errorf("create principal: generate password: %w", err)
		}
		secret = pw
		generated = pw
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("create principal: hash secret: %w", err)
	}

	now := time.Now().UTC()
	p := &domain.Principal{
		Username:   in.Username,
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		SecretHash: string(hash),
		Role:       domain.Role{Name: in.Role, Active: true, SystemAdmin: in.Role == domain.RoleSystemAdmin},
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("username", created.Username).Str("role", created.Role.Name).Msg("principal created")
	return created, generated, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.Principal, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, filter ports.ListPrincipalsFilter) ([]*domain.Principal, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	return s.repo.List(ctx, filter)
}

func (s *userService) Update(ctx context.Context, id string, in ports.UpdatePrincipalInput) (*domain.Principal, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		p.LastName = *in.LastName
	}
	if in.Role != nil {
		p.Role = domain.Role{Name: *in.Role, Active: true, SystemAdmin: *in.Role == domain.RoleSystemAdmin}
	}
	if in.Active != nil {
		p.Active = *in.Active
		// Re-activation is the administrative unlock: the counter and the
		// lockout note go with it.
		if p.Active {
			p.FailureCount = 0
			p.StatusNote = ""
		}
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update principal: %w", err)
	}
	return p, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p.Deleted = true
	p.Active = false
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}

	s.log.Info().Str("username", p.Username).Msg("principal soft-deleted")
	return nil
}

const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// randomString draws n characters from a crypto-grade source.
func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf), nil
}
