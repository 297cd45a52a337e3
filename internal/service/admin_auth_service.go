package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// AdminAuthService authenticates dashboard operators. A successful login
// yields an admin session token bound to the platform owner address, so
// admin calls act as the owner principal.
type AdminAuthService struct {
	store      repository.Store
	owner      string
	sessionTTL time.Duration
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(store repository.Store, ownerAddress string, sessionTTL time.Duration) *AdminAuthService {
	return &AdminAuthService{store: store, owner: ownerAddress, sessionTTL: sessionTTL}
}

// Login verifies operator credentials and issues an admin session token.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	log.Debug().Str("email", email).Msg("Admin login attempt")

	user, err := s.store.AdminUsers().GetByEmail(ctx, email)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Admin user lookup failed")
		return "", errors.New("invalid credentials")
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Admin account is inactive")
		return "", errors.New("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Admin password verification failed")
		return "", errors.New("invalid credentials")
	}

	log.Info().Str("email", email).Msg("Admin login successful")

	return utils.GenerateAdminJWT(s.owner, user.Email, s.sessionTTL)
}

// CreateAdmin registers a new dashboard operator.
func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password, name string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}

	return s.store.AdminUsers().Create(ctx, user)
}
