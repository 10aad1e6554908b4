package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smoketrack/internal/models"
	"smoketrack/internal/repositories/interfaces"
	"smoketrack/internal/utils"
	"smoketrack/internal/validators"
	"smoketrack/pkg/logger"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
)

type AuthService interface {
	Register(ctx context.Context, req *validators.RegisterRequest) (*models.User, *utils.TokenPair, error)
	Login(ctx context.Context, req *validators.LoginRequest) (*models.User, *utils.TokenPair, error)
}

type authService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	clock     Clock
	log       *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, clock Clock, log *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		clock:     clock,
		log:       log,
	}
}

func (s *authService) Register(ctx context.Context, req *validators.RegisterRequest) (*models.User, *utils.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	schedule := models.TestingScheduleSemiAnnual
	if req.TestingSchedule != "" {
		schedule = models.TestingSchedule(req.TestingSchedule)
	}

	now := s.clock.Now()
	user := &models.User{
		Email:               email,
		Password:            hashed,
		CompanyName:         req.CompanyName,
		Phone:               req.Phone,
		TestingSchedule:     schedule,
		DefaultReminderDays: req.DefaultReminderDays,
		Status:              models.UserStatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.log.WithUserID(user.ID).Info("User registered")

	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, req *validators.LoginRequest) (*models.User, *utils.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, nil, ErrAccountInactive
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := s.clock.Now()
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.log.WithError(err).WithUserID(user.ID).Warn("Failed to record last login time")
	}
	user.LastLoginAt = &now

	return user, tokens, nil
}
