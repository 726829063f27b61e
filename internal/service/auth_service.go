package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Logger       *zap.Logger
}

// RegisterInput carries a new account.
type RegisterInput struct {
	EmployeeID  int64
	FullName    string
	Phone       string
	Email       string
	Department  string
	Designation string
	Password    string
	Role        domain.Role
}

// LoginResult is a successful login.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     nopIfNil(deps.Logger),
	}
}

// Register creates an account. Email is checked before employee id.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewInvalidInput("invalid role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered.", nil)
	} else if !apperrors.IsNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	if _, err := s.users.GetByEmployeeID(ctx, input.EmployeeID); err == nil {
		return nil, apperrors.NewConflict("Employee ID already registered.", nil)
	} else if !apperrors.IsNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewInvalidInput("password exceeds 72 bytes", nil)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	user := &domain.User{
		EmployeeID:   input.EmployeeID,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        email,
		Department:   strings.TrimSpace(input.Department),
		Designation:  strings.TrimSpace(input.Designation),
		PasswordHash: hash,
		Role:         input.Role,
		Availability: domain.AvailabilityAvailable,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("user registered", zap.Int64("employee_id", user.EmployeeID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login authenticates by email or, for a numeric identifier, employee id.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.findByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if !auth.IsMismatch(err) {
			s.logger.Warn("stored password hash unreadable", zap.Int64("employee_id", user.EmployeeID), zap.Error(err))
		}
		s.logger.Info("login rejected", zap.Int64("employee_id", user.EmployeeID))
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(domain.Principal{
		ID:         user.ID,
		Email:      user.Email,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
	})
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	if employeeID, convErr := strconv.ParseInt(identifier, 10, 64); convErr == nil {
		user, err = s.users.GetByEmployeeID(ctx, employeeID)
		if err == nil {
			return user, nil
		}
		if !apperrors.IsNoRows(err) {
			return nil, apperrors.MapError(err)
		}
	}
	return nil, apperrors.NewNotFoundMessage("User not found", nil)
}
