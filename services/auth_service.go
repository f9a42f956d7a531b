package services

import (
	"context"
	"errors"
	"time"

	"camsapi/config"
	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/pkg/token"
	"camsapi/repository"
	"camsapi/services/dto"
	"camsapi/services/validation"
	"camsapi/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClientInfo carries request metadata into security log entries.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthService handles registration, login and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest, client ClientInfo) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest, client ClientInfo) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uint, client ClientInfo) error
}

type authService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	userRoleRepo repository.UserRoleRepository
	logSrv       LogService
	tokens       *token.Manager
}

// NewAuthService creates a new auth service instance.
func NewAuthService(tokens *token.Manager) AuthService {
	return &authService{
		userRepo:     repository.NewUserRepository(),
		roleRepo:     repository.NewRoleRepository(),
		userRoleRepo: repository.NewUserRoleRepository(),
		logSrv:       NewLogService(),
		tokens:       tokens,
	}
}

// NewAuthServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations.
func NewAuthServiceWithDeps(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	userRoleRepo repository.UserRoleRepository,
	logSrv LogService,
	tokens *token.Manager,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		logSrv:       logSrv,
		tokens:       tokens,
	}
}

// Register creates a new account with the default Viewer role.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, client ClientInfo) (*dto.UserResponse, error) {
	var errs []string
	errs = append(errs, validation.ValidateUsername(req.Username)...)
	errs = append(errs, validation.ValidatePassword(req.Password, config.Cfg.PasswordMinLength)...)
	if len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	count, err := s.userRepo.CountByUsernameOrEmail(nil, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessRuleError("username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), config.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Active:       true,
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		return nil, err
	}

	// New accounts start as viewers; admins grant further roles explicitly.
	if viewer, err := s.roleRepo.GetByName(nil, models.RoleViewer); err == nil {
		assignment := &models.UserRole{
			UserID:     user.ID,
			RoleID:     viewer.ID,
			AssignedBy: user.ID,
			Active:     true,
		}
		if err := s.userRoleRepo.Create(nil, assignment); err != nil {
			logger.Warnf("Failed to assign default role to user %d: %v", user.ID, err)
		}
	} else {
		logger.Warnf("Default role %s not found: %v", models.RoleViewer, err)
	}

	logger.Infof("Registered new user %s (id=%d)", user.Username, user.ID)
	resp := dto.FromUser(user)
	return &resp, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// Both success and failure are security-logged.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest, client ClientInfo) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(nil, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logSrv.RecordSecurity(models.SecurityEventLoginFailure, 0, req.Username,
				client.IP, client.UserAgent, "unknown username")
			return nil, utils.NewBusinessRuleError("invalid credentials")
		}
		return nil, err
	}

	if !user.Active {
		s.logSrv.RecordSecurity(models.SecurityEventLoginFailure, user.ID, user.Username,
			client.IP, client.UserAgent, "account disabled")
		return nil, utils.NewBusinessRuleError("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logSrv.RecordSecurity(models.SecurityEventLoginFailure, user.ID, user.Username,
			client.IP, client.UserAgent, "wrong password")
		return nil, utils.NewBusinessRuleError("invalid credentials")
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(nil, user.ID, now); err != nil {
		logger.Warnf("Failed to update last login for user %d: %v", user.ID, err)
	}

	s.logSrv.RecordSecurity(models.SecurityEventLoginSuccess, user.ID, user.Username,
		client.IP, client.UserAgent, "")
	logger.Infof("User %s logged in", user.Username)
	return resp, nil
}

// Refresh rotates the refresh token and issues a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByRefreshToken(nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewBusinessRuleError("invalid refresh token")
		}
		return nil, err
	}

	if user.RefreshTokenExpiry == nil || time.Now().After(*user.RefreshTokenExpiry) {
		return nil, utils.NewBusinessRuleError("refresh token expired")
	}
	if !user.Active {
		return nil, utils.NewBusinessRuleError("invalid refresh token")
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logSrv.RecordSecurity(models.SecurityEventTokenRefresh, user.ID, user.Username,
		client.IP, client.UserAgent, "")
	return resp, nil
}

// Logout invalidates the user's refresh token.
func (s *authService) Logout(ctx context.Context, userID uint, client ClientInfo) error {
	user, err := s.userRepo.GetByID(nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("user", userID)
		}
		return err
	}

	if err := s.userRepo.UpdateRefreshToken(nil, userID, "", nil); err != nil {
		return err
	}

	s.logSrv.RecordSecurity(models.SecurityEventLogout, user.ID, user.Username,
		client.IP, client.UserAgent, "")
	return nil
}

// issueTokens signs a new access token and rotates the stored refresh token.
// Role names are baked into the access token for display only; authorization
// always re-queries the database.
func (s *authService) issueTokens(user *models.User) (*dto.TokenResponse, error) {
	roles, err := s.userRoleRepo.GetActiveRoleNames(nil, user.ID)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccessToken(user.ID, user.Username, roles)
	if err != nil {
		return nil, err
	}

	refresh := token.NewRefreshToken()
	expiry := time.Now().Add(config.Cfg.RefreshTokenTTL)
	if err := s.userRepo.UpdateRefreshToken(nil, user.ID, refresh, &expiry); err != nil {
		return nil, err
	}

	userResp := dto.FromUser(user)
	userResp.Roles = roles
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(config.Cfg.AccessTokenTTL.Seconds()),
		User:         userResp,
	}, nil
}
