package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"coldstore/config"
	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/repository"
	"coldstore/internal/domain/service"
	"coldstore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Config            *config.Config
	Logger            *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// Register creates a new account with an email/password credential. The user
// row and its credential share one transaction, so a duplicate email can never
// leave a half-created account behind.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	userType := entity.Role(input.UserType)
	if userType != entity.RoleFarmer && userType != entity.RoleColdRoomOwner {
		return nil, domainerrors.ErrValidationFailed.WithDetails("user_type must be farmer or cold_room_owner")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	srv.logger.Info("Starting registration", slog.String("email", email), slog.Any("userType", userType))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	now := time.Now()
	newUser := &entity.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      input.Name,
		Phone:     input.Phone,
		UserType:  userType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()

		_, findErr := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(findErr, repository.ErrAuthNotFound) {
			return errors.Wrap(findErr, "failed to find authentication")
		}

		if createErr := repoFactory.UserRepo().Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			ID:             uuid.New(),
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashedPassword,
			CreatedAt:      now,
		}
		if createErr := authRepo.CreateAuthentication(ctx, newAuth); createErr != nil {
			return errors.Wrap(createErr, "failed to create authentication during registration")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.logger.Warn("Registration rejected, email already registered", slog.String("email", email))

			return nil, domainerrors.ErrUserAlreadyExists
		}
		srv.logger.Error("Failed to execute registration transaction", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	return srv.openSession(ctx, newUser)
}

// Login authenticates an email/password credential and opens a session.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	srv.logger.Debug("Starting login", slog.String("email", email))

	authRecord, err := srv.loadLoginAuth(ctx, email)
	if err != nil {
		srv.logger.Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	// Check password outside the transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.logger.Warn("Login failed", slog.String("email", email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user for login")
	}

	return srv.openSession(ctx, user)
}

// GoogleLogin verifies a Google ID token and opens a session, creating the
// account on first login. First-time Google accounts default to the farmer
// role; owners switch via their profile.
func (srv *userService) GoogleLogin(ctx context.Context, input *usecase.GoogleLoginInput) (*usecase.AuthOutput, error) {
	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.logger.Warn("Google login failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthTokenInvalid.WrapMessage(err.Error())
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var txErr error
		user, txErr = srv.findOrCreateGoogleUser(ctx, repoFactory, oauthUser)

		return txErr
	})
	if err != nil {
		srv.logger.Error("Failed to execute Google login transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute Google login transaction")
	}

	return srv.openSession(ctx, user)
}

// RefreshToken rotates the session: the presented refresh token is revoked and
// a fresh pair is issued, so a replayed token dies on second use.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		session, findErr := refreshRepo.FindByTokenHash(ctx, tokenHash)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return errors.Wrap(findErr, "failed to find refresh token")
		}
		if time.Now().After(session.ExpiresAt) {
			return domainerrors.ErrRefreshTokenInvalid
		}

		var userErr error
		user, userErr = repoFactory.UserRepo().FindByID(ctx, claims.UserID)
		if userErr != nil {
			return errors.Wrap(userErr, "failed to find user for refresh")
		}

		return errors.Wrap(refreshRepo.DeleteByTokenHash(ctx, tokenHash), "failed to revoke rotated refresh token")
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRefreshTokenInvalid) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}
		srv.logger.Error("Failed to execute refresh token transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	return srv.openSession(ctx, user)
}

// Logout revokes the session identified by the refresh token. Revoking an
// unknown or already revoked token succeeds, so logout stays idempotent.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	if err := srv.refreshTokenRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}
		srv.logger.Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}

	return nil
}

// GetProfile retrieves the account behind an authenticated request.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return user, nil
}

// loadLoginAuth loads the email credential from the primary in a short
// transaction to avoid stale reads on replicas.
func (srv *userService) loadLoginAuth(ctx context.Context, email string) (*entity.Authentication, error) {
	var authRecord *entity.Authentication

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		authRecord, findErr = repoFactory.AuthRepo().FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAuthNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(findErr, "failed to find authentication")
		}

		return nil
	}); err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to execute login auth transaction")
	}

	return authRecord, nil
}

// findOrCreateGoogleUser resolves the Google identity to a local account.
func (srv *userService) findOrCreateGoogleUser(ctx context.Context, repoFactory repository.RepositoryFactory, oauthUser *service.OAuthUser) (*entity.User, error) {
	authRepo := repoFactory.AuthRepo()
	userRepo := repoFactory.UserRepo()

	authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeGoogle, oauthUser.ID)
	if err == nil {
		user, findErr := userRepo.FindByID(ctx, authRecord.UserID)
		if findErr != nil {
			return nil, errors.Wrap(findErr, "failed to find user for Google credential")
		}

		return user, nil
	}
	if !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to find Google authentication")
	}

	srv.logger.Info("Google user not found, creating new account", slog.String("email", oauthUser.Email))

	now := time.Now()
	newUser := &entity.User{
		ID:        uuid.New(),
		Email:     strings.ToLower(oauthUser.Email),
		Name:      oauthUser.Name,
		UserType:  entity.RoleFarmer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.Wrap(err, "failed to create user for Google login")
	}

	newAuth := &entity.Authentication{
		ID:             uuid.New(),
		UserID:         newUser.ID,
		Provider:       entity.ProviderTypeGoogle,
		ProviderUserID: oauthUser.ID,
		CreatedAt:      now,
	}
	if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
		return nil, errors.Wrap(err, "failed to create Google authentication")
	}

	return newUser, nil
}

// openSession generates a token pair for the user and persists the refresh
// session, evicting the oldest session when the configured limit is hit.
func (srv *userService) openSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		if srv.maxActiveSessions > 0 {
			activeSessions, countErr := refreshRepo.CountByUserID(ctx, user.ID)
			if countErr != nil {
				return errors.Wrap(countErr, "failed to count active sessions")
			}
			for activeSessions >= int64(srv.maxActiveSessions) {
				if evictErr := refreshRepo.DeleteOldestByUserID(ctx, user.ID); evictErr != nil {
					return errors.Wrap(evictErr, "failed to evict oldest session")
				}
				activeSessions--
			}
		}

		newRefreshToken := &entity.RefreshToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			TokenHash: srv.tokenService.HashToken(refreshTokenString),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
			CreatedAt: time.Now(),
		}

		return errors.Wrap(refreshRepo.Create(ctx, newRefreshToken), "failed to store refresh token")
	})
	if err != nil {
		srv.logger.Error("Failed to persist session", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist session")
	}

	return &usecase.AuthOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
	}, nil
}
