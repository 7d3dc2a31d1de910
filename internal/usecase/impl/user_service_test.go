package impl

import (
	"context"
	"testing"

	"coldstore/internal/domain/entity"
	domainerrors "coldstore/internal/domain/errors"
	"coldstore/internal/domain/service"
	"coldstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	service      usecase.UserUsecase
	factory      *fakeRepoFactory
	tokenService *stubTokenService
	oauth        *stubOAuthService
}

func newUserServiceFixture() *userServiceFixture {
	factory := newFakeRepoFactory()
	tokenService := newStubTokenService()
	oauth := &stubOAuthService{}

	return &userServiceFixture{
		service: NewUserService(UserServiceParams{
			TxManager:         &fakeTxManager{factory: factory},
			UserRepo:          factory.userRepo,
			RefreshTokenRepo:  factory.refreshTokenRepo,
			Hasher:            stubHasher{},
			TokenService:      tokenService,
			GoogleAuthService: oauth,
			Config:            newTestConfig(),
			Logger:            newDiscardLogger(),
		}),
		factory:      factory,
		tokenService: tokenService,
		oauth:        oauth,
	}
}

func registerInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Name:     "Amina",
		Email:    "amina@example.com",
		Password: "correct horse battery",
		UserType: "farmer",
	}
}

func TestUserService_Register_CreatesAccountAndSession(t *testing.T) {
	fixture := newUserServiceFixture()

	output, err := fixture.service.Register(context.Background(), registerInput())

	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", output.User.Email)
	assert.Equal(t, entity.RoleFarmer, output.User.UserType)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)

	auth, err := fixture.factory.authRepo.FindAuthentication(context.Background(), entity.ProviderTypeEmail, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, auth.UserID)
	assert.Equal(t, "hashed:correct horse battery", auth.PasswordHash)

	sessions, err := fixture.factory.refreshTokenRepo.CountByUserID(context.Background(), output.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sessions)
}

func TestUserService_Register_NormalizesEmail(t *testing.T) {
	fixture := newUserServiceFixture()
	input := registerInput()
	input.Email = "  Amina@Example.COM "

	output, err := fixture.service.Register(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", output.User.Email)
}

func TestUserService_Register_RejectsDuplicateEmail(t *testing.T) {
	fixture := newUserServiceFixture()
	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = fixture.service.Register(context.Background(), registerInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_RejectsAdminUserType(t *testing.T) {
	fixture := newUserServiceFixture()
	input := registerInput()
	input.UserType = "admin"

	_, err := fixture.service.Register(context.Background(), input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Login_Succeeds(t *testing.T) {
	fixture := newUserServiceFixture()
	registered, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	output, err := fixture.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "amina@example.com",
		Password: "correct horse battery",
	})

	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, output.User.ID)
	assert.NotEmpty(t, output.AccessToken)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fixture := newUserServiceFixture()
	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "amina@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fixture := newUserServiceFixture()

	_, err := fixture.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_EvictsOldestSessionAtLimit(t *testing.T) {
	fixture := newUserServiceFixture()
	registered, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	login := &usecase.LoginInput{Email: "amina@example.com", Password: "correct horse battery"}

	// The test config allows two active sessions; registration opened one.
	_, err = fixture.service.Login(context.Background(), login)
	require.NoError(t, err)
	_, err = fixture.service.Login(context.Background(), login)
	require.NoError(t, err)

	sessions, err := fixture.factory.refreshTokenRepo.CountByUserID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, sessions)

	// The first session's refresh token was evicted and no longer refreshes.
	_, err = fixture.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_GoogleLogin_CreatesAccountOnFirstLogin(t *testing.T) {
	fixture := newUserServiceFixture()
	fixture.oauth.user = &service.OAuthUser{
		ID:       "google-sub-123",
		Email:    "Farouk@Example.com",
		Name:     "Farouk",
		Provider: "google",
	}

	first, err := fixture.service.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, "farouk@example.com", first.User.Email)
	assert.Equal(t, entity.RoleFarmer, first.User.UserType)

	second, err := fixture.service.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestUserService_GoogleLogin_InvalidToken(t *testing.T) {
	fixture := newUserServiceFixture()
	fixture.oauth.err = domainerrors.ErrOAuthTokenInvalid

	_, err := fixture.service.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "garbage"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrOAuthTokenInvalid)
}

func TestUserService_RefreshToken_RotatesSession(t *testing.T) {
	fixture := newUserServiceFixture()
	registered, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	refreshed, err := fixture.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: registered.RefreshToken,
	})

	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The presented token died with the rotation.
	_, err = fixture.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// The fresh token works.
	_, err = fixture.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: refreshed.RefreshToken,
	})
	require.NoError(t, err)
}

func TestUserService_RefreshToken_RejectsAccessToken(t *testing.T) {
	fixture := newUserServiceFixture()
	registered, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = fixture.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: registered.AccessToken,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_Logout_IsIdempotent(t *testing.T) {
	fixture := newUserServiceFixture()
	registered, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), &usecase.LogoutInput{
		RefreshToken: registered.RefreshToken,
	}))

	// A second logout with the same token still succeeds.
	require.NoError(t, fixture.service.Logout(context.Background(), &usecase.LogoutInput{
		RefreshToken: registered.RefreshToken,
	}))

	sessions, err := fixture.factory.refreshTokenRepo.CountByUserID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Zero(t, sessions)
}

func TestUserService_GetProfile(t *testing.T) {
	fixture := newUserServiceFixture()
	registered, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user, err := fixture.service.GetProfile(context.Background(), registered.User.ID)

	require.NoError(t, err)
	assert.Equal(t, registered.User.Email, user.Email)
}
