package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"coldstore/config"
	"coldstore/internal/domain/entity"
	"coldstore/internal/domain/repository"
	"coldstore/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			MaxActiveSessions: 2,
		},
		Search: &config.SearchConfig{
			DefaultRadiusKm:           5,
			MaxRadiusKm:               100,
			PageSize:                  10,
			PreFilterRadiusMultiplier: 1.3,
		},
	}
}

// fakeColdRoomRepo is an in-memory ColdRoomRepository.
type fakeColdRoomRepo struct {
	rooms  map[uuid.UUID]*entity.ColdRoom
	images map[uuid.UUID][]*entity.ColdRoomImage
}

func newFakeColdRoomRepo() *fakeColdRoomRepo {
	return &fakeColdRoomRepo{
		rooms:  make(map[uuid.UUID]*entity.ColdRoom),
		images: make(map[uuid.UUID][]*entity.ColdRoomImage),
	}
}

func (f *fakeColdRoomRepo) Create(_ context.Context, room *entity.ColdRoom) error {
	f.rooms[room.ID] = room

	return nil
}

func (f *fakeColdRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ColdRoom, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrColdRoomNotFound
	}

	return room, nil
}

func (f *fakeColdRoomRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.ColdRoom, error) {
	var result []*entity.ColdRoom
	for _, room := range f.rooms {
		if room.OwnerID == ownerID {
			result = append(result, room)
		}
	}

	return result, nil
}

func (f *fakeColdRoomRepo) Update(_ context.Context, room *entity.ColdRoom) error {
	if _, ok := f.rooms[room.ID]; !ok {
		return repository.ErrColdRoomNotFound
	}
	f.rooms[room.ID] = room

	return nil
}

func (f *fakeColdRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rooms[id]; !ok {
		return repository.ErrColdRoomNotFound
	}
	delete(f.rooms, id)
	delete(f.images, id)

	return nil
}

func (f *fakeColdRoomRepo) verified() []*entity.ColdRoom {
	var result []*entity.ColdRoom
	for _, room := range f.rooms {
		if room.IsVerified() {
			result = append(result, room)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

func (f *fakeColdRoomRepo) FindVerified(_ context.Context, limit, offset int) ([]*entity.ColdRoom, error) {
	rooms := f.verified()
	if offset >= len(rooms) {
		return nil, nil
	}
	end := min(offset+limit, len(rooms))

	return rooms[offset:end], nil
}

func (f *fakeColdRoomRepo) CountVerified(_ context.Context) (int64, error) {
	return int64(len(f.verified())), nil
}

func (f *fakeColdRoomRepo) FindVerifiedWithinBounds(_ context.Context, bounds repository.BoundingBox) ([]*entity.ColdRoom, error) {
	var result []*entity.ColdRoom
	for _, room := range f.verified() {
		if room.Latitude >= bounds.MinLat && room.Latitude <= bounds.MaxLat &&
			room.Longitude >= bounds.MinLon && room.Longitude <= bounds.MaxLon {
			result = append(result, room)
		}
	}

	return result, nil
}

func (f *fakeColdRoomRepo) AddImage(_ context.Context, image *entity.ColdRoomImage) error {
	f.images[image.ColdRoomID] = append(f.images[image.ColdRoomID], image)

	return nil
}

func (f *fakeColdRoomRepo) FindImages(_ context.Context, coldRoomID uuid.UUID) ([]*entity.ColdRoomImage, error) {
	return f.images[coldRoomID], nil
}

// fakeVerificationRepo is an in-memory VerificationRepository.
type fakeVerificationRepo struct {
	records map[uuid.UUID]*entity.Verification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: make(map[uuid.UUID]*entity.Verification)}
}

func (f *fakeVerificationRepo) Create(_ context.Context, verification *entity.Verification) error {
	f.records[verification.ID] = verification

	return nil
}

func (f *fakeVerificationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Verification, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, repository.ErrVerificationNotFound
	}

	return record, nil
}

func (f *fakeVerificationRepo) FindByColdRoomID(_ context.Context, coldRoomID uuid.UUID) (*entity.Verification, error) {
	for _, record := range f.records {
		if record.ColdRoomID == coldRoomID {
			return record, nil
		}
	}

	return nil, repository.ErrVerificationNotFound
}

func (f *fakeVerificationRepo) List(_ context.Context, limit, offset int) ([]*entity.Verification, error) {
	var result []*entity.Verification
	for _, record := range f.records {
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	if offset >= len(result) {
		return nil, nil
	}
	end := min(offset+limit, len(result))

	return result[offset:end], nil
}

func (f *fakeVerificationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeVerificationRepo) Update(_ context.Context, verification *entity.Verification) error {
	if _, ok := f.records[verification.ID]; !ok {
		return repository.ErrVerificationNotFound
	}
	f.records[verification.ID] = verification

	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user

	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	f.users[user.ID] = user

	return nil
}

// fakeAuthRepo is an in-memory AuthRepository keyed by provider and provider user ID.
type fakeAuthRepo struct {
	auths map[string]*entity.Authentication
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{auths: make(map[string]*entity.Authentication)}
}

func authKey(provider, providerUserID string) string {
	return provider + "|" + providerUserID
}

func (f *fakeAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	auth, ok := f.auths[authKey(provider, providerUserID)]
	if !ok {
		return nil, repository.ErrAuthNotFound
	}

	return auth, nil
}

func (f *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	f.auths[authKey(auth.Provider, auth.ProviderUserID)] = auth

	return nil
}

// fakeRefreshTokenRepo is an in-memory RefreshTokenRepository.
type fakeRefreshTokenRepo struct {
	tokens map[string]*entity.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*entity.RefreshToken)}
}

func (f *fakeRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	f.tokens[token.TokenHash] = token

	return nil
}

func (f *fakeRefreshTokenRepo) FindByTokenHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	token, ok := f.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return token, nil
}

func (f *fakeRefreshTokenRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	if _, ok := f.tokens[tokenHash]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(f.tokens, tokenHash)

	return nil
}

func (f *fakeRefreshTokenRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, token := range f.tokens {
		if token.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (f *fakeRefreshTokenRepo) DeleteOldestByUserID(_ context.Context, userID uuid.UUID) error {
	var oldest *entity.RefreshToken
	for _, token := range f.tokens {
		if token.UserID != userID {
			continue
		}
		if oldest == nil || token.CreatedAt.Before(oldest.CreatedAt) {
			oldest = token
		}
	}
	if oldest == nil {
		return repository.ErrRefreshTokenNotFound
	}
	delete(f.tokens, oldest.TokenHash)

	return nil
}

// fakeRepoFactory bundles the in-memory repositories behind the transaction
// boundary. fakeTxManager just runs the callback against the same factory.
type fakeRepoFactory struct {
	coldRoomRepo     *fakeColdRoomRepo
	verificationRepo *fakeVerificationRepo
	userRepo         *fakeUserRepo
	authRepo         *fakeAuthRepo
	refreshTokenRepo *fakeRefreshTokenRepo
}

func newFakeRepoFactory() *fakeRepoFactory {
	return &fakeRepoFactory{
		coldRoomRepo:     newFakeColdRoomRepo(),
		verificationRepo: newFakeVerificationRepo(),
		userRepo:         newFakeUserRepo(),
		authRepo:         newFakeAuthRepo(),
		refreshTokenRepo: newFakeRefreshTokenRepo(),
	}
}

func (f *fakeRepoFactory) ColdRoomRepo() repository.ColdRoomRepository { return f.coldRoomRepo }

func (f *fakeRepoFactory) VerificationRepo() repository.VerificationRepository {
	return f.verificationRepo
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return f.userRepo }

func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository { return f.authRepo }

func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return f.refreshTokenRepo
}

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

// stubTokenService issues deterministic opaque tokens and remembers the claims
// it minted for them.
type stubTokenService struct {
	issued map[string]*service.Claims
}

func newStubTokenService() *stubTokenService {
	return &stubTokenService{issued: make(map[string]*service.Claims)}
}

func (s *stubTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	accessToken := "access-" + uuid.NewString()
	refreshToken := "refresh-" + uuid.NewString()
	s.issued[accessToken] = &service.Claims{UserID: userID, Roles: roles, Type: "access"}
	s.issued[refreshToken] = &service.Claims{UserID: userID, Roles: roles, Type: "refresh"}

	return accessToken, refreshToken, nil
}

func (s *stubTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims, ok := s.issued[tokenString]
	if !ok {
		return nil, context.Canceled
	}

	return claims, nil
}

func (s *stubTokenService) HashToken(token string) string {
	return "hash:" + token
}

func (s *stubTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

// stubHasher is a transparent PasswordHasher for tests.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// stubOAuthService returns a fixed identity or error.
type stubOAuthService struct {
	user *service.OAuthUser
	err  error
}

func (s *stubOAuthService) VerifyIDToken(_ context.Context, _ string) (*service.OAuthUser, error) {
	return s.user, s.err
}

// fakeDocumentStore keeps blobs in memory and records deletions.
type fakeDocumentStore struct {
	blobs   map[string][]byte
	deleted []string
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{blobs: make(map[string][]byte)}
}

func (f *fakeDocumentStore) Save(_ context.Context, key, _ string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", err
	}
	f.blobs[key] = buf.Bytes()

	return key, nil
}

func (f *fakeDocumentStore) SignedURL(_ context.Context, key string) (string, error) {
	return "https://blobs.example.test/" + key, nil
}

func (f *fakeDocumentStore) Delete(_ context.Context, key string) error {
	delete(f.blobs, key)
	f.deleted = append(f.deleted, key)

	return nil
}
