package service

import (
	"context"
	"testing"

	"github.com/Verone2021/Verone-V1-sub003/internal/config"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"
	"github.com/Verone2021/Verone-V1-sub003/internal/model"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !includeInactive && !u.Active {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = active
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "secret-de-test",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Email:        email,
		Name:         "Testeur",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	cfg := authTestConfig()
	seedUser(t, repo, "acheteur@verone.fr", "motdepasse", RoleBuyer)
	svc := NewAuthService(repo, cfg)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "acheteur@verone.fr",
		Password: "motdepasse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, RoleBuyer, resp.User.Role)

	// The access token carries the identity claims the middleware reads.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "acheteur@verone.fr", claims["email"])
	assert.Equal(t, RoleBuyer, claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "acheteur@verone.fr", "motdepasse", RoleBuyer)
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "acheteur@verone.fr",
		Password: "mauvais",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "identifiants invalides")
}

func TestLogin_UnknownOrInactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "ancien@verone.fr", "motdepasse", RoleBuyer)
	require.NoError(t, repo.SetActive(context.Background(), u.ID, false))
	svc := NewAuthService(repo, authTestConfig())

	for _, email := range []string{"inconnu@verone.fr", "ancien@verone.fr"} {
		_, err := svc.Login(context.Background(), dto.LoginRequest{Email: email, Password: "motdepasse"})
		assert.EqualError(t, err, "identifiants invalides")
	}
}

func TestRefresh_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "acheteur@verone.fr", "motdepasse", RoleBuyer)
	svc := NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "acheteur@verone.fr",
		Password: "motdepasse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_InvalidToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), authTestConfig())
	_, err := svc.Refresh(context.Background(), "pas-un-jwt")
	require.Error(t, err)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "acheteur@verone.fr", "motdepasse", RoleBuyer)
	svc := NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "acheteur@verone.fr",
		Password: "motdepasse",
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(context.Background(), u.ID, false))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "nouveau@verone.fr",
		Name:     "Nouveau",
		Password: "motdepasse",
		Role:     RoleBuyer,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "nouveau@verone.fr",
		Name:     "Doublon",
		Password: "motdepasse",
		Role:     RoleBuyer,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existe déjà")
}

func TestListUsers_FiltersInactive(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "actif@verone.fr", "motdepasse", RoleBuyer)
	u := seedUser(t, repo, "inactif@verone.fr", "motdepasse", RoleBuyer)
	require.NoError(t, repo.SetActive(context.Background(), u.ID, false))
	svc := NewAuthService(repo, authTestConfig())

	active, err := svc.ListUsers(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListUsers(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
