package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
)

type mockAuthRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	hods    map[string]*models.User

	created *models.User
}

func (m *mockAuthRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-1"
	m.created = user
	return nil
}

func (m *mockAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (m *mockAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (m *mockAuthRepo) FindActiveHOD(_ context.Context, department string) (*models.User, error) {
	user, ok := m.hods[department]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func newAuthServiceForTest(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "leave-api"})
}

func registration() models.RegisterRequest {
	return models.RegisterRequest{
		Name:       "Asha Rao",
		Email:      "Asha@Example.edu",
		Password:   "s3cret!",
		Role:       models.RoleFaculty,
		Department: "physics",
	}
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("creates an active account with a hashed password", func(t *testing.T) {
		repo := &mockAuthRepo{}
		svc := newAuthServiceForTest(repo)

		user, err := svc.Register(context.Background(), registration())
		require.NoError(t, err)
		require.True(t, user.Active)
		require.Equal(t, "asha@example.edu", user.Email)
		require.NotEqual(t, "s3cret!", user.PasswordHash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!")))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := &mockAuthRepo{byEmail: map[string]*models.User{
			"asha@example.edu": {ID: "user-0", Email: "asha@example.edu"},
		}}
		svc := newAuthServiceForTest(repo)

		_, err := svc.Register(context.Background(), registration())
		require.True(t, appErrors.Is(err, appErrors.ErrConflict))
	})

	t.Run("admin accounts cannot self-register", func(t *testing.T) {
		svc := newAuthServiceForTest(&mockAuthRepo{})
		req := registration()
		req.Role = models.RoleAdmin
		_, err := svc.Register(context.Background(), req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("second hod for a department is rejected", func(t *testing.T) {
		repo := &mockAuthRepo{hods: map[string]*models.User{
			"physics": {ID: "hod-0", Role: models.RoleHOD, Department: "physics", Active: true},
		}}
		svc := newAuthServiceForTest(repo)

		req := registration()
		req.Role = models.RoleHOD
		_, err := svc.Register(context.Background(), req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("first hod for a department registers fine", func(t *testing.T) {
		repo := &mockAuthRepo{}
		svc := newAuthServiceForTest(repo)

		req := registration()
		req.Role = models.RoleHOD
		user, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, models.RoleHOD, user.Role)
	})

	t.Run("invalid payload fails validation", func(t *testing.T) {
		svc := newAuthServiceForTest(&mockAuthRepo{})
		req := registration()
		req.Email = "not-an-email"
		_, err := svc.Register(context.Background(), req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	account := &models.User{
		ID:           "user-1",
		Name:         "Asha Rao",
		Email:        "asha@example.edu",
		PasswordHash: string(hash),
		Role:         models.RoleFaculty,
		Department:   "physics",
		Active:       true,
	}

	t.Run("issues a token carrying role and department", func(t *testing.T) {
		repo := &mockAuthRepo{byEmail: map[string]*models.User{account.Email: account}}
		svc := newAuthServiceForTest(repo)

		resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "Asha@Example.edu", Password: "s3cret!"})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "user-1", resp.User.ID)

		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.UserID)
		require.Equal(t, models.RoleFaculty, claims.Role)
		require.Equal(t, "physics", claims.Department)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		repo := &mockAuthRepo{byEmail: map[string]*models.User{account.Email: account}}
		svc := newAuthServiceForTest(repo)
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: account.Email, Password: "wrong"})
		require.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("unknown email is invalid credentials", func(t *testing.T) {
		svc := newAuthServiceForTest(&mockAuthRepo{})
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.edu", Password: "s3cret!"})
		require.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("inactive accounts cannot log in", func(t *testing.T) {
		frozen := *account
		frozen.Active = false
		repo := &mockAuthRepo{byEmail: map[string]*models.User{frozen.Email: &frozen}}
		svc := newAuthServiceForTest(repo)
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: frozen.Email, Password: "s3cret!"})
		require.True(t, appErrors.Is(err, appErrors.ErrInactiveAccount))
	})
}

func TestAuthServiceValidateToken(t *testing.T) {
	t.Run("garbage tokens are unauthorized", func(t *testing.T) {
		svc := newAuthServiceForTest(&mockAuthRepo{})
		_, err := svc.ValidateToken("not-a-token")
		require.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
	})

	t.Run("tokens signed with another secret are unauthorized", func(t *testing.T) {
		other := NewAuthService(&mockAuthRepo{byEmail: map[string]*models.User{}}, nil, zap.NewNop(), AuthConfig{Secret: "other-secret", Expiration: time.Hour})
		hash, err := bcrypt.GenerateFromPassword([]byte("pw1234"), bcrypt.MinCost)
		require.NoError(t, err)
		repo := &mockAuthRepo{byEmail: map[string]*models.User{
			"a@example.edu": {ID: "u1", Email: "a@example.edu", PasswordHash: string(hash), Role: models.RoleFaculty, Department: "physics", Active: true},
		}}
		issuer := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{Secret: "issuer-secret", Expiration: time.Hour})

		resp, err := issuer.Login(context.Background(), models.LoginRequest{Email: "a@example.edu", Password: "pw1234"})
		require.NoError(t, err)

		_, err = other.ValidateToken(resp.AccessToken)
		require.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
	})
}
