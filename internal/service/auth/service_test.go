package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/auth"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/oauth"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "s3cret-pass"
)

type fakeGoogle struct {
	info oauth.GoogleInformation
	err  error
}

func (f *fakeGoogle) GenerateState() (string, error) { return "state", nil }

func (f *fakeGoogle) RedirectURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeGoogle) Identify(context.Context, string) (oauth.GoogleInformation, error) {
	return f.info, f.err
}

type authFixture struct {
	svc    auth.AuthService
	tx     *memory.Transactor
	tokens *memory.RefreshTokenRepository
	jwt    jwt.Service
}

func strPtr(s string) *string { return &s }

func newAuthFixture(t *testing.T, google oauth.GoogleService) authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	users := memory.NewUserRepository(
		user.User{ID: "usr-admin", Username: "admin", PasswordHash: string(hash), Role: user.RoleAdmin},
		user.User{ID: "usr-jean", Username: "jean.rabe", PasswordHash: string(hash), Role: user.RoleUser, EmployeeID: strPtr("emp-1")},
	)
	employees := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", LastName: "Rabe", FirstName: "Jean", Email: "jean.rabe@example.com"},
		employee.Employee{ID: "emp-2", LastName: "Rakoto", FirstName: "Lova", Email: "lova@example.com"},
	)

	f := authFixture{
		tx:     &memory.Transactor{},
		tokens: memory.NewRefreshTokenRepository(),
		jwt:    jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp),
	}
	f.svc = NewAuthService(f.tx, users, employees, f.tokens, f.jwt, google)
	return f
}

var session = auth.SessionTrackingRequest{IPAddress: "10.0.0.7", UserAgent: "curl/8.5"}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t, nil)

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "jean.rabe", Password: testPassword}, session)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
	assert.Equal(t, 1, f.tx.Calls)

	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	actor, err := jwt.ActorFromClaims(token.PrivateClaims())
	require.NoError(t, err)
	assert.Equal(t, "usr-jean", actor.UserID)
	require.NotNil(t, actor.EmployeeID)
	assert.Equal(t, "emp-1", *actor.EmployeeID)

	stored, ok := f.tokens.Session(resp.RefreshToken)
	require.True(t, ok)
	assert.Equal(t, session, stored)
}

func TestLogin_Failures(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"wrong password", auth.LoginRequest{Username: "admin", Password: "nope"}, auth.ErrInvalidCredentials},
		{"unknown user", auth.LoginRequest{Username: "ghost", Password: testPassword}, auth.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tt.req, session)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := f.svc.Login(ctx, auth.LoginRequest{}, session)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Zero(t, f.tx.Calls)
}

func TestRefreshToken_Flow(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: testPassword}, session)
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// an access token is not accepted as a refresh token
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	// logging out twice is harmless
	assert.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
}

func TestRefreshToken_UnknownTokenIsInvalid(t *testing.T) {
	f := newAuthFixture(t, nil)

	// signed by the same key but never stored
	token, _, err := f.jwt.GenerateRefreshToken("usr-admin")
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: token})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.ErrorIs(t, f.svc.Logout(context.Background(), token), auth.ErrInvalidToken)
}

func TestLoginWithGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		_, err := f.svc.LoginWithGoogle(ctx, "code", session)
		assert.ErrorIs(t, err, auth.ErrOAuthDisabled)
		_, err = f.svc.GoogleAuthURL("state")
		assert.ErrorIs(t, err, auth.ErrOAuthDisabled)
	})

	t.Run("matching employee with account", func(t *testing.T) {
		f := newAuthFixture(t, &fakeGoogle{info: oauth.GoogleInformation{Email: "jean.rabe@example.com", VerifiedEmail: true}})
		resp, err := f.svc.LoginWithGoogle(ctx, "code", session)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.RefreshToken)

		url, err := f.svc.GoogleAuthURL("xyz")
		require.NoError(t, err)
		assert.Contains(t, url, "state=xyz")
	})

	t.Run("employee without account", func(t *testing.T) {
		f := newAuthFixture(t, &fakeGoogle{info: oauth.GoogleInformation{Email: "lova@example.com", VerifiedEmail: true}})
		_, err := f.svc.LoginWithGoogle(ctx, "code", session)
		assert.ErrorIs(t, err, auth.ErrNoLinkedAccount)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t, &fakeGoogle{info: oauth.GoogleInformation{Email: "someone@else.org", VerifiedEmail: true}})
		_, err := f.svc.LoginWithGoogle(ctx, "code", session)
		assert.ErrorIs(t, err, auth.ErrNoLinkedAccount)
	})

	t.Run("unverified email", func(t *testing.T) {
		f := newAuthFixture(t, &fakeGoogle{info: oauth.GoogleInformation{Email: "jean.rabe@example.com"}})
		_, err := f.svc.LoginWithGoogle(ctx, "code", session)
		assert.ErrorIs(t, err, auth.ErrNoLinkedAccount)
	})

	t.Run("exchange failure", func(t *testing.T) {
		f := newAuthFixture(t, &fakeGoogle{err: errors.New("invalid_grant")})
		_, err := f.svc.LoginWithGoogle(ctx, "code", session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
