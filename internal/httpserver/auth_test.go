package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/blacklist"
	"github.com/avkozlov/library-backend/internal/models"
	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/pkg/tokens"
)

type testServer struct {
	e    *echo.Echo
	repo *repo.GormRepo
	auth *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	r := repo.New(db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tok := tokens.NewService([]byte("test-jwt-secret"), 15*time.Minute, 24*time.Hour, 30*time.Minute)

	authSvc := &service.AuthService{
		Repo:      r,
		Tokens:    tok,
		Blacklist: blacklist.New(rdb),
		ResetLink: "http://localhost:8080/auth/reset-password",
	}
	authorSvc := &service.AuthorService{Repo: r}
	genreSvc := &service.GenreService{Repo: r}

	e := echo.New()
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: authSvc},
		Users:     &UserHTTP{Svc: &service.UserService{Repo: r}},
		Authors:   &AuthorHTTP{Svc: authorSvc},
		Genres:    &GenreHTTP{Svc: genreSvc},
		Books:     &BookHTTP{Svc: &service.BookService{Repo: r, Authors: authorSvc, Genres: genreSvc}},
		Instances: &BookInstanceHTTP{Svc: &service.BookInstanceService{Repo: r}},
		Readers:   &ReaderHTTP{Svc: &service.ReaderService{Repo: r}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		Tokens:    tok,
		Repo:      r,
	})

	return &testServer{e: e, repo: r, auth: authSvc}
}

func (s *testServer) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signup(t *testing.T, username, email, role string) {
	t.Helper()

	rec := s.doJSON(http.MethodPost, "/auth/signup", transport.SignupRequest{
		Name:     "Test",
		Surname:  "User",
		Username: username,
		Password: "Secret12345",
		Email:    email,
		Role:     role,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, username, password string) (transport.TokenPair, *httptest.ResponseRecorder) {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var pair transport.TokenPair
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	}
	return pair, rec
}

func TestAuthHTTP_SignupAndLogin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "alice", "alice@example.com", "")

	pair, rec := s.login(t, "alice", "Secret12345")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
}

func TestAuthHTTP_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "bob", "bob@example.com", "")

	_, rec := s.login(t, "bob", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHTTP_Signup_DuplicateUsername(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "carol", "carol@example.com", "")

	rec := s.doJSON(http.MethodPost, "/auth/signup", transport.SignupRequest{
		Name:     "Test",
		Surname:  "User",
		Username: "carol",
		Password: "Secret12345",
		Email:    "other@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHTTP_RefreshRotation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "dave", "dave@example.com", "")
	pair, _ := s.login(t, "dave", "Secret12345")

	rec := s.doJSON(http.MethodPost, "/auth/refresh-token", transport.RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Replaying the rotated token is rejected.
	rec = s.doJSON(http.MethodPost, "/auth/refresh-token", transport.RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHTTP_ProtectedRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "eve", "eve@example.com", "")
	pair, _ := s.login(t, "eve", "Secret12345")

	rec := s.doJSON(http.MethodGet, "/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doJSON(http.MethodGet, "/users/me", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "eve", me.Username)
}

func TestAuthHTTP_AdminOnlyRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "librarian", "lib@example.com", "")
	s.signup(t, "chief", "chief@example.com", "admin")

	libPair, _ := s.login(t, "librarian", "Secret12345")
	adminPair, _ := s.login(t, "chief", "Secret12345")

	rec := s.doJSON(http.MethodGet, "/users", nil, libPair.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.doJSON(http.MethodGet, "/users", nil, adminPair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthHTTP_BlockedUserRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "frank", "frank@example.com", "")
	pair, _ := s.login(t, "frank", "Secret12345")

	user, err := s.repo.GetUserByUsername(context.Background(), "frank")
	require.NoError(t, err)
	user.IsBlocked = true
	_, err = s.repo.SaveUser(context.Background(), user)
	require.NoError(t, err)

	rec := s.doJSON(http.MethodGet, "/users/me", nil, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthHTTP_ResetPasswordForm(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "grace", "grace@example.com", "")

	rec := s.doJSON(http.MethodPost, "/auth/forgot-password", transport.ForgotPasswordRequest{Email: "grace@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ResetToken)

	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password?reset_token="+url.QueryEscape(resp.ResetToken), nil)
	frec := httptest.NewRecorder()
	s.e.ServeHTTP(frec, req)

	require.Equal(t, http.StatusOK, frec.Code)
	assert.Contains(t, frec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, frec.Body.String(), resp.ResetToken)
}

func TestAuthHTTP_ResetPassword_MismatchRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "heidi", "heidi@example.com", "")

	rec := s.doJSON(http.MethodPost, "/auth/forgot-password", transport.ForgotPasswordRequest{Email: "heidi@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = s.doJSON(http.MethodPost, "/auth/reset-password", transport.ResetPasswordRequest{
		ResetToken:         resp.ResetToken,
		NewPassword:        "NewSecret999",
		ConfirmNewPassword: "SomethingElse",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The mismatch never reached the store: the old password still works.
	_, lrec := s.login(t, "heidi", "Secret12345")
	assert.Equal(t, http.StatusOK, lrec.Code)
}

func TestAuthHTTP_ResetPassword_FullFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "ivan", "ivan@example.com", "")

	rec := s.doJSON(http.MethodPost, "/auth/forgot-password", transport.ForgotPasswordRequest{Email: "ivan@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = s.doJSON(http.MethodPost, "/auth/reset-password", transport.ResetPasswordRequest{
		ResetToken:         resp.ResetToken,
		NewPassword:        "NewSecret999",
		ConfirmNewPassword: "NewSecret999",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, lrec := s.login(t, "ivan", "Secret12345")
	assert.Equal(t, http.StatusUnauthorized, lrec.Code)

	_, lrec = s.login(t, "ivan", "NewSecret999")
	assert.Equal(t, http.StatusOK, lrec.Code)
}

func TestAuthHTTP_Logout(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.signup(t, "judy", "judy@example.com", "")
	pair, _ := s.login(t, "judy", "Secret12345")

	rec := s.doJSON(http.MethodPost, "/auth/logout", transport.LogoutRequest{RefreshToken: pair.RefreshToken}, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.doJSON(http.MethodPost, "/auth/refresh-token", transport.RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
