package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	mw "github.com/kmalov/auth_service/internal/middleware"
	"github.com/kmalov/auth_service/internal/models"
	"github.com/kmalov/auth_service/internal/repo"
	"github.com/kmalov/auth_service/internal/service"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentMail struct {
	recipient string
	token     uuid.UUID
}

type stubMailer struct {
	mu   sync.Mutex
	fail bool
	sent []sentMail
}

func (m *stubMailer) SendPasswordReset(ctx context.Context, recipient string, resetToken uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("sendgrid: unexpected status 503")
	}
	m.sent = append(m.sent, sentMail{recipient: recipient, token: resetToken})
	return nil
}

func (m *stubMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type handlerEnv struct {
	e      *echo.Echo
	svc    *service.AuthService
	repo   *repo.GormRepo
	clock  *fakeClock
	mailer *stubMailer
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Single connection keeps the in-memory database alive for the
	// whole test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RevokedToken{}))

	env := &handlerEnv{
		repo:   &repo.GormRepo{DB: db},
		clock:  newFakeClock(),
		mailer: &stubMailer{},
	}
	env.svc = &service.AuthService{
		Repo:      env.repo,
		Mailer:    env.mailer,
		JWTSecret: []byte("test-jwt-secret"),
		TokenTTL:  time.Hour,
		Now:       env.clock.Now,
	}

	env.e = echo.New()
	Register(env.e, &Deps{
		AuthHandler:   &AuthHTTP{Svc: env.svc},
		UserHandler:   &UserHTTP{},
		HealthHandler: &HealthHTTP{Repo: env.repo},
		TokenAuth:     mw.NewTokenAuth(env.svc),
	})
	return env
}

func (env *handlerEnv) createUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	user, err := env.svc.CreateUser(context.Background(), email, password)
	require.NoError(t, err)
	return user
}

func (env *handlerEnv) banUser(t *testing.T, id uuid.UUID) {
	t.Helper()

	require.NoError(t, env.repo.DB.Model(&models.User{}).
		Where("id = ?", id).
		Update("is_banned", true).Error)
}

// doForm sends an x-www-form-urlencoded request through the full router,
// middleware included.
func (env *handlerEnv) doForm(method, path string, form url.Values, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *handlerEnv) doJSON(method, path string, payload any, bearer string) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *handlerEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := env.doForm(http.MethodPost, "/token", url.Values{
		"username": {email},
		"password": {password},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	token, _ := resp["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
