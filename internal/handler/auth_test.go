package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/handler"
	"github.com/iliyamo/blog-platform/internal/model"
	"github.com/iliyamo/blog-platform/internal/repository"
	"github.com/iliyamo/blog-platform/internal/router"
	"github.com/iliyamo/blog-platform/internal/utils"
)

const testSecret = "handler-test-secret"

// ---- fake user store ----

// fakeUserStore mimics the users table including its unique-email
// constraint: concurrent Create calls with the same email resolve to
// exactly one success.
type fakeUserStore struct {
	mu      sync.Mutex
	nextID  uint64
	byEmail map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, role string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	s.nextID++
	now := time.Now().UTC()
	s.byEmail[email] = model.User{
		ID: s.nextID, Email: email, PasswordHash: passwordHash, Role: role,
		CreatedAt: now, UpdatedAt: now,
	}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) ListAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.byEmail))
	for _, u := range s.byEmail {
		out = append(out, u)
	}
	return out, nil
}

// seed inserts a user with the given role and a real bcrypt hash.
func (s *fakeUserStore) seed(t *testing.T, email, password, role string) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	id, err := s.Create(context.Background(), email, hash, role)
	require.NoError(t, err)
	u, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// ---- helpers ----

func newAuthEcho(store handler.UserStore) *echo.Echo {
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, BcryptCost: 4}
	e := echo.New()
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, store), testSecret)
	return e
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, u.ID, u.Email, u.Role, 15)
	require.NoError(t, err)
	return tok.Token
}

// ---- tests ----

func TestSignupLoginScenario(t *testing.T) {
	store := newFakeUserStore()
	e := newAuthEcho(store)

	// Fresh signup succeeds exactly once.
	rec := doJSON(e, http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "User created successfully")

	// Repeating it conflicts.
	rec = doJSON(e, http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password is rejected.
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct password yields a token and a user view without the hash.
	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		Token   string         `json:"token"`
		User    map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Login successful", resp.Message)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "a@x.com", resp.User["email"])
	require.Equal(t, "USER", resp.User["role"]) // role is fixed at signup
	require.NotContains(t, resp.User, "password")
	require.NotContains(t, resp.User, "password_hash")

	// The issued token verifies back to the same identity.
	claims, err := utils.ParseAccessToken(testSecret, resp.Token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email)
}

func TestLogin_FailureReasonNotDistinguishable(t *testing.T) {
	store := newFakeUserStore()
	store.seed(t, "known@x.com", "right-password", model.RoleUser)
	e := newAuthEcho(store)

	unknown := doJSON(e, http.MethodPost, "/auth/login", `{"email":"nobody@x.com","password":"whatever"}`, "")
	wrongPw := doJSON(e, http.MethodPost, "/auth/login", `{"email":"known@x.com","password":"wrong"}`, "")

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	// Identical bodies: the response must not leak which field was wrong.
	require.Equal(t, unknown.Body.String(), wrongPw.Body.String())
}

func TestSignup_InvalidBody(t *testing.T) {
	e := newAuthEcho(newFakeUserStore())

	for _, body := range []string{
		`{"email":"","password":"secret1"}`,
		`{"email":"a@x.com","password":"short"}`,
		`not json`,
	} {
		rec := doJSON(e, http.MethodPost, "/auth/signup", body, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
	}
}

func TestSignup_Concurrent(t *testing.T) {
	store := newFakeUserStore()
	e := newAuthEcho(store)

	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := doJSON(e, http.MethodPost, "/auth/signup", `{"email":"race@x.com","password":"secret1"}`, "")
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	created, conflicts := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	require.Equal(t, 1, created)
	require.Equal(t, n-1, conflicts)
}

func TestListUsers_AdminOnly(t *testing.T) {
	store := newFakeUserStore()
	user := store.seed(t, "user@x.com", "secret1", model.RoleUser)
	admin := store.seed(t, "admin@x.com", "secret2", model.RoleAdmin)
	e := newAuthEcho(store)

	// No token at all.
	rec := doJSON(e, http.MethodGet, "/auth/users", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// USER role is authenticated but forbidden.
	rec = doJSON(e, http.MethodGet, "/auth/users", "", tokenFor(t, user))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// ADMIN gets the list, sanitized.
	rec = doJSON(e, http.MethodGet, "/auth/users", "", tokenFor(t, admin))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	for _, v := range views {
		require.NotContains(t, v, "password")
		require.NotContains(t, v, "password_hash")
	}
}

func TestMe(t *testing.T) {
	store := newFakeUserStore()
	u := store.seed(t, "me@x.com", "secret1", model.RoleUser)
	e := newAuthEcho(store)

	rec := doJSON(e, http.MethodGet, "/auth/me", "", tokenFor(t, u))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"email":"me@x.com"`)

	rec = doJSON(e, http.MethodGet, "/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
