package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mzunohkaru/postboard/internal/common"
	"github.com/mzunohkaru/postboard/internal/logging"
	"github.com/mzunohkaru/postboard/internal/server/auth"
	"github.com/mzunohkaru/postboard/internal/server/models"
	"github.com/mzunohkaru/postboard/internal/server/services"
)

// memUsersRepo is an in-memory users.Repository for handler tests.
type memUsersRepo struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: make(map[int64]*models.User)}
}

func (r *memUsersRepo) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return nil, common.ErrDuplicateUsername
		}
		if u.Email == email {
			return nil, common.ErrDuplicateEmail
		}
	}
	r.seq++
	user := &models.User{
		ID: r.seq, Username: username, Email: email, PasswordHash: passwordHash,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	r.byID[user.ID] = user
	return user, nil
}

func (r *memUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) GetByLoginOrEmail(ctx context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) Update(ctx context.Context, id int64, username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, other := range r.byID {
		if other.ID == id {
			continue
		}
		if other.Username == username {
			return nil, common.ErrDuplicateUsername
		}
		if other.Email == email {
			return nil, common.ErrDuplicateEmail
		}
	}
	u.Username, u.Email, u.UpdatedAt = username, email, time.Now()
	return u, nil
}

func (r *memUsersRepo) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

type memPostsRepo struct {
	mu    sync.Mutex
	posts []*models.Post
}

func (r *memPostsRepo) List(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Post, len(r.posts))
	copy(out, r.posts)
	return out, nil
}

func (r *memPostsRepo) Create(ctx context.Context, title, content string, userID int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := &models.Post{ID: int64(len(r.posts) + 1), Title: title, Content: content, UserID: userID}
	r.posts = append(r.posts, post)
	return post, nil
}

type testEnv struct {
	router http.Handler
	repo   *memUsersRepo
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvTTL(t, time.Hour, 2*time.Hour)
}

func newTestEnvTTL(t *testing.T, accessTTL, refreshTTL time.Duration) *testEnv {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	tokens := auth.NewTokenService([]byte("test-access"), []byte("test-refresh"), accessTTL, refreshTTL)
	repo := newMemUsersRepo()
	userService := services.NewUserService(repo, tokens)
	postService := services.NewPostService(&memPostsRepo{})
	h := NewHandler(userService, postService, tokens, logger, refreshTTL, false)

	return &testEnv{router: NewRouter(h, logger), repo: repo, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.RefreshTokenCookieName {
			return c
		}
	}
	return nil
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// --- register ---

func TestRegister_CreatedWithTokenAndCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})

	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["accessToken"])
	user := data["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "alice@x.com", user["email"])
	require.NotContains(t, rec.Body.String(), "password")

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie, "refresh cookie must be set")
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)
	require.Positive(t, cookie.MaxAge)

	// issued access token must verify and point at the new user
	userID, err := env.tokens.VerifyAccess(data["accessToken"].(string))
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "other@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, decodeBody(t, rec)["message"], "username")

	rec = env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice2", "email": "alice@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, decodeBody(t, rec)["message"], "email")
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "al", "email": "alice@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "bad", "password": "Secret123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "12345"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- login ---

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})

	// login by username
	rec := env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, refreshCookie(rec))

	// login by email
	rec = env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPassword_GenericAndNoCookie(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})

	rec := env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	wrongPassword := decodeBody(t, rec)["message"]
	require.Nil(t, refreshCookie(rec), "no cookie on failed login")

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "nobody", "password": "whatever"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, wrongPassword, decodeBody(t, rec)["message"],
		"unknown user and wrong password must be indistinguishable")
}

// --- auth guard ---

func TestGuard_ThreeDistinguishableRejections(t *testing.T) {
	env := newTestEnv(t)

	// missing header
	rec := env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	missing := decodeBody(t, rec)["message"]

	// malformed token
	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, withBearer("garbage"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	invalid := decodeBody(t, rec)["message"]

	// valid token, user deleted
	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	data := decodeBody(t, reg)["data"].(map[string]any)
	token := data["accessToken"].(string)
	env.repo.delete(1)

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	notFound := decodeBody(t, rec)["message"]

	require.NotEqual(t, missing, invalid)
	require.NotEqual(t, invalid, notFound)
	require.NotEqual(t, missing, notFound)
}

func TestGuard_ExpiredToken(t *testing.T) {
	env := newTestEnvTTL(t, -time.Minute, time.Hour)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	data := decodeBody(t, reg)["data"].(map[string]any)
	token := data["accessToken"].(string)

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, decodeBody(t, rec)["message"], "expired")
}

func TestMe_ReturnsUserWithoutHash(t *testing.T) {
	env := newTestEnv(t)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	data := decodeBody(t, reg)["data"].(map[string]any)
	token := data["accessToken"].(string)

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.NotContains(t, rec.Body.String(), "password")
}

// --- refresh ---

func TestRefresh_Success(t *testing.T) {
	env := newTestEnv(t)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	cookie := refreshCookie(reg)
	require.NotNil(t, cookie)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	token := decodeBody(t, rec)["accessToken"].(string)
	userID, err := env.tokens.VerifyAccess(token)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestRefresh_MissingCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_ExpiredCookie(t *testing.T) {
	env := newTestEnvTTL(t, time.Hour, -time.Minute)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	cookie := refreshCookie(reg)
	require.NotNil(t, cookie)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_UserGone(t *testing.T) {
	env := newTestEnv(t)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	cookie := refreshCookie(reg)
	env.repo.delete(1)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(cookie)
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, decodeBody(t, rec)["message"], "user not found")
}

func TestRefresh_AccessTokenInCookieRejected(t *testing.T) {
	env := newTestEnv(t)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	data := decodeBody(t, reg)["data"].(map[string]any)
	access := data["accessToken"].(string)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: access})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- logout ---

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}

// --- account ---

func TestUpdateAccount(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "bob", "email": "bob@x.com", "password": "Secret123"})
	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	data := decodeBody(t, reg)["data"].(map[string]any)
	token := data["accessToken"].(string)

	rec := env.do(t, http.MethodPut, "/api/account",
		map[string]string{"username": "alice2", "email": "alice2@x.com"}, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "alice2", user["username"])

	// colliding with bob's email is a field-specific conflict
	rec = env.do(t, http.MethodPut, "/api/account",
		map[string]string{"username": "alice2", "email": "bob@x.com"}, withBearer(token))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, decodeBody(t, rec)["message"], "email")
}

// --- posts ---

func TestPosts_GuardedAndAuthorTaken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	reg := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "Secret123"})
	data := decodeBody(t, reg)["data"].(map[string]any)
	token := data["accessToken"].(string)

	rec = env.do(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "hello", "content": "world"}, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, float64(1), post["user_id"])

	rec = env.do(t, http.MethodGet, "/api/posts", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["data"].([]any)
	require.Len(t, list, 1)
}
