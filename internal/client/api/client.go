// Package api implements the HTTP client for the Postboard server, including
// the refresh coordinator: any call rejected with 401 suspends, obtains a new
// access token through the refresh endpoint, and is retried exactly once.
// Concurrent refresh attempts collapse into a single in-flight request whose
// outcome is shared by every waiter.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/mzunohkaru/postboard/internal/client/models"
	"github.com/mzunohkaru/postboard/internal/client/session"
	"github.com/mzunohkaru/postboard/internal/common"
)

const refreshPath = "/api/auth/refresh"

// refreshCall is the shared handle for one in-flight refresh. The first
// caller creates it, performs the HTTP call, fills token, and closes done;
// joiners block on done and reuse token.
type refreshCall struct {
	done  chan struct{}
	token string
}

// Client talks to the Postboard API. The underlying http.Client carries a
// cookie jar, which is the only place the refresh token ever lives on the
// client side.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store

	refreshMu sync.Mutex
	inflight  *refreshCall
}

func NewClient(baseURL string, store *session.Store, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		session: store,
	}, nil
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Message     string          `json:"message"`
	AccessToken string          `json:"accessToken"`
}

type authData struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// Register creates an account. The server also sets the refresh cookie,
// which the jar captures.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/api/auth/register", body, false)
	if err != nil {
		return nil, "", err
	}
	return decodeAuthData(env)
}

// Login authenticates with a username or email plus password.
func (c *Client) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	body := map[string]string{"username": login, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", body, false)
	if err != nil {
		return nil, "", err
	}
	return decodeAuthData(env)
}

// Logout asks the server to clear the refresh cookie.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, false)
	return err
}

// FetchMe returns the user behind the current access token.
func (c *Client) FetchMe(ctx context.Context) (*models.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, true)
	if err != nil {
		return nil, err
	}
	var data struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// UpdateAccount changes the current user's username and email.
func (c *Client) UpdateAccount(ctx context.Context, username, email string) (*models.User, error) {
	body := map[string]string{"username": username, "email": email}
	env, err := c.do(ctx, http.MethodPut, "/api/account", body, true)
	if err != nil {
		return nil, err
	}
	var data struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// ListPosts returns all posts, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]*models.Post, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/posts", nil, true)
	if err != nil {
		return nil, err
	}
	var result []*models.Post
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreatePost publishes a post authored by the current user.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	body := map[string]string{"title": title, "content": content}
	env, err := c.do(ctx, http.MethodPost, "/api/posts", body, true)
	if err != nil {
		return nil, err
	}
	post := &models.Post{}
	if err := json.Unmarshal(env.Data, post); err != nil {
		return nil, err
	}
	return post, nil
}

func decodeAuthData(env *envelope) (*models.User, string, error) {
	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, "", err
	}
	if data.User == nil || data.AccessToken == "" {
		return nil, "", fmt.Errorf("auth response missing user or access token")
	}
	return data.User, data.AccessToken, nil
}

// Refresh obtains a new access token via the refresh cookie and stores it in
// the session. If a refresh is already in flight the caller joins it and
// reuses its outcome instead of starting a second one, so at most one refresh
// HTTP request exists at any time. An empty result means the refresh failed
// and the session has been cleared.
func (c *Client) Refresh(ctx context.Context) string {
	c.refreshMu.Lock()
	if call := c.inflight; call != nil {
		c.refreshMu.Unlock()
		<-call.done
		return call.token
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.refreshMu.Unlock()

	c.session.SetRefreshing(true)
	token, err := c.requestRefresh(ctx)
	if err != nil {
		_ = c.session.ClearAuth(ctx)
		token = ""
	} else {
		_ = c.session.SetToken(ctx, token)
	}
	c.session.SetRefreshing(false)

	c.refreshMu.Lock()
	call.token = token
	c.inflight = nil
	c.refreshMu.Unlock()
	close(call.done)

	return token
}

// requestRefresh performs the actual refresh HTTP call. It authenticates via
// the httpOnly cookie in the jar, never via a bearer header, and is the one
// path do() never retries.
func (c *Client) requestRefresh(ctx context.Context) (string, error) {
	env, err := c.do(ctx, http.MethodPost, refreshPath, nil, false)
	if err != nil {
		return "", err
	}
	if env.AccessToken == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}
	return env.AccessToken, nil
}

// do sends one request. For authenticated calls a 401 response triggers the
// refresh coordinator and, if it yields a token, a single retry with the new
// bearer header; a failed refresh surfaces as common.ErrorUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (*envelope, error) {
	resp, err := c.send(ctx, method, path, body, authed)
	if err != nil {
		return nil, err
	}

	if authed && resp.Status == http.StatusUnauthorized && path != refreshPath {
		token := c.Refresh(ctx)
		if token == "" {
			return nil, common.ErrorUnauthorized
		}
		resp, err = c.send(ctx, method, path, body, authed)
		if err != nil {
			return nil, err
		}
	}

	if resp.Status >= http.StatusBadRequest {
		return nil, &APIError{Status: resp.Status, Message: resp.Envelope.Message}
	}
	return resp.Envelope, nil
}

type doResult struct {
	Status   int
	Envelope *envelope
}

func (c *Client) send(ctx context.Context, method, path string, body any, authed bool) (*doResult, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	env := &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		env = &envelope{Message: resp.Status}
	}
	return &doResult{Status: resp.StatusCode, Envelope: env}, nil
}
