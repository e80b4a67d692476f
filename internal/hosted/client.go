// Package hosted is a client for the hosted database/auth service that backs
// the dashboard. Auth calls go through gotrue-go against /auth/v1 and table
// calls through postgrest-go against /rest/v1.
package hosted

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
)

const (
	todosTable = "todos"
	schema     = "public"

	// error bodies larger than this are cut off
	maxResponseBytes = 4 << 20
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignInWithPassword exchanges email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.auth(ctx, "", nil).SignInWithEmailPassword(email, password)
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		err = &APIError{StatusCode: http.StatusBadRequest, Message: "Email and password required"}
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	return &Session{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		RefreshToken: resp.RefreshToken,
		User:         userFrom(resp.User),
	}, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.auth(ctx, accessToken, nil).GetUser()
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user := userFrom(resp.User)
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, accessToken string, attrs UserAttributes) (*User, error) {
	req := types.UpdateUserRequest{Email: attrs.Email}
	if attrs.Password != "" {
		req.Password = &attrs.Password
	}

	resp, err := c.auth(ctx, accessToken, nil).UpdateUser(req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	user := userFrom(resp.User)
	return &user, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.auth(ctx, accessToken, nil).Logout(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Recover asks the auth service to email a password reset link.
func (c *Client) Recover(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	if err := c.auth(ctx, "", query).Recover(types.RecoverRequest{Email: email}); err != nil {
		return fmt.Errorf("recover: %w", err)
	}
	return nil
}

// SelectTodos returns the caller's rows, newest first.
func (c *Client) SelectTodos(ctx context.Context, accessToken string) ([]Todo, error) {
	todos := []Todo{}
	_, err := c.rest(ctx, accessToken).
		From(todosTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&todos)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	return todos, nil
}

func (c *Client) InsertTodo(ctx context.Context, accessToken string, in TodoInput) (*Todo, error) {
	var rows []Todo
	_, err := c.rest(ctx, accessToken).
		From(todosTable).
		Insert(in, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert todo: empty representation")
	}
	return &rows[0], nil
}

func (c *Client) UpdateTodo(ctx context.Context, accessToken, id string, in TodoInput) (*Todo, error) {
	var rows []Todo
	_, err := c.rest(ctx, accessToken).
		From(todosTable).
		Update(in, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("update todo %q: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// DeleteTodo removes the row if the caller can see it. A row that is missing
// or owned by someone else is not an error.
func (c *Client) DeleteTodo(ctx context.Context, accessToken, id string) error {
	_, _, err := c.rest(ctx, accessToken).
		From(todosTable).
		Delete("minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("delete todo %q: %w", id, err)
	}
	return nil
}

func (c *Client) auth(ctx context.Context, accessToken string, query url.Values) gotrue.Client {
	hc := http.Client{
		Transport: c.transport(ctx, query),
		Jar:       c.http.Jar,
		Timeout:   c.http.Timeout,
	}
	client := gotrue.New("", c.apiKey).
		WithCustomGoTrueURL(c.baseURL + "/auth/v1").
		WithClient(hc)
	if accessToken != "" {
		client = client.WithToken(accessToken)
	}
	return client
}

// rest builds a table client bound to one caller. Anonymous calls
// authenticate with the api key itself.
func (c *Client) rest(ctx context.Context, accessToken string) *postgrest.Client {
	if accessToken == "" {
		accessToken = c.apiKey
	}
	client := postgrest.NewClient(c.baseURL+"/rest/v1", schema, map[string]string{
		"apikey":        c.apiKey,
		"Authorization": "Bearer " + accessToken,
	})
	if client.Transport != nil {
		client.Transport.Parent = c.transport(ctx, nil)
	}
	return client
}

func (c *Client) transport(ctx context.Context, query url.Values) http.RoundTripper {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &statusTransport{ctx: ctx, base: base, query: query}
}

// statusTransport binds requests to the caller's context and turns non-2xx
// answers into *APIError before either client library sees them.
type statusTransport struct {
	ctx   context.Context
	base  http.RoundTripper
	query url.Values
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if len(t.query) > 0 {
		q := req.URL.Query()
		for key, values := range t.query {
			q[key] = values
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %d response: %w", resp.StatusCode, err)
	}
	return nil, parseAPIError(resp.StatusCode, data)
}

func userFrom(u types.User) User {
	user := User{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
	}
	if !u.CreatedAt.IsZero() {
		createdAt := u.CreatedAt
		user.CreatedAt = &createdAt
	}
	return user
}
