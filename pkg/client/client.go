// AngelaMos | 2026
// client.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/forms-backend/internal/auth"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/responses"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      Store
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithStore replaces the in-memory session store.
func WithStore(store Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the stored session, or ErrNoSession.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	return c.store.Load(ctx)
}

// Login exchanges credentials for a session and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp auth.LoginResponse
	err := c.do(ctx, nil, http.MethodPost, "/api/auth/login", auth.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := &Session{Token: resp.Token, User: resp.User}
	if err := c.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Register creates an account. Pass an admin session to create admins;
// session may be nil otherwise.
func (c *Client) Register(
	ctx context.Context,
	session *Session,
	req auth.RegisterRequest,
) (*auth.RegisterResponse, error) {
	var resp auth.RegisterResponse
	if err := c.do(ctx, session, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the server and then forgets the stored session. The stored
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context, session *Session) error {
	callErr := c.do(ctx, session, http.MethodPost, "/api/auth/logout", nil, nil)
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	return callErr
}

func (c *Client) Me(ctx context.Context, session *Session) (*auth.UserResponse, error) {
	var resp auth.UserResponse
	if err := c.do(ctx, session, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListUsers(
	ctx context.Context,
	session *Session,
) ([]user.UserResponse, error) {
	var resp []user.UserResponse
	if err := c.do(ctx, session, http.MethodGet, "/api/auth/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateUser(
	ctx context.Context,
	session *Session,
	id string,
	req user.UpdateUserRequest,
) (*user.UserResponse, error) {
	var resp user.UpdateUserResponse
	if err := c.do(ctx, session, http.MethodPut, "/api/auth/users/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, session *Session, id string) error {
	return c.do(ctx, session, http.MethodDelete, "/api/auth/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListForms(
	ctx context.Context,
	session *Session,
) ([]form.FormResponse, error) {
	var resp []form.FormResponse
	if err := c.do(ctx, session, http.MethodGet, "/api/forms", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetForm(
	ctx context.Context,
	session *Session,
	id string,
) (*form.FormResponse, error) {
	var resp form.FormResponse
	if err := c.do(ctx, session, http.MethodGet, "/api/forms/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateForm(
	ctx context.Context,
	session *Session,
	req form.CreateFormRequest,
) (*form.FormResponse, error) {
	var resp form.FormResponse
	if err := c.do(ctx, session, http.MethodPost, "/api/forms", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateForm(
	ctx context.Context,
	session *Session,
	id string,
	req form.UpdateFormRequest,
) (*form.FormResponse, error) {
	var resp form.FormResponse
	if err := c.do(ctx, session, http.MethodPut, "/api/forms/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteForm(ctx context.Context, session *Session, id string) error {
	return c.do(ctx, session, http.MethodDelete, "/api/forms/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Submit(
	ctx context.Context,
	session *Session,
	formID string,
	answers submission.Responses,
) (*submission.SubmissionResponse, error) {
	var resp submission.SubmissionResponse
	err := c.do(ctx, session, http.MethodPost, "/api/submissions", submission.CreateSubmissionRequest{
		FormID:    formID,
		Responses: answers,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FormSubmissions(
	ctx context.Context,
	session *Session,
	formID string,
) ([]submission.PopulatedSubmission, error) {
	var resp []submission.PopulatedSubmission
	path := "/api/submissions/form/" + url.PathEscape(formID)
	if err := c.do(ctx, session, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Submitter(
	ctx context.Context,
	session *Session,
	userID string,
) (*submission.SubmitterResponse, error) {
	var resp submission.SubmitterResponse
	path := "/api/submissions/user/" + url.PathEscape(userID)
	if err := c.do(ctx, session, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Responses fetches the aggregated, label-keyed rows of a form.
func (c *Client) Responses(
	ctx context.Context,
	session *Session,
	formID string,
) ([]responses.Row, error) {
	var resp []responses.Row
	path := "/api/forms/" + url.PathEscape(formID) + "/responses"
	if err := c.do(ctx, session, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// newRequest builds a request for path. A non-nil session adds its bearer
// token.
func (c *Client) newRequest(
	ctx context.Context,
	session *Session,
	method, path string,
	body any,
) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil && session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	return req, nil
}

func (c *Client) do(
	ctx context.Context,
	session *Session,
	method, path string,
	body, out any,
) error {
	req, err := c.newRequest(ctx, session, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload core.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Message
			apiErr.Code = payload.Code
		}
		return apiErr
	}

	if out == nil {
		//nolint:errcheck // drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}
