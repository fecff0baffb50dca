// Package api is a typed HTTP client for the rehearsal server.
package api

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

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
)

// ErrUnavailable is returned when the server cannot be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// APIError carries the status and message of a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type AuthResult struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type ProfileUpdate struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type ProfileImageUpload struct {
	UploadURL       string `json:"uploadUrl"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// HTTPClient exposes the underlying client for uploads to presigned URLs.
func (c *Client) HTTPClient() *http.Client { return c.http }

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var u models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.PublicUser, error) {
	var u models.PublicUser
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) PresignProfileImage(ctx context.Context) (*ProfileImageUpload, error) {
	var up ProfileImageUpload
	if err := c.do(ctx, http.MethodPost, "/api/auth/profile/image", nil, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

func (c *Client) CreateBand(ctx context.Context, name string) (*models.Band, error) {
	var b models.Band
	if err := c.do(ctx, http.MethodPost, "/api/bands", map[string]string{"name": name}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) ListMembers(ctx context.Context, bandID string) ([]models.Member, error) {
	var members []models.Member
	if err := c.do(ctx, http.MethodGet, "/api/bands/"+url.PathEscape(bandID)+"/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) AddMember(ctx context.Context, bandID, email string, role models.Role) (*models.BandMember, error) {
	var m models.BandMember
	body := map[string]string{"email": email, "role": string(role)}
	if err := c.do(ctx, http.MethodPost, "/api/bands/"+url.PathEscape(bandID)+"/members", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Health returns nil when the server answers its health probe.
func (c *Client) Health(ctx context.Context) error {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return err
	}
	if res.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", res.Status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var msg struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &msg) == nil {
		apiErr.Message = msg.Message
	}
	return apiErr
}
