// Package remote is the typed REST+JSON client for the storefront backend.
// It translates transport and status failures into sentinel errors so the
// service layer can map them to domain errors exactly once. There is no
// retry and no per-call timeout: every failure is reported once and the
// caller decides what to roll back.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
)

// Client talks to the storefront backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client (tests, instrumented transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTracer injects a custom tracer. Defaults to the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New constructs a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: baseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("atelier/remote")
	}
	return c
}

// AuthResponse is the user record returned by register and login.
type AuthResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Avatar  string `json:"avatar,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Token   string `json:"token,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type productIDsResponse struct {
	ProductIDs []string `json:"productIds"`
}

type productIDRequest struct {
	ProductID string `json:"productId"`
}

type replaceBagRequest struct {
	ProductIDs []string `json:"productIds"`
}

// Register creates an account. A response without a stable id is a hard
// validation error: nothing downstream can key bag or favorites without it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.call(ctx, http.MethodPost, "/auth/register", registerRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("register response missing user id: %w", sentinel.ErrInvalidInput)
	}
	return &out, nil
}

// Login authenticates existing credentials. Same id contract as Register.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("login response missing user id: %w", sentinel.ErrInvalidInput)
	}
	return &out, nil
}

// Logout invalidates the session token. Callers treat failure as non-fatal.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.callAuthorized(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// GetBag returns the remote-authoritative product-id set of the user's bag.
func (c *Client) GetBag(ctx context.Context, userID string) ([]string, error) {
	var out productIDsResponse
	if err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/bag", nil, &out); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

// AddToBag records a product id in the remote bag and returns the updated set.
func (c *Client) AddToBag(ctx context.Context, userID, productID string) ([]string, error) {
	var out productIDsResponse
	if err := c.call(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/bag", productIDRequest{ProductID: productID}, &out); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

// RemoveFromBag deletes a product id from the remote bag and returns the updated set.
func (c *Client) RemoveFromBag(ctx context.Context, userID, productID string) ([]string, error) {
	var out productIDsResponse
	path := "/users/" + url.PathEscape(userID) + "/bag/" + url.PathEscape(productID)
	if err := c.call(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

// ReplaceBag overwrites the remote bag with exactly the given ids (full
// replace, not merge) and returns the set the server now holds.
func (c *Client) ReplaceBag(ctx context.Context, userID string, productIDs []string) ([]string, error) {
	var out productIDsResponse
	if err := c.call(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/bag", replaceBagRequest{ProductIDs: productIDs}, &out); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

// GetFavorites returns the remote favorite product ids.
func (c *Client) GetFavorites(ctx context.Context, userID string) ([]string, error) {
	var out productIDsResponse
	if err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/favorites", nil, &out); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

// AddFavorite records a favorite. The list is re-fetched separately.
func (c *Client) AddFavorite(ctx context.Context, userID, productID string) error {
	return c.call(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/favorites", productIDRequest{ProductID: productID}, nil)
}

// RemoveFavorite removes a favorite. The list is re-fetched separately.
func (c *Client) RemoveFavorite(ctx context.Context, userID, productID string) error {
	path := "/users/" + url.PathEscape(userID) + "/favorites/" + url.PathEscape(productID)
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}

// FetchProduct loads a single catalog record, used to hydrate bag display fields.
func (c *Client) FetchProduct(ctx context.Context, productID string) (*models.Product, error) {
	var out models.Product
	if err := c.call(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, reqBody, respBody any) error {
	return c.callAuthorized(ctx, method, path, "", reqBody, respBody)
}

// callAuthorized performs one HTTP round trip with a span per call.
func (c *Client) callAuthorized(ctx context.Context, method, path, token string, reqBody, respBody any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	err := c.do(ctx, method, path, token, reqBody, respBody)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "remote call failed",
				"method", method,
				"path", path,
				"status", resp.StatusCode,
			)
		}
		return statusError(resp.StatusCode, method, path)
	}

	if respBody != nil && len(data) > 0 {
		if err := json.Unmarshal(data, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// statusError maps HTTP status codes onto sentinel errors.
func statusError(status int, method, path string) error {
	var base error
	switch status {
	case http.StatusNotFound:
		base = sentinel.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		base = sentinel.ErrUnauthorized
	case http.StatusConflict:
		base = sentinel.ErrAlreadyUsed
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		base = sentinel.ErrInvalidInput
	default:
		base = sentinel.ErrRemote
	}
	return fmt.Errorf("%s %s: status %d: %w", method, path, status, base)
}
