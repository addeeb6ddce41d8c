// Package api is the REST client for the storefront backend.
//
// Every call takes a context, sends an X-Request-ID header, and reports
// failures as either *Error (the backend answered with a non-2xx status)
// or an error wrapping ErrUnavailable (the backend could not be reached).
// Results are handed back to the caller, which feeds them into the state
// store as ordinary actions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/roach88/shopfront/internal/catalog"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// Client talks to the backend at a fixed base URL.
//
// Thread-safety: Client is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	ids     IDGenerator
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithIDGenerator sets the X-Request-ID source. Defaults to UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Client) {
		c.ids = g
	}
}

// WithRateLimit throttles outgoing requests to rps per second with the given
// burst. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListImage is the placeholder image for a product in a listing.
func ListImage(id int64) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/400/400", id)
}

// DetailImage is the placeholder image for a product detail page.
func DetailImage(id int64) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/600/600", id)
}

// Products fetches the catalog, optionally narrowed to category on the server.
func (c *Client) Products(ctx context.Context, category string) ([]catalog.Product, error) {
	path := "/products"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}

	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, path, "", nil, &products, "Failed to fetch products"); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Image == "" {
			products[i].Image = ListImage(products[i].ID)
		}
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// Product fetches one product.
func (c *Client) Product(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	fallback := fmt.Sprintf("Failed to fetch product with id %d", id)
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), "", nil, &p, fallback); err != nil {
		return catalog.Product{}, err
	}
	if p.Image == "" {
		p.Image = DetailImage(p.ID)
	}
	return p, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, r Registration) (Registered, error) {
	var out Registered
	err := c.do(ctx, http.MethodPost, "/add_user", "", r, &out, "Registration failed")
	return out, err
}

// Login exchanges credentials for a user and session token.
func (c *Client) Login(ctx context.Context, cr Credentials) (LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", "", cr, &out, "Login failed"); err != nil {
		return LoginResult{}, err
	}
	if out.AccessToken == "" {
		return LoginResult{}, &Error{Status: http.StatusOK, Code: ErrCodeDecode, Message: "Login failed"}
	}
	return out, nil
}

// PlaceOrder submits an order on behalf of the token holder.
func (c *Client) PlaceOrder(ctx context.Context, token string, req OrderRequest) (OrderReceipt, error) {
	var out OrderReceipt
	err := c.do(ctx, http.MethodPost, "/place_order", token, req, &out, "Failed to place order")
	return out, err
}

// Orders fetches the order history of the token holder.
func (c *Client) Orders(ctx context.Context, token string) ([]catalog.Order, error) {
	var out []catalog.Order
	if err := c.do(ctx, http.MethodGet, "/orders", token, nil, &out, "Failed to fetch order history"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []catalog.Order{}
	}
	return out, nil
}

// CancelOrder cancels a pending order and returns the backend's message.
func (c *Client) CancelOrder(ctx context.Context, token string, orderID int64) (string, error) {
	var out messageBody
	path := "/orders/" + strconv.FormatInt(orderID, 10) + "/cancel"
	err := c.do(ctx, http.MethodPost, path, token, nil, &out, "Failed to cancel order")
	return out.Message, err
}

// ForgotPassword requests a reset link for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageBody
	err := c.do(ctx, http.MethodPost, "/forgot-password", "", forgotPasswordBody{Email: email}, &out, "Failed to send reset email")
	return out.Message, err
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var out messageBody
	body := resetPasswordBody{Token: token, NewPassword: newPassword}
	err := c.do(ctx, http.MethodPost, "/reset-password", "", body, &out, "Failed to reset password")
	return out.Message, err
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any, fallback string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := c.ids.Generate()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp, requestID, fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &Error{Status: resp.StatusCode, Code: ErrCodeDecode, Message: fallback, RequestID: requestID}
	}
	return nil
}

func (c *Client) responseError(resp *http.Response, requestID, fallback string) error {
	msg := fallback
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			msg = eb.Error
		}
	}
	return &Error{
		Status:    resp.StatusCode,
		Code:      codeForStatus(resp.StatusCode),
		Message:   msg,
		RequestID: requestID,
	}
}
