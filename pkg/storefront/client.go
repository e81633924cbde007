// Package storefront is a Go client for the shop API together with the
// client-side cart and session stores a storefront needs.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client talks to the /api/v1 endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *SessionStore
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Session receives the tokens from Login and Register. Optional.
	Session *SessionStore
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	session := cfg.Session
	if session == nil {
		session = &SessionStore{}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session: session,
	}
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Pagination *Pagination `json:"pagination"`
	} `json:"meta"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type OrderRequest struct {
	Items        []OrderLine      `json:"items"`
	ShippingInfo ShippingInfo     `json:"shipping_info"`
	ShippingCost *decimal.Decimal `json:"shipping_cost,omitempty"`
}

// ProductQuery mirrors the GET /products filters. Zero values are omitted.
type ProductQuery struct {
	Search     string
	CategoryID uint
	BrandID    uint
	Featured   *bool
	InStock    *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
	Page       int
	Limit      int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != 0 {
		v.Set("category_id", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	if q.BrandID != 0 {
		v.Set("brand_id", strconv.FormatUint(uint64(q.BrandID), 10))
	}
	if q.Featured != nil {
		v.Set("featured", strconv.FormatBool(*q.Featured))
	}
	if q.InStock != nil {
		v.Set("in_stock", strconv.FormatBool(*q.InStock))
	}
	if q.MinPrice != nil {
		v.Set("min_price", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		v.Set("max_price", q.MaxPrice.String())
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type authResult struct {
	User         *User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}

// do sends one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return &env, nil
}

func (c *Client) storeSession(result *authResult) (*User, error) {
	if err := c.session.Set(Session{
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	}); err != nil {
		return nil, err
	}
	return result.User, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var result authResult
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &result); err != nil {
		return nil, err
	}
	return c.storeSession(&result)
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var result authResult
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return c.storeSession(&result)
}

// Logout drops the local session.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) ListProducts(ctx context.Context, query ProductQuery) ([]Product, *Pagination, error) {
	path := "/api/v1/products"
	if encoded := query.values().Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []Product
	env, err := c.do(ctx, http.MethodGet, path, nil, &products)
	if err != nil {
		return nil, nil, err
	}

	var pagination *Pagination
	if env.Meta != nil {
		pagination = env.Meta.Pagination
	}
	return products, pagination, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var result struct {
		Product *Product `json:"product"`
	}
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return result.Product, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var result struct {
		Order *Order `json:"order"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/orders", req, &result); err != nil {
		return nil, err
	}
	return result.Order, nil
}

// Checkout places an order for everything in the cart and empties it on success.
func (c *Client) Checkout(ctx context.Context, cart *CartStore, shipping ShippingInfo) (*Order, error) {
	order, err := c.PlaceOrder(ctx, cart.OrderRequest(shipping))
	if err != nil {
		return nil, err
	}
	if err := cart.Clear(); err != nil {
		return order, err
	}
	return order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var result struct {
		Orders []Order `json:"orders"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/orders/my", nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

func (c *Client) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var result struct {
		Order *Order `json:"order"`
	}
	path := "/api/v1/orders/number/" + url.PathEscape(orderNumber)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Order, nil
}
