package front

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the backend API. The frontend never touches the stores
// directly; everything goes over HTTP with the session's bearer token.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// APIError is a non-2xx response, carrying the backend's message body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status=%d message=%q", e.Status, e.Message)
}

// StatusOf returns the HTTP status of an API error, or 0 for transport
// failures.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Wire shapes. These mirror the API's JSON, deliberately independent of the
// backend's internal types.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Order struct {
	ID          int     `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	UserID      int     `json:"user_id"`
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type OrderPayload struct {
	ProductName *string  `json:"product_name,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

type UserPayload struct {
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (c *Client) Register(ctx context.Context, username, password, role string) error {
	body := map[string]string{"username": username, "password": password}
	if role != "" {
		body["role"] = role
	}
	return c.do(ctx, http.MethodPost, "/register", "", body, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, "/products", "", nil, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id int) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), "", nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, token, name string, price float64) error {
	return c.do(ctx, http.MethodPost, "/products", token, map[string]any{
		"name":  name,
		"price": price,
	}, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int, name string, price float64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), token, map[string]any{
		"name":  name,
		"price": price,
	}, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), token, nil, nil)
}

func (c *Client) Orders(ctx context.Context, token string) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/orders", token, nil, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, token string, id int) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), token, nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, token string, p OrderPayload) error {
	return c.do(ctx, http.MethodPost, "/orders", token, p, nil)
}

func (c *Client) UpdateOrder(ctx context.Context, token string, id int, p OrderPayload) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), token, p, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), token, nil, nil)
}

func (c *Client) Users(ctx context.Context, token string) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users", token, nil, &out)
	return out, err
}

func (c *Client) User(ctx context.Context, token string, id int) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), token, nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int, p UserPayload) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), token, p, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
