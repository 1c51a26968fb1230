package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skecho/skecho-client/internal/logger"
	"github.com/skecho/skecho-client/internal/model"
)

var _ model.CommerceAPI = (*Client)(nil)

// Client is the HTTP JSON client for the commerce service. Every
// request carries a bearer token obtained from the token source; the
// injected http.Client owns timeouts. The client never retries.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  model.TokenSource
	logger  *logger.Logger
}

// NewClient creates a commerce API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, tokens model.TokenSource, l *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  l,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bearer token: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		c.logger.Debug("API client: request rejected",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.text())

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s %s: %w", method, path, model.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("%s %s: %w", method, path, model.ErrNotFound)
		default:
			return fmt.Errorf("%s %s: server returned %d: %s", method, path, resp.StatusCode, apiErr.text())
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}

	return nil
}

// FetchProfile returns the commerce service's view of the current
// user, including the buyer profile completion flag.
func (c *Client) FetchProfile(ctx context.Context) (model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// FetchSellerStatus returns whether the current user's seller profile
// is complete.
func (c *Client) FetchSellerStatus(ctx context.Context) (bool, error) {
	var res struct {
		IsComplete bool `json:"isComplete"`
	}
	if err := c.do(ctx, http.MethodGet, "/seller/profile-complete", nil, &res); err != nil {
		return false, err
	}
	return res.IsComplete, nil
}

// FetchCart returns the authoritative cart for the current user.
func (c *Client) FetchCart(ctx context.Context) (model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// AddCartItem adds a product to the cart. The server assigns the item
// id and snapshots the unit price.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) (model.CartItem, error) {
	req := struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	var item model.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart/items", req, &item); err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// UpdateCartItem sets the quantity of an existing cart item.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (model.CartItem, error) {
	req := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	var item model.CartItem
	if err := c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(itemID), req, &item); err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// RemoveCartItem deletes a cart item.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	var res struct {
		Message string `json:"message"`
	}
	return c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(itemID), nil, &res)
}

// FetchProducts lists available products.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var res struct {
		Products []model.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products", nil, &res); err != nil {
		return nil, err
	}
	return res.Products, nil
}

// FetchProduct returns a single product.
func (c *Client) FetchProduct(ctx context.Context, id string) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

// FetchSeller returns a seller profile with its custom-order pricing.
func (c *Client) FetchSeller(ctx context.Context, id string) (model.Seller, error) {
	var seller model.Seller
	if err := c.do(ctx, http.MethodGet, "/seller/"+url.PathEscape(id), nil, &seller); err != nil {
		return model.Seller{}, err
	}
	return seller, nil
}
