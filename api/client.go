package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	models "shopping-cart/model"
)

// DefaultBaseURL is where the development backend listens.
const DefaultBaseURL = "http://localhost:3000"

// Client talks to the cart REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

type Option func(*Client)

// WithHTTPClient replaces the traced default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		log:     discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchInventory sends GET /inventory
func (c *Client) FetchInventory(ctx context.Context) ([]models.InventoryItem, error) {
	out := []models.InventoryItem{}
	if err := c.do(ctx, "fetch inventory", http.MethodGet, "/inventory", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCart sends GET /cart
func (c *Client) FetchCart(ctx context.Context) ([]models.CartItem, error) {
	out := []models.CartItem{}
	if err := c.do(ctx, "fetch cart", http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart sends POST /cart
// body: { "id": 1, "content": "...", "amount": 2 }
func (c *Client) AddToCart(ctx context.Context, item models.CartItem) (models.CartItem, error) {
	var out models.CartItem
	err := c.do(ctx, "add to cart", http.MethodPost, "/cart", item, &out)
	return out, err
}

// UpdateCartAmount sends PATCH /cart/{id}
// body: { "amount": 5 }
func (c *Client) UpdateCartAmount(ctx context.Context, id int64, amount int) (models.CartItem, error) {
	body := struct {
		Amount int `json:"amount"`
	}{Amount: amount}

	var out models.CartItem
	err := c.do(ctx, "update cart", http.MethodPatch, cartPath(id), body, &out)
	return out, err
}

// RemoveFromCart sends DELETE /cart/{id}
func (c *Client) RemoveFromCart(ctx context.Context, id int64) (models.Deletion, error) {
	out := models.Deletion{}
	if err := c.do(ctx, "remove from cart", http.MethodDelete, cartPath(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Checkout reads the cart and deletes every line concurrently. It waits for
// all deletions and returns the first error; deletions that succeeded are
// not undone.
func (c *Client) Checkout(ctx context.Context) ([]models.Deletion, error) {
	cart, err := c.FetchCart(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "checkout")
	}

	results := make([]models.Deletion, len(cart))
	var g errgroup.Group
	for i, item := range cart {
		i, id := i, item.ID
		g.Go(func() error {
			res, err := c.RemoveFromCart(ctx, id)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "checkout")
	}
	return results, nil
}

func cartPath(id int64) string {
	return "/cart/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	url := c.baseURL + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "%s: encode body", op)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &NetworkError{Op: op, URL: url, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.New().String()
	req.Header.Set("X-Request-ID", reqID)

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": reqID,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return &NetworkError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()
	log.WithField("status", resp.StatusCode).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &NetworkError{Op: op, URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: op, URL: url, Err: err}
	}
	return nil
}
