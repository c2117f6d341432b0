// Package api talks to the remote item collection over REST:
// GET/POST on <base>/<resource>/ and PUT/DELETE on <base>/<resource>/<id>/.
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
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/idilsaglam/items/internal/model"
)

const (
	// DefaultResource is the collection path segment.
	DefaultResource = "items"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	defaultUserAgent = "items-cli"

	// error bodies are kept for diagnostics only
	maxErrorBody = 4 << 10
)

// Client implements list/create/update/delete against one collection.
type Client struct {
	base          *url.URL
	resource      string
	trailingSlash bool
	timeout       time.Duration
	userAgent     string
	tokens        oauth2.TokenSource
	hc            *http.Client
	log           *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithResource sets the collection path segment (default "items").
func WithResource(r string) Option {
	return func(c *Client) { c.resource = strings.Trim(r, "/") }
}

// WithTrailingSlash controls whether paths end in "/" (Django REST wants it).
func WithTrailingSlash(on bool) Option { return func(c *Client) { c.trailingSlash = on } }

func WithHTTPClient(hc *http.Client) Option        { return func(c *Client) { c.hc = hc } }
func WithTimeout(d time.Duration) Option           { return func(c *Client) { c.timeout = d } }
func WithUserAgent(ua string) Option               { return func(c *Client) { c.userAgent = ua } }
func WithLogger(l *slog.Logger) Option             { return func(c *Client) { c.log = l } }
func WithTokenSource(ts oauth2.TokenSource) Option { return func(c *Client) { c.tokens = ts } }

// New returns a Client rooted at baseURL, e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		base:          u,
		resource:      DefaultResource,
		trailingSlash: true,
		timeout:       DefaultTimeout,
		userAgent:     defaultUserAgent,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	if c.resource == "" {
		return nil, fmt.Errorf("empty resource")
	}

	base := c.hc
	if base == nil {
		base = &http.Client{}
	}
	hc := *base
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	if c.tokens != nil {
		rt := hc.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		hc.Transport = &oauth2.Transport{Source: c.tokens, Base: rt}
	}
	c.hc = &hc
	return c, nil
}

// URL returns the collection URL, or the item URL when id is non-empty.
// The id is always a single escaped path segment.
func (c *Client) URL(id model.ID) string {
	u := *c.base
	p := u.Path + "/" + c.resource
	raw := u.EscapedPath()
	for _, seg := range strings.Split(c.resource, "/") {
		raw += "/" + url.PathEscape(seg)
	}
	if id != "" {
		p += "/" + string(id)
		raw += "/" + escapeSegment(string(id))
	}
	if c.trailingSlash {
		p += "/"
		raw += "/"
	}
	u.Path, u.RawPath = p, raw
	return u.String()
}

// escapeSegment escapes s for use as one path segment; "." and ".." are
// encoded too so they cannot climb out of the collection.
func escapeSegment(s string) string {
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return url.PathEscape(s)
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, "list", http.MethodGet, c.URL(""), nil, &items); err != nil {
		return nil, err
	}
	for i, it := range items {
		if it.ID == "" {
			return nil, &Error{Op: "list", Method: http.MethodGet, URL: c.URL(""),
				Err: fmt.Errorf("item %d has no id", i)}
		}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts a new item and returns the server's representation.
func (c *Client) Create(ctx context.Context, f model.Fields) (model.Item, error) {
	var it model.Item
	err := c.do(ctx, "create", http.MethodPost, c.URL(""), f, &it)
	return it, err
}

// Update replaces the editable fields of item id.
func (c *Client) Update(ctx context.Context, id model.ID, f model.Fields) (model.Item, error) {
	var it model.Item
	err := c.do(ctx, "update", http.MethodPut, c.URL(id), f, &it)
	return it, err
}

// Delete removes item id.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	return c.do(ctx, "delete", http.MethodDelete, c.URL(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	fail := func(status int, respBody string, err error) error {
		e := &Error{Op: op, Method: method, URL: target, StatusCode: status, Body: respBody, Err: err}
		c.log.Warn("api call failed", "op", op, "method", method, "url", target, "status", status, "err", err)
		return e
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("json marshal: %w", err))
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return fail(0, "", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call", "op", op, "method", method, "url", target,
		"status", resp.StatusCode, "request_id", reqID, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, strings.TrimSpace(string(b)), fmt.Errorf("unexpected status %s", resp.Status))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("read body: %w", err))
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("json unmarshal: %w", err))
	}
	return nil
}
