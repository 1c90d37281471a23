// Package rest is a minimal HTTP+JSON transport for the task store.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

type Client struct {
	base string
	http *http.Client
	log  *log.Logger
}

// Query maps parameter names to values. An empty value emits the key
// alone, as a flag parameter.
type Query map[string]string

func New(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{},
		log:  log.WithPrefix("rest"),
	}
}

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) Get(ctx context.Context, path string, q Query, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, q, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, nil, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, nil, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// JoinPath joins path segments with exactly one separating slash, no
// matter how many leading or trailing slashes each segment carries.
func JoinPath(parts ...string) string {
	trimmed := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}

	return strings.Join(trimmed, "/")
}

func buildQuery(q Query) string {
	if len(q) == 0 {
		return ""
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))

	for _, k := range keys {
		if v := q[k]; v != "" {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		} else {
			pairs = append(pairs, url.QueryEscape(k))
		}
	}

	return "?" + strings.Join(pairs, "&")
}

func (c *Client) url(path string, q Query) string {
	base := c.base

	var host string

	if u, err := url.Parse(base); err == nil && u.Scheme != "" {
		host = u.Scheme + "://" + u.Host
		base = u.Path
	}

	joined := JoinPath(base, path)
	if host != "" {
		joined = host + "/" + joined
	}

	return joined + buildQuery(q)
}

func (c *Client) do(ctx context.Context, method, path string, body any, q Query, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	target := c.url(path, q)

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", "method", method, "url", target)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	ct := resp.Header.Get("Content-Type")

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if !isJSON(ct) {
			return &ProtocolError{ContentType: ct}
		}

		if out == nil || len(raw) == 0 {
			return nil
		}

		if err := json.Unmarshal(raw, out); err != nil {
			return &ProtocolError{ContentType: ct, Cause: err}
		}

		return nil
	default:
		se := &StatusError{Status: resp.StatusCode}
		if isJSON(ct) && json.Valid(raw) {
			se.JSON = json.RawMessage(raw)
		} else {
			se.Raw = string(raw)
		}

		return se
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
