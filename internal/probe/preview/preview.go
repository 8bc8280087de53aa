// Package preview checks public usernames against the t.me web preview
// before the automation account spends a join on them.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/set-night/groupbuyer/internal/link"
	"github.com/set-night/groupbuyer/internal/probe"
)

const DefaultBaseURL = "https://t.me"

type config struct {
	baseURL       string
	timeout       time.Duration
	retryCount    int
	retryWaitTime time.Duration
}

type Option func(c *config)

func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

func WithRetryCount(count int) Option {
	return func(c *config) {
		c.retryCount = count
	}
}

// Page is what the preview says about a username.
type Page struct {
	Exists bool
	Title  string
	Extra  string
}

type Checker struct {
	client *resty.Client
}

func NewChecker(opts ...Option) *Checker {
	cfg := &config{
		baseURL:       DefaultBaseURL,
		timeout:       5 * time.Second,
		retryCount:    2,
		retryWaitTime: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := resty.New().
		SetBaseURL(cfg.baseURL).
		SetTimeout(cfg.timeout).
		SetRetryCount(cfg.retryCount).
		SetRetryWaitTime(cfg.retryWaitTime).
		AddRetryCondition(func(_ *resty.Response, err error) bool {
			var netErr net.Error
			return errors.As(err, &netErr) && netErr.Timeout()
		})

	return &Checker{client: client}
}

func (c *Checker) Lookup(ctx context.Context, username string) (Page, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		Get("/{username}")
	if err != nil {
		return Page{}, fmt.Errorf("fetch preview: %w", err)
	}
	if resp.IsError() {
		return Page{}, fmt.Errorf("fetch preview: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return Page{}, fmt.Errorf("parse preview: %w", err)
	}

	title := strings.TrimSpace(doc.Find(".tgme_page_title").First().Text())
	return Page{
		Exists: title != "",
		Title:  title,
		Extra:  strings.TrimSpace(doc.Find(".tgme_page_extra").First().Text()),
	}, nil
}

// Guard short-circuits joins of public usernames the preview reports as
// missing. Every other call goes straight to the wrapped probe.
type Guard struct {
	probe.Probe
	checker *Checker
}

func NewGuard(p probe.Probe, c *Checker) *Guard {
	return &Guard{Probe: p, checker: c}
}

func (g *Guard) Join(ctx context.Context, l link.Link) (probe.Joined, error) {
	if l.Kind == link.KindUsername {
		page, err := g.checker.Lookup(ctx, l.Username)
		switch {
		case err != nil:
			slog.Debug("preview lookup failed", "error", err, "username", l.Username)
		case !page.Exists:
			return probe.Joined{}, &probe.JoinError{Kind: probe.JoinUsernameNotFound}
		}
	}
	return g.Probe.Join(ctx, l)
}
