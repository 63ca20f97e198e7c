package shopapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/order-desk/internal/logging"
)

const DefaultTimeout = 15 * time.Second

type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client is the single entry point to the shop API. Every request carries
// the bearer token when one is configured and none is retried.
type Client struct {
	rc  *resty.Client
	log *logrus.Entry
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "order-desk/1.0"
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}

	return &Client{rc: rc, log: logging.WithModule("shopapi")}
}

func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

// do sends one request and decodes a 2xx JSON body into out when out is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, opts ...func(*resty.Request)) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).WithError(err).Warn("shop API unreachable")
		return &NetworkError{Method: method, Path: path, Err: err}
	}

	status := resp.StatusCode()
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   status,
		"duration": time.Since(start).String(),
	}).Debug("shop API call")

	if status < 200 || status > 299 {
		return &APIError{Method: method, Path: path, Status: status, Message: errorMessage(status, resp.Body())}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrInvalidResponse, err)
	}
	return nil
}
