package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tour-analytics/internal/models"
	"tour-analytics/internal/observability"
)

const (
	toursPath        = "/tours"
	contactsPath     = "/contacts/all"
	touristsPath     = "/users/all-tourists"
	applicationsPath = "/applications"

	maxErrorBody = 4096
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: upstream returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client reads the agency's collections over its REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	logger     *slog.Logger
	now        func() time.Time
}

func NewClient(baseURL string, timeout time.Duration, session Session, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *Client) Tours(ctx context.Context) ([]models.Tour, error) {
	return fetchList[models.Tour](ctx, c, toursPath)
}

func (c *Client) Contacts(ctx context.Context) ([]models.Contact, error) {
	return fetchList[models.Contact](ctx, c, contactsPath)
}

func (c *Client) Tourists(ctx context.Context) ([]models.Tourist, error) {
	return fetchList[models.Tourist](ctx, c, touristsPath)
}

func (c *Client) Applications(ctx context.Context) ([]models.Application, error) {
	return fetchList[models.Application](ctx, c, applicationsPath)
}

func fetchList[T any](ctx context.Context, c *Client, path string) (items []T, err error) {
	ctx, span := observability.StartSpan(ctx, "upstream GET "+path)
	span.SetTag("upstream.path", path)
	principal := c.session.Principal()
	if principal != "" {
		span.SetTag("upstream.user_id", principal)
	}
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.Finish()
		c.logger.Debug("upstream request finished",
			append(span.LogArgs(), "path", path, "items", len(items), "user_id", principal)...)
	}()

	if c.session.Expired(c.now()) {
		return nil, fmt.Errorf("%s: %w", path, ErrSessionExpired)
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if auth := c.session.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if requestID := observability.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	span.SetTag("http.status_code", fmt.Sprint(resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
