// Package client talks to the upstream Pasale REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pasale-dashboard/internal/models"
	"pasale-dashboard/internal/observability"
	"pasale-dashboard/internal/session"
)

const (
	pathLogin           = "/business/login"
	pathRegister        = "/business/register"
	pathRevenue         = "/analytics/revenue"
	pathProducts        = "/analytics/products"
	pathForecast        = "/analytics/forecast"
	pathSeasonal        = "/analytics/seasonal"
	pathRecommendations = "/analytics/recommendations"
	pathDashboardStats  = "/analytics/dashboard-stats"

	maxErrorBody = 4 << 10
)

var (
	// ErrSessionInvalid is returned on any 401. The session has already
	// been cleared when it is returned.
	ErrSessionInvalid = errors.New("session invalid")

	// ErrAuthenticationFailed is returned on 403/422 from the AI endpoints.
	ErrAuthenticationFailed = errors.New("authentication failed - please login again")
)

// StatusError is a non-2xx response that is not an auth failure.
type StatusError struct {
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Path, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	state   *session.AppState
	logger  *slog.Logger
}

func New(baseURL string, timeout time.Duration, state *session.AppState, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		state:   state,
		logger:  logger,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// ai marks the forecasting endpoints where 403/422 mean "log in again".
	ai bool
}

func (c *Client) do(ctx context.Context, r request, out any) (err error) {
	ctx, span := observability.StartSpan(ctx, "upstream "+r.method+" "+r.path)
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.Finish(c.logger)
	}()

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", r.path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.state.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	span.SetTag("http.status_code", strconv.Itoa(resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("upstream rejected session, signing out", "path", r.path)
		if err := c.state.SignOut(); err != nil {
			c.logger.Error("clear session", "error", err)
		}
		return ErrSessionInvalid
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		c.logger.Error("upstream request failed",
			"path", r.path,
			"status", resp.StatusCode,
			"detail", detail,
		)
		if r.ai && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnprocessableEntity) {
			return ErrAuthenticationFailed
		}
		return &StatusError{Path: r.path, StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}

func readDetail(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			return s
		}
		enc, _ := json.Marshal(body.Detail)
		return string(enc)
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) Login(ctx context.Context, in models.LoginRequest) (*models.TokenResponse, error) {
	var out models.TokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: pathLogin, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in models.RegisterRequest) (*models.TokenResponse, error) {
	body := map[string]string{
		"email":          in.Email,
		"password":       in.Password,
		"name":           in.Name,
		"citizenship_no": in.CitizenshipNo,
		"contact_no":     in.ContactNo,
	}
	var out models.TokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: pathRegister, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Revenue(ctx context.Context, f models.DateFilter) (*models.RevenueResponse, error) {
	q := url.Values{}
	q.Set("start_date", f.StartDate)
	q.Set("end_date", f.EndDate)
	q.Set("period", string(f.Period))

	var out models.RevenueResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: pathRevenue, query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context, f models.DateFilter, categories ...string) (*models.ProductsResponse, error) {
	q := url.Values{}
	q.Set("start_date", f.StartDate)
	q.Set("end_date", f.EndDate)
	for _, cat := range categories {
		q.Add("categories", cat)
	}

	var out models.ProductsResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: pathProducts, query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Forecast(ctx context.Context, weeks int) (*models.ForecastResponse, error) {
	q := url.Values{}
	q.Set("weeks", strconv.Itoa(weeks))

	var out models.ForecastResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: pathForecast, query: q, ai: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Seasonal(ctx context.Context) (*models.SeasonalResponse, error) {
	var out models.SeasonalResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: pathSeasonal, ai: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Recommendations(ctx context.Context) (*models.RecommendationsResponse, error) {
	var out models.RecommendationsResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: pathRecommendations, ai: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.do(ctx, request{method: http.MethodGet, path: pathDashboardStats}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
