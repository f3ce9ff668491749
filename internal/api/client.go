package api

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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hvillar/gastos/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Gastos/1.0"
)

// Client talks to the expense server REST API. It implements
// domain.AccountRepository, domain.ExpenseRepository,
// domain.SyncRepository, domain.RuleRepository,
// domain.ConflictRepository, and domain.SummaryRepository.
type Client struct {
	baseURL    string
	token      string
	clientID   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new expense server API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		clientID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetToken updates the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// statusError carries a non-2xx response for callers that map
// specific codes to domain errors.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == code
}

// doRequest performs an authenticated HTTP request. A non-nil payload
// is sent as a JSON body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Client-Identifier", c.clientID)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("api request error", "status", resp.StatusCode, "body", string(body))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	return body, nil
}

// WaitReady polls the health endpoint until the server reports ready.
// It probes at most attempts times, waiting interval between probes,
// and returns the last probe error once the budget is spent. Auth
// failures end the probe immediately.
func (c *Client) WaitReady(ctx context.Context, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.checkHealth(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, domain.ErrAuthFailed) {
			return lastErr
		}
		c.logger.Debug("server not ready", "attempt", attempt+1, "error", lastErr)
	}

	return fmt.Errorf("server not ready after %d attempts: %w", attempts, lastErr)
}

func (c *Client) checkHealth(ctx context.Context) error {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, nil)
	if err != nil {
		if isStatus(err, http.StatusServiceUnavailable) {
			return domain.ErrNotReady
		}
		return err
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}
	if health.Status != "ok" {
		return domain.ErrNotReady
	}
	return nil
}

// GetAccounts returns all connected mail accounts
func (c *Client) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/accounts", nil, nil)
	if err != nil {
		return nil, err
	}

	var dtos []accountDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(dtos))
	for _, d := range dtos {
		accounts = append(accounts, d.toDomain())
	}
	return accounts, nil
}

// GetExpenses returns all expenses for a month key ("2025-07")
func (c *Client) GetExpenses(ctx context.Context, month string) ([]domain.Expense, error) {
	query := url.Values{}
	query.Set("month", month)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/expenses", query, nil)
	if err != nil {
		return nil, err
	}

	var dtos []expenseDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse expenses: %w", err)
	}

	expenses := make([]domain.Expense, 0, len(dtos))
	for _, d := range dtos {
		expenses = append(expenses, d.toDomain())
	}
	return expenses, nil
}

// SetCategory assigns a category to one expense
func (c *Client) SetCategory(ctx context.Context, expenseID, category string) error {
	path := fmt.Sprintf("/api/expenses/%s/category", url.PathEscape(expenseID))
	payload := map[string]string{"category": category}

	_, err := c.doRequest(ctx, http.MethodPut, path, nil, payload)
	if isStatus(err, http.StatusNotFound) {
		return domain.ErrExpenseNotFound
	}
	return err
}

// SetStatus confirms or discards one expense
func (c *Client) SetStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus) error {
	path := fmt.Sprintf("/api/expenses/%s/status", url.PathEscape(expenseID))
	payload := map[string]string{"status": string(status)}

	_, err := c.doRequest(ctx, http.MethodPut, path, nil, payload)
	if isStatus(err, http.StatusNotFound) {
		return domain.ErrExpenseNotFound
	}
	return err
}

// CurrentSession returns the sync session the server reports right now.
// A server that never ran a sync answers 404; that maps to a zero
// session, not an error.
func (c *Client) CurrentSession(ctx context.Context) (domain.SyncSession, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/sync/current", nil, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return domain.SyncSession{}, nil
		}
		return domain.SyncSession{}, err
	}

	var dto sessionDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.SyncSession{}, fmt.Errorf("failed to parse session: %w", err)
	}
	return dto.toDomain(), nil
}

// StartSession asks the server to begin a new sync run. The request
// carries a client-generated id so a retried POST cannot start two runs.
func (c *Client) StartSession(ctx context.Context) (domain.SyncSession, error) {
	payload := map[string]string{"client_request_id": uuid.NewString()}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/sync", nil, payload)
	if err != nil {
		return domain.SyncSession{}, err
	}

	var dto sessionDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.SyncSession{}, fmt.Errorf("failed to parse session: %w", err)
	}
	return dto.toDomain(), nil
}

// GetRules returns all categorization rules
func (c *Client) GetRules(ctx context.Context) ([]domain.Rule, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/rules", nil, nil)
	if err != nil {
		return nil, err
	}

	var dtos []ruleDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := make([]domain.Rule, 0, len(dtos))
	for _, d := range dtos {
		rules = append(rules, d.toDomain())
	}
	return rules, nil
}

// CreateRule stores a new categorization rule and returns it with the
// server-assigned id
func (c *Client) CreateRule(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	payload := ruleDTO{
		Pattern:  rule.Pattern,
		Match:    string(rule.Match),
		Category: rule.Category,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/rules", nil, payload)
	if err != nil {
		return domain.Rule{}, err
	}

	var dto ruleDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.Rule{}, fmt.Errorf("failed to parse rule: %w", err)
	}
	return dto.toDomain(), nil
}

// DeleteRule removes a categorization rule
func (c *Client) DeleteRule(ctx context.Context, ruleID string) error {
	path := fmt.Sprintf("/api/rules/%s", url.PathEscape(ruleID))
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// GetConflicts returns all unresolved duplicate candidates
func (c *Client) GetConflicts(ctx context.Context) ([]domain.Conflict, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/conflicts", nil, nil)
	if err != nil {
		return nil, err
	}

	var dtos []conflictDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse conflicts: %w", err)
	}

	conflicts := make([]domain.Conflict, 0, len(dtos))
	for _, d := range dtos {
		conflicts = append(conflicts, d.toDomain())
	}
	return conflicts, nil
}

// Resolve records the user's decision for a duplicate pair
func (c *Client) Resolve(ctx context.Context, conflictID string, resolution domain.Resolution) error {
	path := fmt.Sprintf("/api/conflicts/%s/resolve", url.PathEscape(conflictID))
	payload := map[string]string{"resolution": string(resolution)}

	_, err := c.doRequest(ctx, http.MethodPost, path, nil, payload)
	return err
}

// GetMonthSummaries returns totals for the most recent n months, oldest first
func (c *Client) GetMonthSummaries(ctx context.Context, months int) ([]domain.MonthSummary, error) {
	query := url.Values{}
	query.Set("months", fmt.Sprintf("%d", months))

	body, err := c.doRequest(ctx, http.MethodGet, "/api/summary/months", query, nil)
	if err != nil {
		return nil, err
	}

	var dtos []monthSummaryDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse month summaries: %w", err)
	}

	summaries := make([]domain.MonthSummary, 0, len(dtos))
	for _, d := range dtos {
		summaries = append(summaries, d.toDomain())
	}
	return summaries, nil
}

// GetDailyTotals returns per-day totals for the most recent n weeks
func (c *Client) GetDailyTotals(ctx context.Context, weeks int) ([]domain.DayTotal, error) {
	query := url.Values{}
	query.Set("weeks", fmt.Sprintf("%d", weeks))

	body, err := c.doRequest(ctx, http.MethodGet, "/api/summary/heatmap", query, nil)
	if err != nil {
		return nil, err
	}

	var dtos []dayTotalDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse daily totals: %w", err)
	}

	days := make([]domain.DayTotal, 0, len(dtos))
	for _, d := range dtos {
		days = append(days, d.toDomain())
	}
	return days, nil
}
