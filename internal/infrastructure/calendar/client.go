// Package calendar reads jobs from the third-party trade calendar so they can
// be merged into the appointment feed.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/internal/infrastructure/oauth"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultJobMinutes = 60

// ErrNotConnected means the user has no usable calendar connection
var ErrNotConnected = errors.New("trade calendar is not connected")

// StatusError is a non-2xx answer from the calendar API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("calendar API returned %d: %s", e.StatusCode, e.Body)
}

// dayResponse mirrors the provider payload: teams own providers, providers own jobs
type dayResponse struct {
	Teams []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Providers []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Jobs []struct {
				ID              externalID `json:"id"`
				Title           string     `json:"title"`
				Description     string     `json:"description"`
				Address         string     `json:"address"`
				ClientName      string     `json:"client_name"`
				Status          string     `json:"status"`
				StartTime       time.Time  `json:"start_time"`
				DurationMinutes int        `json:"duration_minutes"`
			} `json:"jobs"`
		} `json:"providers"`
	} `json:"teams"`
}

// externalID accepts numeric and string ids
type externalID string

func (id *externalID) UnmarshalJSON(b []byte) error {
	*id = externalID(strings.Trim(string(b), `"`))
	return nil
}

type cachedToken struct {
	source oauth2.TokenSource
	stored string
}

// Client implements schedule.ExternalCalendar against the provider's REST API.
// Calls go through a circuit breaker shared by all users.
type Client struct {
	baseURL    string
	httpClient *http.Client
	provider   *oauth.Provider
	repo       integration.Repository
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger

	mu     sync.Mutex
	tokens map[uuid.UUID]*cachedToken
}

// NewClient creates a calendar client
func NewClient(cfg config.OAuthProviderConfig, provider *oauth.Provider, repo integration.Repository, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = 5
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		provider:   provider,
		repo:       repo,
		logger:     logger,
		tokens:     make(map[uuid.UUID]*cachedToken),
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "trade-calendar",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			// A rejected request for one user says nothing about provider health.
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("calendar circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// Available reports whether the user has a connected calendar
func (c *Client) Available(ctx context.Context, userID uuid.UUID) (bool, error) {
	if !c.provider.Enabled() || c.baseURL == "" {
		return false, nil
	}
	conn, err := c.repo.FindForUser(ctx, userID, integration.ProviderTradeCalendar)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return conn.IsUsable(), nil
}

// FetchDay returns the provider's jobs on day, flattened across teams and
// providers
func (c *Client) FetchDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]schedule.Entry, error) {
	token, err := c.token(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("date", day.Format(time.DateOnly))
	endpoint := c.baseURL + "/v1/schedule?" + q.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, endpoint, token)
	})
	if err != nil {
		return nil, err
	}

	var payload dayResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse calendar response: %w", err)
	}

	var entries []schedule.Entry
	for _, team := range payload.Teams {
		for _, p := range team.Providers {
			for _, j := range p.Jobs {
				minutes := j.DurationMinutes
				if minutes <= 0 {
					minutes = defaultJobMinutes
				}
				entries = append(entries, schedule.Entry{
					ID:           schedule.ExternalIDPrefix + string(j.ID),
					Source:       schedule.SourceThirdParty,
					Title:        j.Title,
					Description:  j.Description,
					Location:     j.Address,
					StartTime:    j.StartTime,
					EndTime:      j.StartTime.Add(time.Duration(minutes) * time.Minute),
					AssigneeName: p.Name,
					ClientName:   j.ClientName,
					Status:       j.Status,
				})
			}
		}
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, endpoint string, token *oauth2.Token) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read calendar response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(data)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return data, nil
}

// token returns a valid access token, refreshing and persisting it when the
// stored one has expired
func (c *Client) token(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	c.mu.Lock()
	cached, ok := c.tokens[userID]
	c.mu.Unlock()

	if !ok {
		conn, err := c.repo.FindForUser(ctx, userID, integration.ProviderTradeCalendar)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotConnected
		}
		if err != nil {
			return nil, err
		}
		if !conn.IsUsable() {
			return nil, ErrNotConnected
		}
		fresh := &cachedToken{
			// Refreshes outlive the request that triggered them.
			source: c.provider.TokenSource(context.WithoutCancel(ctx), conn.Tokens()),
			stored: conn.AccessToken,
		}
		c.mu.Lock()
		if cached, ok = c.tokens[userID]; !ok {
			cached = fresh
			c.tokens[userID] = cached
		}
		c.mu.Unlock()
	}

	tok, err := cached.source.Token()
	if err != nil {
		c.forget(userID)
		c.markError(ctx, userID, err)
		return nil, fmt.Errorf("refresh calendar token: %w", err)
	}
	if c.swapStored(cached, tok.AccessToken) {
		c.persist(ctx, userID, tok)
	}
	return tok, nil
}

// swapStored records access as the persisted token. Only the caller that
// made the change gets true, so a refresh is written once.
func (c *Client) swapStored(cached *cachedToken, access string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached.stored == access {
		return false
	}
	cached.stored = access
	return true
}

func (c *Client) forget(userID uuid.UUID) {
	c.mu.Lock()
	delete(c.tokens, userID)
	c.mu.Unlock()
}

// Forget drops any cached credentials of the user, called on disconnect
func (c *Client) Forget(userID uuid.UUID) {
	c.forget(userID)
}

func (c *Client) persist(ctx context.Context, userID uuid.UUID, tok *oauth2.Token) {
	conn, err := c.repo.FindForUser(ctx, userID, integration.ProviderTradeCalendar)
	if err != nil {
		c.logger.Warn("failed to load calendar connection for token update", zap.Error(err))
		return
	}
	conn.SetTokens(oauth.FromOAuth2(tok))
	if err := c.repo.Save(ctx, conn); err != nil {
		c.logger.Warn("failed to store refreshed calendar token", zap.Error(err))
	}
}

func (c *Client) markError(ctx context.Context, userID uuid.UUID, cause error) {
	var re *oauth2.RetrieveError
	if !errors.As(cause, &re) || re.Response == nil {
		return
	}
	conn, err := c.repo.FindForUser(ctx, userID, integration.ProviderTradeCalendar)
	if err != nil {
		return
	}
	conn.MarkError("token refresh failed: " + strconv.Itoa(re.Response.StatusCode))
	if err := c.repo.Save(ctx, conn); err != nil {
		c.logger.Warn("failed to mark calendar connection", zap.Error(err))
	}
}

// State exposes the breaker state for health output
func (c *Client) State() string {
	return c.breaker.State().String()
}
