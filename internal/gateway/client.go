package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderquest/questbot/core/logger"
	"github.com/wanderquest/questbot/internal/domain"
	"log/slog"
)

// ClientOptions configures the HTTP content client.
type ClientOptions struct {
	// BaseURL of the content API, with or without a trailing slash.
	BaseURL string
	// Timeout bounds every request; 10s when zero. Failed calls surface
	// immediately, there are no retries.
	Timeout time.Duration
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Client implements Content over HTTP.
type Client struct {
	base    string
	httpc   *http.Client
	timeout time.Duration
}

var _ Content = (*Client)(nil)

// NewClient builds a content API client.
func NewClient(opts ClientOptions) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: timeout}
	}
	return &Client{base: base, httpc: httpc, timeout: timeout}
}

// FindParticipantByTelegramID resolves a Telegram user to a participant.
// Returns ErrNotFound when the API reports 404.
func (c *Client) FindParticipantByTelegramID(ctx context.Context, telegramID int64) (domain.Participant, error) {
	var p domain.Participant
	err := c.getJSON(ctx, fmt.Sprintf("participants/by-telegram-id/%d/", telegramID), nil, &p)
	return p, err
}

// RegisterParticipant creates a participant on first contact.
func (c *Client) RegisterParticipant(ctx context.Context, req domain.RegisterParticipantRequest) (domain.Participant, error) {
	var p domain.Participant
	err := c.postJSON(ctx, "participants/", req, &p)
	return p, err
}

// GetParticipant fetches a participant by id.
func (c *Client) GetParticipant(ctx context.Context, id int64) (domain.Participant, error) {
	var p domain.Participant
	err := c.getJSON(ctx, fmt.Sprintf("participants/%d/", id), nil, &p)
	return p, err
}

// ListCities fetches cities, optionally filtered by country.
func (c *Client) ListCities(ctx context.Context, filter CityFilter) ([]domain.City, error) {
	q := url.Values{}
	if filter.Country != "" {
		q.Set("Country", filter.Country)
	}
	var cities []domain.City
	err := c.getJSON(ctx, "cities/", q, &cities)
	return cities, err
}

// ListQuests fetches quests, optionally filtered by city.
func (c *Client) ListQuests(ctx context.Context, filter QuestFilter) ([]domain.Quest, error) {
	q := url.Values{}
	if filter.CityID != 0 {
		q.Set("CityID", strconv.FormatInt(filter.CityID, 10))
	}
	var quests []domain.Quest
	err := c.getJSON(ctx, "quests/", q, &quests)
	return quests, err
}

// ListLocations fetches locations, optionally filtered by city.
func (c *Client) ListLocations(ctx context.Context, filter LocationFilter) ([]domain.Location, error) {
	q := url.Values{}
	if filter.CityID != 0 {
		q.Set("CityID", strconv.FormatInt(filter.CityID, 10))
	}
	var locations []domain.Location
	err := c.getJSON(ctx, "locations/", q, &locations)
	return locations, err
}

// ListGuides fetches all guides.
func (c *Client) ListGuides(ctx context.Context) ([]domain.Guide, error) {
	var guides []domain.Guide
	err := c.getJSON(ctx, "guides/", nil, &guides)
	return guides, err
}

// ListReviews fetches reviews, optionally filtered by quest.
func (c *Client) ListReviews(ctx context.Context, filter ReviewFilter) ([]domain.Review, error) {
	q := url.Values{}
	if filter.QuestID != 0 {
		q.Set("QuestID", strconv.FormatInt(filter.QuestID, 10))
	}
	var reviews []domain.Review
	err := c.getJSON(ctx, "reviews/", q, &reviews)
	return reviews, err
}

// GetCity fetches one city.
func (c *Client) GetCity(ctx context.Context, id int64) (domain.City, error) {
	var city domain.City
	err := c.getJSON(ctx, fmt.Sprintf("cities/%d/", id), nil, &city)
	return city, err
}

// GetQuest fetches one quest.
func (c *Client) GetQuest(ctx context.Context, id int64) (domain.Quest, error) {
	var quest domain.Quest
	err := c.getJSON(ctx, fmt.Sprintf("quests/%d/", id), nil, &quest)
	return quest, err
}

// GetLocation fetches one location.
func (c *Client) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	var loc domain.Location
	err := c.getJSON(ctx, fmt.Sprintf("locations/%d/", id), nil, &loc)
	return loc, err
}

// GetGuide fetches one guide.
func (c *Client) GetGuide(ctx context.Context, id int64) (domain.Guide, error) {
	var guide domain.Guide
	err := c.getJSON(ctx, fmt.Sprintf("guides/%d/", id), nil, &guide)
	return guide, err
}

// GetReview fetches one review.
func (c *Client) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	var review domain.Review
	err := c.getJSON(ctx, fmt.Sprintf("reviews/%d/", id), nil, &review)
	return review, err
}

// CreateBooking enrolls a participant into a quest.
func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) error {
	return c.postJSON(ctx, "quest-participants/", req, nil)
}

// CreateReview submits a new review.
func (c *Client) CreateReview(ctx context.Context, req domain.ReviewRequest) error {
	return c.postJSON(ctx, "reviews/", req, nil)
}

// CreateQuestion submits a support question.
func (c *Client) CreateQuestion(ctx context.Context, req domain.QuestionRequest) error {
	return c.postJSON(ctx, "questions/", req, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	full := c.base + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return fmt.Errorf("gateway: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		// Lets the API dedupe a write if the transport drops the response.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Error(ctx, "gw", "request.failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Debug(ctx, "gw", "request.not_found",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("http_code", resp.StatusCode),
			slog.Duration("duration", logger.Took(start)),
		)
		return fmt.Errorf("gateway: %s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error(ctx, "gw", "request.status",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("http_code", resp.StatusCode),
			slog.Duration("duration", logger.Took(start)),
			slog.String("payload", logger.SanitizeLimit(string(detail), 256)),
		)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(detail)}
	}

	logger.Debug(ctx, "gw", "request.ok",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("http_code", resp.StatusCode),
		slog.Duration("duration", logger.Took(start)),
	)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode %s %s: %w", method, path, err)
	}
	return nil
}
