// Package hsapi is the client of the remote Hearthstone card/deck service.
package hsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"hsbot/internal/config"
	"hsbot/internal/model"
)

const detailCacheSize = 512

// Client calls the REST API rooted at baseURL. Single card and deck lookups
// are cached; every outbound call passes through one rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	cards *lru.Cache[int, *model.CardDetail]
	decks *lru.Cache[int, *model.DeckDetail]
}

// NewClient creates a client for the service described by cfg.
func NewClient(cfg config.API) *Client {
	return newClient(cfg.BaseURL(), &http.Client{Timeout: cfg.Timeout}, cfg.RequestsPerSec)
}

func newClient(baseURL string, hc *http.Client, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	// hashicorp/golang-lru/v2: New only fails on a non-positive size.
	cards, _ := lru.New[int, *model.CardDetail](detailCacheSize)
	decks, _ := lru.New[int, *model.DeckDetail](detailCacheSize)
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: hc,
		limiter:    rate.NewLimiter(limit, max(1, int(rps))),
		cards:      cards,
		decks:      decks,
	}
}

// SearchCards runs a card search with translated query params.
func (c *Client) SearchCards(ctx context.Context, params url.Values) ([]model.CardSummary, error) {
	var out []model.CardSummary
	if err := c.get(ctx, "cards/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCard returns a single card by DBF id.
func (c *Client) GetCard(ctx context.Context, dbfID int) (*model.CardDetail, error) {
	if card, ok := c.cards.Get(dbfID); ok {
		return card, nil
	}
	var card model.CardDetail
	if err := c.get(ctx, "cards/"+strconv.Itoa(dbfID)+"/", nil, &card); err != nil {
		return nil, err
	}
	c.cards.Add(dbfID, &card)
	return &card, nil
}

// SearchDecks runs a deck search with translated query params.
func (c *Client) SearchDecks(ctx context.Context, params url.Values) ([]model.DeckSummary, error) {
	var out []model.DeckSummary
	if err := c.get(ctx, "decks/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDeck returns a single deck by id.
func (c *Client) GetDeck(ctx context.Context, id int) (*model.DeckDetail, error) {
	if deck, ok := c.decks.Get(id); ok {
		return deck, nil
	}
	var deck model.DeckDetail
	if err := c.get(ctx, "decks/"+strconv.Itoa(id)+"/", nil, &deck); err != nil {
		return nil, err
	}
	c.decks.Add(id, &deck)
	return &deck, nil
}

// DecodeDeck asks the service to decode a deck code or an exported decklist.
// A refusal comes back as *DecodeError, anything else as *TransportError.
func (c *Client) DecodeDeck(ctx context.Context, code string) (*model.DeckDetail, error) {
	const endpoint = "decode_deck/"
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	form := url.Values{"d_code": {code}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}

	var refusal struct {
		Error string `json:"error"`
	}
	if resp.StatusCode == http.StatusBadRequest {
		if json.Unmarshal(body, &refusal) == nil && refusal.Error != "" {
			return nil, &DecodeError{Reason: refusal.Error}
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	if json.Unmarshal(body, &refusal) == nil && refusal.Error != "" {
		return nil, &DecodeError{Reason: refusal.Error}
	}

	var deck model.DeckDetail
	if err := json.Unmarshal(body, &deck); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return &deck, nil
}

// HealthCheck reports whether the service answers at all.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: "/", Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &TransportError{Endpoint: "/", Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &TransportError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
