package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mspro-labs/coin-filter/internal/apperr"
	"mspro-labs/coin-filter/internal/config"
	"mspro-labs/coin-filter/internal/logging"
	"mspro-labs/coin-filter/internal/models"
)

const userAgent = "coin-filter/1.0"

// Client fetches the full coin listing from a ticker endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	fields     config.Fields
}

// NewClient builds a client for src. A nil transport uses http.DefaultTransport.
func NewClient(src config.Source, transport http.RoundTripper) *Client {
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: src.Timeout},
		url:        src.URL,
		fields:     src.Fields,
	}
}

// URL returns the endpoint the client reads from.
func (c *Client) URL() string {
	return c.url
}

// FetchCoins performs one GET and decodes every listing entry, in response order.
func (c *Client) FetchCoins(ctx context.Context) ([]models.Coin, error) {
	logger := logging.Component("market")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, apperr.New(apperr.Network, "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("url", c.url).Msg("ticker request failed")
		return nil, apperr.New(apperr.Network, "fetch ticker", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.New(apperr.Network, "fetch ticker", fmt.Errorf("unexpected HTTP status %s from %s", resp.Status, c.url))
	}

	coins, err := parseListing(resp.Body, c.fields)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("coins_count", len(coins)).
		Dur("duration", time.Since(start)).
		Msg("ticker listing retrieved")
	return coins, nil
}

func parseListing(body io.Reader, fields config.Fields) ([]models.Coin, error) {
	dec := json.NewDecoder(body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, apperr.New(apperr.Parse, "decode ticker", err)
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return nil, apperr.Parsef("decode ticker: unexpected data after the listing")
	}
	if raw[0] != '[' {
		return nil, apperr.Parsef("decode ticker: expected a JSON array, got %.20s", raw)
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, apperr.New(apperr.Parse, "decode ticker", err)
	}

	coins := make([]models.Coin, 0, len(entries))
	for i, entry := range entries {
		coin, err := parseEntry(entry, fields)
		if err != nil {
			return nil, apperr.Parsef("decode ticker entry %d: %w", i, err)
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func parseEntry(entry map[string]json.RawMessage, fields config.Fields) (models.Coin, error) {
	var coin models.Coin

	rawName, ok := entry[fields.Name]
	if !ok {
		return coin, fmt.Errorf("missing %q field", fields.Name)
	}
	if err := json.Unmarshal(rawName, &coin.Name); err != nil {
		return coin, fmt.Errorf("field %q: %w", fields.Name, err)
	}

	var err error
	if coin.Price, err = parseNumber(entry[fields.Price]); err != nil {
		return coin, fmt.Errorf("field %q: %w", fields.Price, err)
	}
	if coin.CirculatingSupply, err = parseNumber(entry[fields.Supply]); err != nil {
		return coin, fmt.Errorf("field %q: %w", fields.Supply, err)
	}
	return coin, nil
}

// parseNumber accepts a numeric string or a JSON number.
// Absent, null and empty-string values are unknown.
func parseNumber(raw json.RawMessage) (models.Number, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return models.Number{}, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return models.Number{}, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return models.Number{}, nil
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return models.Number{}, fmt.Errorf("not a number: %s", raw)
		}
		text = n.String()
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return models.Number{}, fmt.Errorf("invalid number %q", text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.Number{}, fmt.Errorf("invalid number %q: not finite", text)
	}
	return models.Known(v), nil
}
