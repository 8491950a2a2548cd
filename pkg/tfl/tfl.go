package tfl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.tfl.gov.uk"
	RequestTimeout = 15 * time.Second
)

var (
	ErrEmptyResponse    = errors.New("empty response from TfL")
	ErrUnexpectedStatus = errors.New("unexpected status from TfL")
	ErrInvalidJSON      = errors.New("invalid JSON from TfL")
)

type Client struct {
	BaseURL string
	AppKey  string

	HTTPClient *http.Client
}

func NewClient(baseURL string, appKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		AppKey:  appKey,
		HTTPClient: &http.Client{
			Timeout: RequestTimeout,
		},
	}
}

// GetArrivals fetches a TfL arrivals path and decodes it as a list of raw departures
func (c *Client) GetArrivals(ctx context.Context, path string) ([]ctdf.RawDeparture, error) {
	var arrivals []ctdf.RawDeparture
	if err := c.getJSON(ctx, path, &arrivals); err != nil {
		return nil, err
	}

	return arrivals, nil
}

// Lines lists the lines TfL runs for a mode
func (c *Client) Lines(ctx context.Context, mode string) ([]Line, error) {
	var lines []Line
	if err := c.getJSON(ctx, fmt.Sprintf(ctdf.TfLLinesURL, url.PathEscape(mode)), &lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// StopPoints lists the stations served by a line
func (c *Client) StopPoints(ctx context.Context, line string) ([]StopPoint, error) {
	var stopPoints []StopPoint
	if err := c.getJSON(ctx, fmt.Sprintf(ctdf.TfLStationsURL, url.PathEscape(line)), &stopPoints); err != nil {
		return nil, err
	}

	return stopPoints, nil
}

func (c *Client) requestURL(path string) string {
	requestURL := c.BaseURL + path

	if c.AppKey != "" {
		separator := "?"
		if strings.Contains(path, "?") {
			separator = "&"
		}
		requestURL = fmt.Sprintf("%s%sapp_key=%s", requestURL, separator, url.QueryEscape(c.AppKey))
	}

	return requestURL
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "curl/7.54.1") // TfL is protected by cloudflare and it gets angry when no user agent is set

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	jsonBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	if len(strings.TrimSpace(string(jsonBytes))) == 0 {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		log.Debug().Str("path", path).Err(err).Msg("Failed to decode TfL response")
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return nil
}
