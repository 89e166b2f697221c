package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"lilibox/models"
)

// Minimal TMDB v3 client (API-key auth, the tv search endpoint we need)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// residualEpisodeToken strips a trailing SxxExx token (and anything after it)
// from a show name before querying, so "Show S02E01" searches as "Show".
var residualEpisodeToken = regexp.MustCompile(`(?i)S\d+E\d+.*$`)

type Client struct {
	apiKey       string
	language     string
	baseURL      string
	imageBaseURL string
	httpc        *http.Client
}

func NewClient(apiKey, language string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if language == "" {
		language = "en-US"
	}
	return &Client{
		apiKey:       apiKey,
		language:     language,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		httpc:        httpc,
	}
}

// searchTVResponse is the shape of /search/tv we consume.
type searchTVResponse struct {
	Results []struct {
		ID           int64   `json:"id"`
		Name         string  `json:"name"`
		Overview     string  `json:"overview"`
		PosterPath   string  `json:"poster_path"`
		BackdropPath string  `json:"backdrop_path"`
		FirstAirDate string  `json:"first_air_date"`
		VoteAverage  float64 `json:"vote_average"`
	} `json:"results"`
}

// SearchShow queries TMDB for the best match of a show name. A nil result
// with nil error means TMDB had no match. Each call is a single best-effort
// attempt: no retries, no caching.
func (c *Client) SearchShow(ctx context.Context, name string) (*models.ShowMetadata, error) {
	query := CleanShowName(name)
	if query == "" {
		return nil, nil
	}

	params := url.Values{
		"api_key":  []string{c.apiKey},
		"query":    []string{query},
		"language": []string{c.language},
		"page":     []string{"1"},
	}
	var resp searchTVResponse
	if err := c.doGET(ctx, c.baseURL+"/search/tv", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	best := resp.Results[0]
	meta := &models.ShowMetadata{
		ID:           best.ID,
		Name:         best.Name,
		Overview:     best.Overview,
		PosterPath:   best.PosterPath,
		BackdropPath: best.BackdropPath,
		FirstAirDate: best.FirstAirDate,
		VoteAverage:  best.VoteAverage,
	}
	meta.PosterURL = c.imageURL(best.PosterPath)
	meta.BackdropURL = c.imageURL(best.BackdropPath)
	return meta, nil
}

// CleanShowName removes a residual season/episode token from a show name.
func CleanShowName(name string) string {
	return strings.TrimSpace(residualEpisodeToken.ReplaceAllString(name, ""))
}

// imageURL joins the image base with a TMDB-relative path; empty path means
// no artwork and yields an empty URL.
func (c *Client) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

func (c *Client) doGET(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb status %d for %s", res.StatusCode, endpoint)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb decode: %w", err)
	}
	return nil
}
