// Package scraper collects "People Also Ask" questions for a keyword by
// running the Apify google-search-scraper actor and reading its dataset.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.apify.com"

// searchActor is the public actor id, path-encoded (user~actor).
const searchActor = "apify~google-search-scraper"

// ErrMissingToken is returned when no Apify credential is configured.
var ErrMissingToken = errors.New("missing APIFY_API_TOKEN")

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		// The per-call context bounds the run; no client-level timeout so
		// long synchronous actor runs are not cut off twice.
		httpClient: &http.Client{},
	}
}

// NewClientWithBaseURL exists for tests that point the client at a local
// server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type actorInput struct {
	Queries                  string `json:"queries"`
	CountryCode              string `json:"countryCode"`
	LanguageCode             string `json:"languageCode"`
	MaxPagesPerQuery         int    `json:"maxPagesPerQuery"`
	ResultsPerPage           int    `json:"resultsPerPage"`
	SaveHTML                 bool   `json:"saveHtml"`
	SaveJSON                 bool   `json:"saveJson"`
	MobileResults            bool   `json:"mobileResults"`
	IncludeUnfilteredResults bool   `json:"includeUnfilteredResults"`
}

type searchItem struct {
	PeopleAlsoAsk []map[string]any `json:"peopleAlsoAsk"`
}

// Collect runs the search actor for keyword and extracts the related
// questions from the first result item. An empty or missing PAA block is
// not an error: the pipeline still generates without grounding questions.
// Errors are reserved for a missing credential and for the service call
// itself failing.
func (c *Client) Collect(ctx context.Context, keyword string) ([]string, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	input := actorInput{
		Queries:                  keyword,
		CountryCode:              "tw",
		LanguageCode:             "zh-TW",
		MaxPagesPerQuery:         1,
		ResultsPerPage:           10,
		SaveHTML:                 false,
		SaveJSON:                 true,
		MobileResults:            false, // desktop results carry PAA more reliably
		IncludeUnfilteredResults: true,
	}

	items, err := c.runSync(ctx, input)
	if err != nil {
		// One bounded retry with jitter for transient submission failures.
		if ctx.Err() != nil {
			return nil, err
		}
		sleepWithJitter(ctx)
		items, err = c.runSync(ctx, input)
		if err != nil {
			return nil, err
		}
	}

	if len(items) == 0 {
		log.Printf("⚠️ no search results for keyword %q", keyword)
		return []string{}, nil
	}

	questions := extractQuestions(items[0])
	if len(questions) == 0 {
		log.Printf("⚠️ no PAA data for keyword %q", keyword)
	}
	return questions, nil
}

// runSync calls the run-sync-get-dataset-items endpoint, which starts the
// actor, waits for it to finish and returns the dataset in one request.
func (c *Client) runSync(ctx context.Context, input actorInput) ([]searchItem, error) {
	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, searchActor, url.QueryEscape(c.token))

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal actor input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run actor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log, but never forward
		// provider error bodies to callers.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("❌ Apify run failed: status %d: %s", resp.StatusCode, snippet)
		return nil, fmt.Errorf("actor run returned status %d", resp.StatusCode)
	}

	var items []searchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return items, nil
}

// extractQuestions pulls the question text out of the PAA block. The
// actor has changed the field name over time, so several keys are tried.
func extractQuestions(item searchItem) []string {
	questions := []string{}
	for _, paa := range item.PeopleAlsoAsk {
		for _, key := range []string{"question", "title", "text", "query"} {
			raw, ok := paa[key].(string)
			if !ok {
				continue
			}
			if q := strings.TrimSpace(raw); q != "" {
				questions = append(questions, q)
				break
			}
		}
	}
	return questions
}

func sleepWithJitter(ctx context.Context) {
	delay := 100*time.Millisecond + time.Duration(rand.Intn(300))*time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
