package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsreel/internal/asset"
)

// searchFields is the fl[] list sent with every advancedsearch request.
// Every field the content filter reads must be present here: a missing
// field comes back absent and silently fail-opens the filter that depends
// on it. Guarded by TestSearchFieldsCoverFilterInputs.
var searchFields = []string{
	"identifier",
	"title",
	"description",
	"mediatype",
	"licenseurl",
	"collection",
	"subject",
	"creator",
	"downloads",
	"date",
}

const defaultDownloadBaseURL = "https://archive.org/download"

// ArchiveClient queries the Internet Archive advancedsearch endpoint.
type ArchiveClient struct {
	baseURL         string
	downloadBaseURL string
	httpClient      *http.Client
}

// ArchiveOption configures an ArchiveClient.
type ArchiveOption func(*ArchiveClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ArchiveOption {
	return func(c *ArchiveClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithDownloadBaseURL overrides the base URL candidate locators are built from.
func WithDownloadBaseURL(base string) ArchiveOption {
	return func(c *ArchiveClient) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.downloadBaseURL = base
		}
	}
}

// NewArchiveClient creates an Internet Archive search provider.
func NewArchiveClient(baseURL string, opts ...ArchiveOption) (*ArchiveClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("archive base url required")
	}
	client := &ArchiveClient{
		baseURL:         baseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name implements Provider.
func (c *ArchiveClient) Name() string { return "internet-archive" }

// Search implements Provider. Results keep the provider's relevance order.
func (c *ArchiveClient) Search(ctx context.Context, req Request) ([]asset.Candidate, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse archive url: %w", err)
	}

	params := url.Values{}
	params.Set("q", buildQuery(query, req.MediaTypes))
	for _, field := range searchFields {
		params.Add("fl[]", field)
	}
	rows := req.PageSize
	if rows <= 0 {
		rows = 50
	}
	params.Set("rows", strconv.Itoa(rows))
	params.Set("page", "1")
	params.Set("output", "json")
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build archive request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("archive search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive search: unexpected status %d", resp.StatusCode)
	}

	var decoded archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode archive response: %w", err)
	}

	candidates := make([]asset.Candidate, 0, len(decoded.Response.Docs))
	for _, doc := range decoded.Response.Docs {
		identifier := strings.TrimSpace(doc.Identifier)
		if identifier == "" {
			continue
		}
		candidates = append(candidates, asset.Candidate{
			Provider:    c.Name(),
			Identifier:  identifier,
			Title:       strings.TrimSpace(doc.Title.join()),
			Description: strings.TrimSpace(doc.Description.join()),
			MediaType:   asset.NormalizeMediaType(doc.MediaType),
			LicenseURL:  strings.TrimSpace(doc.LicenseURL),
			Collection:  doc.Collection,
			Subject:     doc.Subject,
			Creator:     doc.Creator,
			Downloads:   doc.Downloads,
			Date:        strings.TrimSpace(doc.Date),
			Locator:     c.downloadBaseURL + "/" + url.PathEscape(identifier),
		})
	}
	return candidates, nil
}

func buildQuery(query string, mediaTypes []string) string {
	cleaned := make([]string, 0, len(mediaTypes))
	for _, mt := range mediaTypes {
		if mt = strings.TrimSpace(mt); mt != "" {
			cleaned = append(cleaned, mt)
		}
	}
	if len(cleaned) == 0 {
		return query
	}
	return fmt.Sprintf("%s AND mediatype:(%s)", query, strings.Join(cleaned, " OR "))
}

type archiveResponse struct {
	Response struct {
		NumFound int          `json:"numFound"`
		Docs     []archiveDoc `json:"docs"`
	} `json:"response"`
}

type archiveDoc struct {
	Identifier  string     `json:"identifier"`
	Title       stringList `json:"title"`
	Description stringList `json:"description"`
	MediaType   string     `json:"mediatype"`
	LicenseURL  string     `json:"licenseurl"`
	Collection  stringList `json:"collection"`
	Subject     stringList `json:"subject"`
	Creator     stringList `json:"creator"`
	Downloads   int64      `json:"downloads"`
	Date        string     `json:"date"`
}

// stringList tolerates the archive's habit of returning either a bare
// string or an array for the same field.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*s = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("string or string array expected: %w", err)
	}
	*s = many
	return nil
}

func (s stringList) join() string {
	return strings.Join(s, " ")
}
