package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/utils"
)

const (
	defaultTimeout   = 3 * time.Second
	canonCacheTTL    = time.Minute
	defaultUserAgent = "textcanon-client"
)

// Client talks to a textcanon server. Canon lists are cached in-process
// for a short time and dropped when this client changes them.
type Client struct {
	client    *http.Client
	cache     *cache.Cache
	userAgent string
	baseURL   string
}

func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:    &httpClient,
		cache:     cache.New(canonCacheTTL, 2*canonCacheTTL),
		userAgent: defaultUserAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// APIError is a non-2xx response. It matches the domain error sentinels
// for the statuses the server maps them to.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("textcanon: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target.(type) {
	case domain.NotFoundError, *domain.NotFoundError:
		return e.StatusCode == http.StatusNotFound
	case domain.ValidationError, *domain.ValidationError:
		return e.StatusCode == http.StatusBadRequest
	case domain.KeyConflictError, *domain.KeyConflictError:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

func (c *Client) HttpRequest(ctx context.Context, method, path string, body, response any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if response == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func canonCacheKey(textContentID int64) string {
	return fmt.Sprintf("canons:%d", textContentID)
}

func (c *Client) CreateTextContent(ctx context.Context, req textcanon.TextContentRequest) (domain.TextContent, error) {
	var content domain.TextContent
	err := c.HttpRequest(ctx, http.MethodPost, "/text-contents", req, &content)
	return content, err
}

func (c *Client) UpdateTextContent(ctx context.Context, id int64, req textcanon.TextContentRequest) (domain.TextContent, error) {
	var content domain.TextContent
	err := c.HttpRequest(ctx, http.MethodPatch, fmt.Sprintf("/text-contents/%d", id), req, &content)
	if err == nil && req.CanonIDs != nil {
		c.cache.Delete(canonCacheKey(id))
	}
	return content, err
}

func (c *Client) GetTextContent(ctx context.Context, id int64) (domain.TextContent, error) {
	var content domain.TextContent
	err := c.HttpRequest(ctx, http.MethodGet, fmt.Sprintf("/text-contents/%d", id), nil, &content)
	return content, err
}

// GetByUnitKey resolves a "{source}|{book}|{group}|{unit}" key.
func (c *Client) GetByUnitKey(ctx context.Context, unitKey string) (domain.TextContent, error) {
	coords, err := textcanon.SplitUnitKey(unitKey)
	if err != nil {
		return domain.TextContent{}, err
	}
	path := fmt.Sprintf("/sources/%s/books/%s/units/%s/%s",
		url.PathEscape(coords.SourceCode),
		url.PathEscape(coords.BookCode),
		url.PathEscape(coords.UnitGroup),
		url.PathEscape(coords.Unit),
	)

	var content domain.TextContent
	err = c.HttpRequest(ctx, http.MethodGet, path, nil, &content)
	return content, err
}

func (c *Client) DeleteTextContent(ctx context.Context, id int64) error {
	err := c.HttpRequest(ctx, http.MethodDelete, fmt.Sprintf("/text-contents/%d", id), nil, nil)
	if err == nil {
		c.cache.Delete(canonCacheKey(id))
	}
	return err
}

// ListCanonsFor returns the canons of a text content in display order.
func (c *Client) ListCanonsFor(ctx context.Context, textContentID int64) ([]domain.CanonRef, error) {
	cacheKey := canonCacheKey(textContentID)
	if x, found := c.cache.Get(cacheKey); found {
		return x.([]domain.CanonRef), nil
	}

	var res textcanon.CanonsResponse[*utils.OrderedMap[domain.CanonRef]]
	err := c.HttpRequest(ctx, http.MethodGet, fmt.Sprintf("/text-contents/%d/canons", textContentID), nil, &res)
	if err != nil {
		return nil, err
	}

	refs := orderedRefs(res.ByCode)
	c.cache.Set(cacheKey, refs, cache.DefaultExpiration)
	return refs, nil
}

func (c *Client) SetCanons(ctx context.Context, textContentID int64, canonIDs []int64) ([]domain.CanonRef, error) {
	if canonIDs == nil {
		canonIDs = []int64{}
	}
	var res textcanon.CanonsResponse[*utils.OrderedMap[domain.CanonRef]]
	err := c.HttpRequest(ctx, http.MethodPut, fmt.Sprintf("/text-contents/%d/canons", textContentID), textcanon.SetCanonsRequest{CanonIDs: canonIDs}, &res)
	if err != nil {
		return nil, err
	}

	refs := orderedRefs(res.ByCode)
	c.cache.Set(canonCacheKey(textContentID), refs, cache.DefaultExpiration)
	return refs, nil
}

func orderedRefs(byCode *utils.OrderedMap[domain.CanonRef]) []domain.CanonRef {
	if byCode == nil {
		return []domain.CanonRef{}
	}
	refs := make([]domain.CanonRef, 0, byCode.Len())
	for _, code := range byCode.Keys() {
		ref, _ := byCode.Get(code)
		refs = append(refs, ref)
	}
	return refs
}

func (c *Client) ListCanons(ctx context.Context) ([]domain.Canon, error) {
	var canons []domain.Canon
	err := c.HttpRequest(ctx, http.MethodGet, "/canons", nil, &canons)
	return canons, err
}

func (c *Client) AppendTranslation(ctx context.Context, textContentID int64, req textcanon.AppendTranslationRequest) (domain.TextTranslation, error) {
	var t domain.TextTranslation
	err := c.HttpRequest(ctx, http.MethodPost, fmt.Sprintf("/text-contents/%d/translations", textContentID), req, &t)
	return t, err
}

func (c *Client) LatestTranslation(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, error) {
	var t domain.TextTranslation
	err := c.HttpRequest(ctx, http.MethodGet, fmt.Sprintf("/text-contents/%d/translations/latest?language=%d", textContentID, languageID), nil, &t)
	return t, err
}

// TranslationHistory lists revisions oldest first. languageID 0 selects
// every language.
func (c *Client) TranslationHistory(ctx context.Context, textContentID, languageID int64) ([]domain.TextTranslation, error) {
	path := fmt.Sprintf("/text-contents/%d/translations", textContentID)
	if languageID != 0 {
		path += fmt.Sprintf("?language=%d", languageID)
	}
	var history []domain.TextTranslation
	err := c.HttpRequest(ctx, http.MethodGet, path, nil, &history)
	return history, err
}

func (c *Client) PromoteTranslation(ctx context.Context, revisionID int64) (domain.TextTranslation, error) {
	var t domain.TextTranslation
	err := c.HttpRequest(ctx, http.MethodPost, fmt.Sprintf("/translations/%d/promote", revisionID), nil, &t)
	return t, err
}

func (c *Client) ConfirmTranslation(ctx context.Context, revisionID int64, confirmedBy string) (domain.TextTranslation, error) {
	var t domain.TextTranslation
	err := c.HttpRequest(ctx, http.MethodPost, fmt.Sprintf("/translations/%d/confirm", revisionID), textcanon.ConfirmTranslationRequest{ConfirmedBy: confirmedBy}, &t)
	return t, err
}
