package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/widget"
)

const (
	envAPIURL        = "STOREFRONT_API_URL"
	envAdminToken    = "STOREFRONT_ADMIN_TOKEN"
	envLocale        = "STOREFRONT_LOCALE"
	envSearchTimeout = "STOREFRONT_SEARCH_TIMEOUT"

	defaultAPIURL = "http://localhost:8080"
)

type APIClient struct {
	baseURL    string
	adminToken string
	locale     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewAPIClientWithCmd creates an APIClient with config cascade: flag → env → global config → default
// If cmd is nil, skips flag checking and goes directly to env → global config
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	var baseURL, adminToken, locale string
	var timeout time.Duration

	// Priority 1: flags
	if cmd != nil {
		if v, err := cmd.Flags().GetString("api-url"); err == nil && v != "" {
			baseURL = v
		}
		if v, err := cmd.Flags().GetString("admin-token"); err == nil && v != "" {
			adminToken = v
		}
		if v, err := cmd.Flags().GetString("locale"); err == nil && v != "" {
			locale = v
		}
	}

	// Priority 2: environment
	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}
	if adminToken == "" {
		adminToken = os.Getenv(envAdminToken)
	}
	if locale == "" {
		locale = os.Getenv(envLocale)
	}
	if v := os.Getenv(envSearchTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envSearchTimeout, err)
		}
		timeout = d
	}

	// Priority 3: global config
	if baseURL == "" || locale == "" {
		globalConfig, err := LoadGlobalConfig()
		if err != nil {
			return nil, err
		}
		if globalConfig != nil {
			if baseURL == "" {
				baseURL = globalConfig.APIURL
			}
			if locale == "" {
				locale = globalConfig.Locale
			}
		}
	}

	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	if locale != "" && !i18n.IsSupported(locale) {
		return nil, fmt.Errorf("unsupported locale %q (supported: %v)", locale, i18n.Locales())
	}

	c := NewAPIClientWithConfig(baseURL, adminToken, timeout)
	c.locale = i18n.Normalize(locale)
	return c, nil
}

func NewAPIClient() (*APIClient, error) {
	_ = godotenv.Load()
	return NewAPIClientWithCmd(nil)
}

// NewAPIClientWithConfig creates an APIClient with explicit config. A zero
// timeout means widget.DefaultTimeout per request.
func NewAPIClientWithConfig(baseURL, adminToken string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = widget.DefaultTimeout
	}
	return &APIClient{
		baseURL:    baseURL,
		adminToken: adminToken,
		locale:     i18n.Default,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Locale is the locale used for page requests.
func (c *APIClient) Locale() string {
	return c.locale
}

// Timeout is the per-request deadline.
func (c *APIClient) Timeout() time.Duration {
	return c.timeout
}

// APIResponse represents the standard API response format.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// APIError represents an error from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Get performs a GET request.
func (c *APIClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *APIClient) Post(ctx context.Context, path string, body any) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body.
func (c *APIClient) Put(ctx context.Context, path string, body any) (*APIResponse, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *APIClient) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body any) (*APIResponse, error) {
	respBody, status, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			if status >= 400 {
				return nil, &APIError{StatusCode: status, Message: string(respBody)}
			}
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	if status >= 400 {
		return nil, &APIError{StatusCode: status, Message: apiResp.Error}
	}

	return &apiResp, nil
}

// send performs one request under the per-request timeout and returns the raw body.
func (c *APIClient) send(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func (c *APIClient) getData(ctx context.Context, path string, out any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

func decodeData(resp *APIResponse, out any) error {
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

// Search queries the product search endpoint. It satisfies widget.Searcher.
func (c *APIClient) Search(ctx context.Context, query string) (*widget.Response, error) {
	respBody, status, err := c.send(ctx, http.MethodGet, "/api/search?"+url.Values{"q": {query}}.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		var apiResp APIResponse
		_ = json.Unmarshal(respBody, &apiResp)
		return nil, &APIError{StatusCode: status, Message: apiResp.Error}
	}

	var sr api.SearchResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(sr.Products))
	for _, p := range sr.Products {
		price, err := api.ParsePrice(p.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for product %s: %w", p.ID, err)
		}
		r := domain.SearchResult{ID: p.ID, Name: p.Name, Slug: p.Slug, Price: price}
		if p.ImageURL != nil {
			r.ImageURL = *p.ImageURL
		}
		results = append(results, r)
	}
	return &widget.Response{Results: results, SearchID: sr.SearchID}, nil
}

// RecordSelection reports which search result was picked. It satisfies widget.FeedbackRecorder.
func (c *APIClient) RecordSelection(ctx context.Context, searchID, selectedID string) error {
	_, err := c.Post(ctx, "/api/search/feedback", api.SearchFeedbackRequest{
		SearchID:   searchID,
		SelectedID: selectedID,
	})
	return err
}

// Home fetches the home page of the client locale.
func (c *APIClient) Home(ctx context.Context) (*api.HomeResponse, error) {
	var out api.HomeResponse
	if err := c.getData(ctx, "/"+c.locale, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Collection fetches the collection listing for the given query parameters.
func (c *APIClient) Collection(ctx context.Context, query url.Values) (*api.CollectionResponse, error) {
	path := "/" + c.locale + "/collection"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out api.CollectionResponse
	if err := c.getData(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Product fetches a product detail page by slug.
func (c *APIClient) Product(ctx context.Context, slug string) (*api.ProductDetailResponse, error) {
	var out api.ProductDetailResponse
	if err := c.getData(ctx, widget.ProductPath(c.locale, url.PathEscape(slug)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// About fetches the about page copy.
func (c *APIClient) About(ctx context.Context) (*api.AboutResponse, error) {
	var out api.AboutResponse
	if err := c.getData(ctx, "/"+c.locale+"/about", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contact submits the contact form.
func (c *APIClient) Contact(ctx context.Context, req api.ContactRequest) (*api.ContactResponse, error) {
	resp, err := c.Post(ctx, "/"+c.locale+"/contact", req)
	if err != nil {
		return nil, err
	}
	var out api.ContactResponse
	if err := decodeData(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct adds a product to the catalog.
func (c *APIClient) CreateProduct(ctx context.Context, req api.CreateProductRequest) (*api.ProductResponse, error) {
	resp, err := c.Post(ctx, "/admin/products", req)
	if err != nil {
		return nil, err
	}
	var out api.ProductResponse
	if err := decodeData(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product and its images.
func (c *APIClient) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, "/admin/products/"+url.PathEscape(id))
	return err
}

// InitImageUpload reserves a storage key and a presigned upload URL.
func (c *APIClient) InitImageUpload(ctx context.Context, productID string, req api.InitImageUploadRequest) (*api.InitImageUploadResponse, error) {
	resp, err := c.Post(ctx, "/admin/products/"+url.PathEscape(productID)+"/images", req)
	if err != nil {
		return nil, err
	}
	var out api.InitImageUploadResponse
	if err := decodeData(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteImageUpload attaches an uploaded image to the product.
func (c *APIClient) CompleteImageUpload(ctx context.Context, productID, storageKey string) (*api.ProductResponse, error) {
	resp, err := c.Post(ctx, "/admin/products/"+url.PathEscape(productID)+"/images/complete", api.CompleteImageUploadRequest{StorageKey: storageKey})
	if err != nil {
		return nil, err
	}
	var out api.ProductResponse
	if err := decodeData(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHero replaces the hero content of a locale.
func (c *APIClient) UpdateHero(ctx context.Context, req api.UpdateHeroRequest) error {
	_, err := c.Put(ctx, "/admin/hero", req)
	return err
}

// ContactMessages lists contact messages received since the given time,
// following page cursors until the listing is exhausted.
func (c *APIClient) ContactMessages(ctx context.Context, since time.Time) ([]api.ContactMessageResponse, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}

	var out []api.ContactMessageResponse
	for {
		path := "/admin/contact"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
		var page api.ContactMessagePage
		if err := c.getData(ctx, path, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if !page.HasMore || page.Cursor == "" {
			return out, nil
		}
		q.Set("cursor", page.Cursor)
	}
}

// UploadFile uploads a file to the given presigned URL.
func (c *APIClient) UploadFile(ctx context.Context, uploadURL, filePath, contentType string, onProgress ProgressFunc) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	return c.UploadReader(ctx, uploadURL, file, stat.Size(), contentType, onProgress)
}

// UploadReader uploads data from an io.Reader to the given presigned URL.
// Uploads are not bound by the per-request timeout.
func (c *APIClient) UploadReader(ctx context.Context, uploadURL string, reader io.Reader, size int64, contentType string, onProgress ProgressFunc) error {
	if onProgress != nil {
		reader = &progressReader{reader: reader, total: size, onProgress: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// ProgressFunc is a callback for reporting upload progress.
type ProgressFunc func(current, total int64)

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	current    int64
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	if pr.onProgress != nil {
		pr.onProgress(pr.current, pr.total)
	}
	return n, err
}
