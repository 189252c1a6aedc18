package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

const (
	defaultProductsPath = "/api/products"
	defaultFeaturedPath = "/api/featureds"
	defaultPageSize     = 100
	// defaultMaxPages bounds a runaway pagination loop. Hitting it fails the
	// fetch rather than returning a partial collection.
	defaultMaxPages = 200
)

// Options configures the catalog client.
type Options struct {
	BaseURL      string
	APIToken     string
	Timeout      time.Duration
	ProductsPath string
	FeaturedPath string
	HTTPClient   *http.Client
}

type client struct {
	baseURL      string
	token        string
	timeout      time.Duration
	productsPath string
	featuredPath string
	maxPages     int
	http         *http.Client
	logger       zerolog.Logger
}

// NewClient creates a Strapi catalog source
func NewClient(opts Options, logger zerolog.Logger) ports.CatalogSource {
	c := &client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		token:        opts.APIToken,
		timeout:      opts.Timeout,
		productsPath: opts.ProductsPath,
		featuredPath: opts.FeaturedPath,
		maxPages:     defaultMaxPages,
		http:         opts.HTTPClient,
		logger:       logger.With().Str("component", "strapi").Logger(),
	}
	if c.timeout <= 0 {
		c.timeout = 15 * time.Second
	}
	if c.productsPath == "" {
		c.productsPath = defaultProductsPath
	}
	if c.featuredPath == "" {
		c.featuredPath = defaultFeaturedPath
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// FetchProducts downloads and maps the full product catalog. Records that
// fail to map are returned as Unmapped so callers still see their ids.
func (c *client) FetchProducts(ctx context.Context) (*ports.ProductCatalog, error) {
	records, err := c.fetchAll(ctx, c.productsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products from strapi: %w", err)
	}

	out := &ports.ProductCatalog{Products: make([]*domain.Product, 0, len(records))}
	for _, raw := range records {
		p, err := MapProduct(raw, c.baseURL)
		if err != nil {
			u := unmapped(raw, err)
			c.logger.Warn().Err(err).Interface("strapiId", u.StrapiID).Msg("Unmappable product record")
			out.Unmapped = append(out.Unmapped, u)
			continue
		}
		out.Products = append(out.Products, p)
	}
	return out, nil
}

// FetchFeatured downloads and maps all featured items
func (c *client) FetchFeatured(ctx context.Context) (*ports.FeaturedCatalog, error) {
	records, err := c.fetchAll(ctx, c.featuredPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured items from strapi: %w", err)
	}

	out := &ports.FeaturedCatalog{Items: make([]*domain.Featured, 0, len(records))}
	for _, raw := range records {
		f, err := MapFeatured(raw, c.baseURL)
		if err != nil {
			u := unmapped(raw, err)
			c.logger.Warn().Err(err).Interface("strapiId", u.StrapiID).Msg("Unmappable featured record")
			out.Unmapped = append(out.Unmapped, u)
			continue
		}
		out.Items = append(out.Items, f)
	}
	return out, nil
}

func unmapped(raw map[string]interface{}, err error) ports.UnmappedRecord {
	return ports.UnmappedRecord{StrapiID: toID(flatten(raw)["id"]), Error: err.Error()}
}

type listResponse struct {
	Data []map[string]interface{} `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageCount int `json:"pageCount"`
		} `json:"pagination"`
	} `json:"meta"`
}

// fetchAll walks every page of a collection. The whole walk shares one
// deadline.
func (c *client) fetchAll(ctx context.Context, path string) ([]map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var all []map[string]interface{}
	for page := 1; ; page++ {
		if page > c.maxPages {
			return nil, fmt.Errorf("%s has more than %d pages", path, c.maxPages)
		}
		resp, err := c.fetchPage(ctx, path, page)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)

		pageCount := resp.Meta.Pagination.PageCount
		if pageCount == 0 || page >= pageCount || len(resp.Data) == 0 {
			break
		}
	}

	c.logger.Debug().Str("path", path).Int("records", len(all)).Msg("Fetched collection")
	return all, nil
}

func (c *client) fetchPage(ctx context.Context, path string, page int) (*listResponse, error) {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("sort", "id:asc")
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(defaultPageSize))
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return &out, nil
}
