// Package products fetches product metadata (main language, uploaded
// image IDs) from the product database HTTP API. The evaluation core never
// talks to the network; this client materializes its inputs beforehand.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/nutripick/nutripick/internal/lang"
)

// ErrProductNotFound is returned when the API has no product for a barcode.
var ErrProductNotFound = errors.New("product not found")

// Product is the metadata subset evaluation needs.
type Product struct {
	Barcode      string
	MainLanguage string
	ImageIDs     []int
}

// Client is a product API HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new product API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// productResponse mirrors the API envelope. Raw uploaded images are keyed
// by their numeric upload ID; selected renditions ("front_fr", ...) share
// the same map and are skipped.
type productResponse struct {
	StatusVerbose string `json:"status_verbose"`
	Product       struct {
		Lang   string                     `json:"lang"`
		Images map[string]json.RawMessage `json:"images"`
	} `json:"product"`
}

// GetProduct fetches a product's main language and uploaded image IDs.
// Transient failures (network errors, 5xx) are retried a few times before
// giving up.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*Product, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json?fields=lang,images", c.baseURL, barcode)

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return retry.Unrecoverable(ErrProductNotFound)
			}
			if resp.StatusCode >= 500 {
				return fmt.Errorf("product API status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("product API status %d", resp.StatusCode))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", barcode, err)
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", barcode, err)
	}
	if pr.StatusVerbose != "product found" {
		return nil, ErrProductNotFound
	}

	product := &Product{Barcode: barcode}
	if canon, ok := lang.Canonical(pr.Product.Lang); ok {
		product.MainLanguage = canon
	}
	for key := range pr.Product.Images {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue // selected rendition, not a raw upload
		}
		product.ImageIDs = append(product.ImageIDs, id)
	}
	sort.Ints(product.ImageIDs)

	return product, nil
}
