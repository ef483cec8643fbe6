package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Product is the slice of catalog data a QR code display needs.
type Product struct {
	Title    string
	ImageURL *string
	ImageAlt *string
}

// Client answers point lookups against the merchant's product catalog.
// A (nil, nil) return means the catalog no longer has the product; a non-nil
// error is a transport failure and must never be read as "deleted".
type Client interface {
	Product(ctx context.Context, productID string) (*Product, error)
}

const productQuery = `
	query supplementQRCode($id: ID!) {
		product(id: $id) {
			title
			images(first: 1) {
				nodes {
					altText
					url
				}
			}
		}
	}
`

// GraphQLClient talks to the catalog's admin GraphQL endpoint.
type GraphQLClient struct {
	endpoint string
	token    string
	http     *http.Client
}

func NewGraphQLClient(endpoint, token string, timeout time.Duration) *GraphQLClient {
	return &GraphQLClient{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *GraphQLClient) Product(ctx context.Context, productID string) (*Product, error) {
	reqBody, err := json.Marshal(map[string]interface{}{
		"query": productQuery,
		"variables": map[string]string{
			"id": productID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog request encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog query: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Data *struct {
			Product *struct {
				Title  string `json:"title"`
				Images struct {
					Nodes []struct {
						AltText *string `json:"altText"`
						URL     string  `json:"url"`
					} `json:"nodes"`
				} `json:"images"`
			} `json:"product"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("catalog response decode: %w", err)
	}

	// GraphQL failures (throttling, bad query) come back as HTTP 200 with an
	// errors array and null data. That is a transport failure, not a deleted
	// product.
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("catalog query: %s", result.Errors[0].Message)
	}
	if result.Data == nil {
		return nil, fmt.Errorf("catalog query: response carried no data")
	}

	p := result.Data.Product
	if p == nil || p.Title == "" {
		// Explicit not-found: the product was removed after the code was
		// created. Valid, displayable state.
		return nil, nil
	}

	out := &Product{Title: p.Title}
	if len(p.Images.Nodes) > 0 {
		out.ImageURL = &p.Images.Nodes[0].URL
		out.ImageAlt = p.Images.Nodes[0].AltText
	}
	return out, nil
}
