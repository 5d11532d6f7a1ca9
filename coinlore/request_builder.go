package coinlore

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const (
	// DefaultBaseURL is the public CoinLore API root
	DefaultBaseURL = "https://api.coinlore.net/api"

	tickersPath = "/tickers/"
	tickerPath  = "/ticker/"
)

// buildURL safely combines a base URL with a path
func buildURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder assembles price API URLs
type RequestBuilder struct {
	baseURL string
	apiPath string
	params  map[string]string
}

// NewRequestBuilder creates a builder for path under baseURL
func NewRequestBuilder(baseURL, apiPath string) *RequestBuilder {
	return &RequestBuilder{
		baseURL: baseURL,
		apiPath: apiPath,
		params:  make(map[string]string),
	}
}

// With adds a query parameter
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	rb.params[key] = value
	return rb
}

// WithLimit adds start=0 and limit for list endpoints
func (rb *RequestBuilder) WithLimit(limit int) *RequestBuilder {
	rb.params["start"] = "0"
	rb.params["limit"] = fmt.Sprintf("%d", limit)
	return rb
}

// WithID adds the numeric asset id
func (rb *RequestBuilder) WithID(numericID string) *RequestBuilder {
	if numericID != "" {
		rb.params["id"] = numericID
	}
	return rb
}

// BuildURL builds the complete URL with a stable parameter order
func (rb *RequestBuilder) BuildURL() string {
	fullPath := buildURL(rb.baseURL, rb.apiPath)

	keys := make([]string, 0, len(rb.params))
	for key := range rb.params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	query := url.Values{}
	for _, key := range keys {
		query.Add(key, rb.params[key])
	}

	if encoded := query.Encode(); encoded != "" {
		return fullPath + "?" + encoded
	}
	return fullPath
}
