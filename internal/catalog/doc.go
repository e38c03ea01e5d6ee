// Package catalog provides an HTTP client for the product catalog API.
//
// # Overview
//
// The catalog is a read-only JSON API (fakestoreapi.com by default). Shelf
// pulls the whole product list in one request and pages through it on the
// client, so this package also owns the pagination arithmetic.
//
// # API Endpoints
//
//   - GET /products: every product, no server-side paging
//   - GET /products/{id}: a single product
//   - GET /products/categories: flat list of category labels
//   - GET /products/category/{category}: products in one category
//
// # Client Usage
//
//	client, err := catalog.NewClient("https://fakestoreapi.com", catalog.Options{})
//	if err != nil {
//		return err
//	}
//	page, err := client.FetchPage(ctx, 6, 1)
//
// # Error Handling
//
// Every failure surfaces as *RequestError, whatever went wrong:
//
//   - "execute request: dial tcp: connection refused" (Status 0)
//   - "api /products returned status 500" (Status 500)
//   - "decode response: unexpected EOF" (Status of the response)
//
// Failures are logged through the configured slog.Logger before they are
// returned. Use AsRequestError to read the status.
//
// # Request Handling
//
// Requests carry Accept: application/json and User-Agent: shelf/0.1. There
// are no retries and no caching. Timeout and request pacing are opt-in via
// Options; by default a request is bounded only by its context.
//
// # Telemetry
//
// Each request runs inside a "catalog.fetch" span and bumps the
// shelf.catalog.requests counter (and shelf.catalog.errors on failure).
// Without an OpenTelemetry SDK registered these are no-ops.
//
// # Pagination
//
// Paginate returns an empty page, not an error, for pages past the end and
// always echoes the requested page number. TotalPages is
// ceil(len(items)/pageSize), which is zero for an empty catalog.
package catalog
