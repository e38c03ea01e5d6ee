// Package server exposes the storefront over HTTP as JSON.
//
// # Routes
//
//   - GET /healthz: liveness plus the state of the refreshed catalog
//   - GET /api/products?page&size&q&category&sort: filter, sort and paginate
//     the full catalog, with the landing page metadata
//   - GET /api/products/:id: product detail page with metadata
//   - GET /api/categories: category names
//   - GET /api/category/:name: every product in a category
//
// # Middleware
//
// Every request gets an X-Request-ID (propagated or a new UUID), an access
// log line on the configured slog.Logger, and panic recovery. JSON bodies
// carry a weak ETag derived from an xxhash of the body; a matching
// If-None-Match yields 304. Upstream catalog calls are reported in the
// Server-Timing header.
//
// # Errors
//
// A catalog.RequestError with a 4xx status keeps that status. Any other
// upstream failure is 502. Malformed query values are 400. Error bodies are
// {"error": "..."}.
package server
