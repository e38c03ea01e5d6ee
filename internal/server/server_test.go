package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	items      []catalog.Product
	categories []catalog.Category
	err        error
	panicMsg   string
	calls      int
}

func (f *fakeFetcher) FetchAllItems(context.Context) ([]catalog.Product, error) {
	f.calls++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeFetcher) FetchItemByID(_ context.Context, id int) (catalog.Product, error) {
	f.calls++
	if f.err != nil {
		return catalog.Product{}, f.err
	}
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return catalog.Product{}, &catalog.RequestError{Status: http.StatusNotFound, Message: "api /products returned status 404"}
}

func (f *fakeFetcher) FetchCategories(context.Context) ([]catalog.Category, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeFetcher) FetchItemsByCategory(_ context.Context, category string) ([]catalog.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []catalog.Product
	for _, item := range f.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

func sampleItems(n int) []catalog.Product {
	items := make([]catalog.Product, n)
	for i := range items {
		category := "clothing"
		if i%2 == 0 {
			category = "electronics"
		}
		items[i] = catalog.Product{
			ID:       i + 1,
			Title:    fmt.Sprintf("Item %02d", i+1),
			Price:    decimal.NewFromInt(int64(i + 1)),
			Category: category,
			Image:    fmt.Sprintf("https://img.example/%d.png", i+1),
			Rating:   catalog.Rating{Rate: float64(i%5) + 0.5, Count: i},
		}
	}
	return items
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(f catalog.Fetcher, store *state.CatalogStore) http.Handler {
	return New(f, Options{Logger: quietLogger(), Store: store}).Handler()
}

func get(t *testing.T, h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func ids(items []catalog.Product) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestProducts_PaginatesCatalog(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(20)}, nil)

	rec := get(t, h, "/api/products?page=2&size=6", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	resp := decode[productsResponse](t, rec)
	if got, want := fmt.Sprint(ids(resp.Page.Items)), "[7 8 9 10 11 12]"; got != want {
		t.Fatalf("ids = %s, want %s", got, want)
	}
	if resp.Page.TotalPages != 4 || resp.Page.CurrentPage != 2 || resp.Page.TotalItems != 20 {
		t.Fatalf("page = %+v, want totalPages 4 currentPage 2 totalItems 20", resp.Page)
	}
	if resp.Meta.Title != "Shelf | Products" {
		t.Fatalf("meta title = %q", resp.Meta.Title)
	}
	if resp.Query.Sort != "name" {
		t.Fatalf("sort = %q, want name", resp.Query.Sort)
	}
}

func TestProducts_DefaultPageSize(t *testing.T) {
	h := New(&fakeFetcher{items: sampleItems(20)}, Options{Logger: quietLogger(), PageSize: 5}).Handler()

	resp := decode[productsResponse](t, get(t, h, "/api/products", nil))
	if len(resp.Page.Items) != 5 || resp.Page.TotalPages != 4 {
		t.Fatalf("page = %d items / %d pages, want 5 / 4", len(resp.Page.Items), resp.Page.TotalPages)
	}
}

func TestProducts_FiltersAndSorts(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(10)}, nil)

	rec := get(t, h, "/api/products?category=electronics&sort=price-desc&size=10", nil)
	resp := decode[productsResponse](t, rec)
	if got, want := fmt.Sprint(ids(resp.Page.Items)), "[9 7 5 3 1]"; got != want {
		t.Fatalf("ids = %s, want %s", got, want)
	}

	rec = get(t, h, "/api/products?q=item%2010", nil)
	resp = decode[productsResponse](t, rec)
	if got, want := fmt.Sprint(ids(resp.Page.Items)), "[10]"; got != want {
		t.Fatalf("search ids = %s, want %s", got, want)
	}
}

func TestProducts_PastLastPageIsEmpty(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(3)}, nil)

	resp := decode[productsResponse](t, get(t, h, "/api/products?page=9", nil))
	if len(resp.Page.Items) != 0 || resp.Page.CurrentPage != 9 {
		t.Fatalf("page = %+v, want empty page 9", resp.Page)
	}
}

func TestProducts_RejectsBadQuery(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(3)}, nil)

	for _, target := range []string{
		"/api/products?page=0",
		"/api/products?page=abc",
		"/api/products?size=-2",
	} {
		rec := get(t, h, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", target, rec.Code)
		}
		if body := decode[errorBody](t, rec); body.Error == "" {
			t.Fatalf("%s error body empty", target)
		}
	}
}

func TestProducts_UpstreamFailureIsBadGateway(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{name: "server error", err: &catalog.RequestError{Status: 500, Message: "api /products returned status 500"}},
		{name: "transport", err: &catalog.RequestError{Message: "execute request: refused"}},
		{name: "plain error", err: errors.New("boom")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, newTestServer(&fakeFetcher{err: tc.err}, nil), "/api/products", nil)
			if rec.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", rec.Code)
			}
			if body := decode[errorBody](t, rec); body.Error != tc.err.Error() {
				t.Fatalf("error = %q, want %q", body.Error, tc.err.Error())
			}
		})
	}
}

func TestProduct_ReturnsPageWithMeta(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(3)}, nil)

	rec := get(t, h, "/api/products/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var page struct {
		Product catalog.Product `json:"product"`
		Meta    struct {
			Title    string `json:"title"`
			Keywords string `json:"keywords"`
			Image    string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Product.ID != 2 {
		t.Fatalf("product id = %d, want 2", page.Product.ID)
	}
	if page.Meta.Title != "Item 02 | Shelf" {
		t.Fatalf("title = %q", page.Meta.Title)
	}
	if page.Meta.Keywords != "clothing, Item 02, Shelf" {
		t.Fatalf("keywords = %q", page.Meta.Keywords)
	}
	if page.Meta.Image != "https://img.example/2.png" {
		t.Fatalf("image = %q", page.Meta.Image)
	}
}

func TestProduct_UpstreamNotFoundPassesThrough(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(3)}, nil)

	if rec := get(t, h, "/api/products/99", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec := get(t, h, "/api/products/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCategoriesAndCategoryPage(t *testing.T) {
	f := &fakeFetcher{items: sampleItems(4), categories: []catalog.Category{"clothing", "electronics"}}
	h := newTestServer(f, nil)

	cats := decode[categoriesResponse](t, get(t, h, "/api/categories", nil))
	if strings.Join(cats.Categories, ",") != "clothing,electronics" {
		t.Fatalf("categories = %v", cats.Categories)
	}

	var page struct {
		Name  string            `json:"name"`
		Items []catalog.Product `json:"items"`
	}
	rec := get(t, h, "/api/category/electronics", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Name != "electronics" || fmt.Sprint(ids(page.Items)) != "[1 3]" {
		t.Fatalf("page = %s %v, want electronics [1 3]", page.Name, ids(page.Items))
	}
}

func TestRespond_ETagAndNotModified(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(3)}, nil)

	first := get(t, h, "/api/products", nil)
	tag := first.Header().Get("ETag")
	if !strings.HasPrefix(tag, `W/"`) {
		t.Fatalf("ETag = %q, want weak tag", tag)
	}

	second := get(t, h, "/api/products", map[string]string{"If-None-Match": tag})
	if second.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Fatalf("304 body = %q, want empty", second.Body.String())
	}

	third := get(t, h, "/api/products?page=2&size=1", map[string]string{"If-None-Match": tag})
	if third.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a different body", third.Code)
	}
}

func TestMatchesETag(t *testing.T) {
	tag := `W/"00000000000000ff"`
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{tag, true},
		{`"00000000000000ff"`, true},
		{`"other", ` + tag, true},
		{"*", true},
		{`W/"0000000000000000"`, false},
	}
	for _, tc := range cases {
		if got := matchesETag(tc.header, tag); got != tc.want {
			t.Fatalf("matchesETag(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	h := newTestServer(&fakeFetcher{}, nil)

	rec := get(t, h, "/healthz", nil)
	if len(rec.Header().Get(HeaderRequestID)) != 36 {
		t.Fatalf("request id = %q, want a uuid", rec.Header().Get(HeaderRequestID))
	}

	rec = get(t, h, "/healthz", map[string]string{HeaderRequestID: "abc-123"})
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestServerTimingHeader(t *testing.T) {
	h := newTestServer(&fakeFetcher{items: sampleItems(2)}, nil)

	rec := get(t, h, "/api/products", nil)
	if got := rec.Header().Get("Server-Timing"); !strings.Contains(got, "catalog") {
		t.Fatalf("Server-Timing = %q, want a catalog metric", got)
	}
}

func TestRecovery_PanicBecomesInternalError(t *testing.T) {
	h := newTestServer(&fakeFetcher{panicMsg: "kaboom"}, nil)

	rec := get(t, h, "/api/products", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Error != "internal error" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestStoreBackedListing(t *testing.T) {
	store := &state.CatalogStore{}
	store.Update(sampleItems(8), []catalog.Category{"clothing", "electronics"}, nil)
	f := &fakeFetcher{err: errors.New("upstream down")}
	h := newTestServer(f, store)

	rec := get(t, h, "/api/products?size=4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 from snapshot", rec.Code)
	}
	resp := decode[productsResponse](t, rec)
	if resp.Page.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", resp.Page.TotalPages)
	}

	cats := decode[categoriesResponse](t, get(t, h, "/api/categories", nil))
	if len(cats.Categories) != 2 {
		t.Fatalf("categories = %v", cats.Categories)
	}
	if f.calls != 0 {
		t.Fatalf("fetcher calls = %d, want 0", f.calls)
	}
}

func TestStoreWithoutDataFallsBackToFetch(t *testing.T) {
	f := &fakeFetcher{items: sampleItems(2)}
	h := newTestServer(f, &state.CatalogStore{})

	if rec := get(t, h, "/api/products", nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if f.calls != 1 {
		t.Fatalf("fetcher calls = %d, want 1", f.calls)
	}
}

func TestHealth_ReportsSnapshot(t *testing.T) {
	store := &state.CatalogStore{}
	store.Update(nil, nil, errors.New("first"))
	store.Update(nil, nil, errors.New("second"))
	h := newTestServer(&fakeFetcher{}, store)

	resp := decode[healthResponse](t, get(t, h, "/healthz", nil))
	if resp.Status != "ok" || resp.Catalog == nil {
		t.Fatalf("health = %+v", resp)
	}
	if resp.Catalog.HasData || !resp.Catalog.Stale || resp.Catalog.LastError != "second" {
		t.Fatalf("catalog health = %+v", resp.Catalog)
	}
}

func TestProducts_PriceIsJSONNumber(t *testing.T) {
	item := sampleItems(1)[0]
	item.Price = decimal.RequireFromString("109.95")
	h := newTestServer(&fakeFetcher{items: []catalog.Product{item}}, nil)

	for _, target := range []string{"/api/products", "/api/products/1", "/api/category/electronics"} {
		rec := get(t, h, target, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"price":109.95`) {
			t.Fatalf("%s body = %s, want numeric price 109.95", target, rec.Body.String())
		}
	}
}

func TestCategoryPage_NameIsNotTrimmed(t *testing.T) {
	f := &fakeFetcher{items: sampleItems(4)}
	h := newTestServer(f, nil)

	var page struct {
		Name  string            `json:"name"`
		Items []catalog.Product `json:"items"`
	}
	rec := get(t, h, "/api/category/%20electronics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Name != " electronics" || len(page.Items) != 0 {
		t.Fatalf("page = %q %v, want \" electronics\" with no items", page.Name, ids(page.Items))
	}
}
