package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/listing"
	"github.com/five82/shelf/internal/pages"
	"github.com/five82/shelf/internal/state"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Catalog *catalogHealth `json:"catalog,omitempty"`
}

type catalogHealth struct {
	HasData     bool      `json:"has_data"`
	Stale       bool      `json:"stale"`
	LastUpdated time.Time `json:"last_updated"`
	LastError   string    `json:"last_error,omitempty"`
}

type productsResponse struct {
	Meta  pages.Meta         `json:"meta"`
	Query queryEcho          `json:"query"`
	Page  catalog.PageResult `json:"page"`
}

type queryEcho struct {
	Search   string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	Sort     string `json:"sort"`
}

type categoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{Status: "ok"}
	if s.store != nil {
		snap := s.store.Snapshot()
		resp.Catalog = &catalogHealth{
			HasData:     snap.HasData,
			Stale:       snap.IsStale(),
			LastUpdated: snap.LastUpdated,
		}
		if snap.LastError != nil {
			resp.Catalog.LastError = snap.LastError.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleProducts(c *gin.Context) {
	page, ok := positiveParam(c, "page", 1)
	if !ok {
		return
	}
	size, ok := positiveParam(c, "size", s.pageSize)
	if !ok {
		return
	}
	query := listing.Query{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Sort:     listing.ParseSortKey(c.Query("sort")),
	}

	items, err := s.allItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	result, err := catalog.Paginate(query.Apply(items), size, page)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	respond(c, productsResponse{
		Meta:  pages.Home().Meta,
		Query: queryEcho{Search: query.Search, Category: query.Category, Sort: string(query.Sort)},
		Page:  result,
	})
}

func (s *Server) handleProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "product id must be a positive integer")
		return
	}

	ctx := c.Request.Context()
	done := startTiming(ctx, "catalog")
	page, err := pages.Product(ctx, s.source, id)
	done()
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, page)
}

func (s *Server) handleCategories(c *gin.Context) {
	if snap, ok := s.snapshot(); ok {
		respond(c, categoriesResponse{Categories: nonNil(snap.Categories)})
		return
	}

	ctx := c.Request.Context()
	done := startTiming(ctx, "catalog")
	categories, err := s.source.FetchCategories(ctx)
	done()
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, categoriesResponse{Categories: nonNil(categories)})
}

func (s *Server) handleCategory(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		badRequest(c, "category name is required")
		return
	}

	ctx := c.Request.Context()
	done := startTiming(ctx, "catalog")
	page, err := pages.Category(ctx, s.source, name)
	done()
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, page)
}

// allItems reads the refreshed snapshot when one is available and falls
// back to a live fetch otherwise.
func (s *Server) allItems(ctx context.Context) ([]catalog.Product, error) {
	if snap, ok := s.snapshot(); ok {
		return snap.Items, nil
	}
	done := startTiming(ctx, "catalog")
	defer done()
	return s.source.FetchAllItems(ctx)
}

func (s *Server) snapshot() (state.CatalogSnapshot, bool) {
	if s.store == nil {
		return state.CatalogSnapshot{}, false
	}
	snap := s.store.Snapshot()
	return snap, snap.HasData
}

func positiveParam(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func startTiming(ctx context.Context, name string) func() {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return func() {}
	}
	metric := timing.NewMetric(name).Start()
	return func() { metric.Stop() }
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
