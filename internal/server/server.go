package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

// Options configure a Server. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// Store, when set, serves list endpoints from a refreshed snapshot
	// instead of fetching the catalog on every request.
	Store *state.CatalogStore
	// PageSize is used when a request has no size parameter.
	PageSize int
}

// Server is the HTTP JSON frontend over the catalog.
type Server struct {
	source   catalog.Fetcher
	store    *state.CatalogStore
	logger   *slog.Logger
	pageSize int
	engine   *gin.Engine
}

// New wires the routes and middleware.
func New(source catalog.Fetcher, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = state.DefaultPageSize
	}

	s := &Server{
		source:   source,
		store:    opts.Store,
		logger:   logger,
		pageSize: pageSize,
		engine:   gin.New(),
	}
	s.engine.Use(RequestID(), Logger(logger), Recovery(logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/products", s.handleProducts)
	api.GET("/products/:id", s.handleProduct)
	api.GET("/categories", s.handleCategories)
	api.GET("/category/:name", s.handleCategory)
}

// Handler returns the root handler, including the Server-Timing header.
func (s *Server) Handler() http.Handler {
	return servertiming.Middleware(s.engine, nil)
}
