package state

import (
	"context"
	"log/slog"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/observable"
)

// Phase is the lifecycle stage of the item list.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseErrored:
		return "errored"
	default:
		return "idle"
	}
}

const (
	// DefaultPageSize matches the storefront's six-card grid.
	DefaultPageSize = 6

	itemsFallbackMessage      = "Failed to load products"
	categoriesFallbackMessage = "Failed to load categories"
)

// PageSource provides paged products and categories.
// *catalog.Client satisfies it.
type PageSource interface {
	FetchPage(ctx context.Context, pageSize, page int) (catalog.PageResult, error)
	FetchCategories(ctx context.Context) ([]catalog.Category, error)
}

// Coordinator owns the observable state of a product listing view and
// drives the catalog fetches behind it.
//
// Loads are not cancelled when a newer one starts; whichever finishes last
// wins.
type Coordinator struct {
	source   PageSource
	cache    cache.Cache
	pageSize int
	logger   *slog.Logger

	Phase       *observable.Value[Phase]
	Loading     *observable.Value[bool]
	Error       *observable.Value[string]
	CurrentPage *observable.Value[int]
	TotalPages  *observable.Value[int]
	Items       *observable.Value[[]catalog.Product]
	Categories  *observable.Value[[]catalog.Category]
}

// CoordinatorOptions configure NewCoordinator.
type CoordinatorOptions struct {
	// Cache is shared between coordinators; nil gets a private in-memory one.
	Cache    cache.Cache
	PageSize int
	Logger   *slog.Logger
}

// NewCoordinator returns an idle Coordinator reading from source.
func NewCoordinator(source PageSource, opts CoordinatorOptions) *Coordinator {
	c := &Coordinator{
		source:   source,
		cache:    opts.Cache,
		pageSize: opts.PageSize,
		logger:   opts.Logger,

		Phase:       observable.New(PhaseIdle),
		Loading:     observable.New(false),
		Error:       observable.New(""),
		CurrentPage: observable.New(1),
		TotalPages:  observable.New(1),
		Items:       observable.New[[]catalog.Product](nil),
		Categories:  observable.New[[]catalog.Category](nil),
	}
	if c.cache == nil {
		c.cache = &cache.Memory{}
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// PageSize returns the number of items per page.
func (c *Coordinator) PageSize() int {
	return c.pageSize
}

// Initialize reuses a cached product list when one exists and loads page 1
// otherwise. Categories are always fetched.
func (c *Coordinator) Initialize(ctx context.Context) {
	if c.cache.Has(ctx) {
		items, err := c.cache.Get(ctx)
		if err == nil && len(items) > 0 {
			c.logger.DebugContext(ctx, "reusing cached products", "count", len(items))
			c.Items.Set(items)
			c.Loading.Set(false)
			c.Phase.Set(PhaseReady)
			c.LoadCategories(ctx)
			return
		}
		if err != nil {
			c.logger.WarnContext(ctx, "read product cache", "err", err)
		}
	}
	c.LoadItems(ctx, 1)
	c.LoadCategories(ctx)
}

// LoadItems fetches the given page. The outcome lands in Items, TotalPages
// and CurrentPage on success or in Error on failure; Loading is cleared
// either way.
func (c *Coordinator) LoadItems(ctx context.Context, page int) {
	c.Loading.Set(true)
	c.Error.Set("")
	c.Phase.Set(PhaseLoading)

	result, err := c.source.FetchPage(ctx, c.pageSize, page)
	if err != nil {
		c.Error.Set(errorMessage(err, itemsFallbackMessage))
		c.Loading.Set(false)
		c.Phase.Set(PhaseErrored)
		return
	}

	c.Items.Set(result.Items)
	c.TotalPages.Set(result.TotalPages)
	c.CurrentPage.Set(page)
	if err := c.cache.Set(ctx, result.Items); err != nil {
		c.logger.WarnContext(ctx, "write product cache", "err", err)
	}
	c.Loading.Set(false)
	c.Phase.Set(PhaseReady)
}

// LoadCategories refreshes Categories. A failure is reported through Error
// and leaves the item list state alone.
func (c *Coordinator) LoadCategories(ctx context.Context) {
	cats, err := c.source.FetchCategories(ctx)
	if err != nil {
		c.Error.Set(errorMessage(err, categoriesFallbackMessage))
		return
	}
	c.Categories.Set(cats)
}

// NextPage loads the page after the current one, if any.
func (c *Coordinator) NextPage(ctx context.Context) bool {
	next := c.CurrentPage.Get() + 1
	if next > c.TotalPages.Get() {
		return false
	}
	c.LoadItems(ctx, next)
	return true
}

// PrevPage loads the page before the current one, if any.
func (c *Coordinator) PrevPage(ctx context.Context) bool {
	prev := c.CurrentPage.Get() - 1
	if prev < 1 {
		return false
	}
	c.LoadItems(ctx, prev)
	return true
}

// View is a point-in-time copy of the coordinator's observable fields.
type View struct {
	Phase       Phase
	Loading     bool
	Error       string
	CurrentPage int
	TotalPages  int
	Items       []catalog.Product
	Categories  []catalog.Category
}

// Snapshot reads every observable field.
func (c *Coordinator) Snapshot() View {
	return View{
		Phase:       c.Phase.Get(),
		Loading:     c.Loading.Get(),
		Error:       c.Error.Get(),
		CurrentPage: c.CurrentPage.Get(),
		TotalPages:  c.TotalPages.Get(),
		Items:       c.Items.Get(),
		Categories:  c.Categories.Get(),
	}
}

// OnChange calls fn after any observable field changes and returns a
// function that stops the notifications.
func (c *Coordinator) OnChange(fn func()) func() {
	unsubs := []func(){
		subscribeSkipFirst(c.Phase, fn),
		subscribeSkipFirst(c.Loading, fn),
		subscribeSkipFirst(c.Error, fn),
		subscribeSkipFirst(c.CurrentPage, fn),
		subscribeSkipFirst(c.TotalPages, fn),
		subscribeSkipFirst(c.Items, fn),
		subscribeSkipFirst(c.Categories, fn),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func subscribeSkipFirst[T any](v *observable.Value[T], fn func()) func() {
	primed := false
	return v.Subscribe(func(T) {
		if !primed {
			primed = true
			return
		}
		fn()
	})
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
