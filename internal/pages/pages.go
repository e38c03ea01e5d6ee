// Package pages builds the data behind each storefront page: the listing
// home, a category page and a product detail page. Loaders return client
// errors untouched; rendering a failure is the caller's job.
package pages

import (
	"context"
	"fmt"

	"github.com/five82/shelf/internal/catalog"
)

const siteName = "Shelf"

// Meta is the head metadata of a page.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Keywords    string `json:"keywords"`
}

// HomePage is the product listing landing page. Its products come from a
// state.Coordinator, not from the loader.
type HomePage struct {
	Meta Meta `json:"meta"`
}

// CategoryPage lists every product in one category.
type CategoryPage struct {
	Name  string            `json:"name"`
	Items []catalog.Product `json:"items"`
}

// ProductPage is a product detail page.
type ProductPage struct {
	Product catalog.Product `json:"product"`
	Meta    Meta            `json:"meta"`
}

// Source is the subset of the catalog client the loaders need.
type Source interface {
	FetchItemByID(ctx context.Context, id int) (catalog.Product, error)
	FetchItemsByCategory(ctx context.Context, category string) ([]catalog.Product, error)
}

// Home returns the landing page metadata.
func Home() HomePage {
	return HomePage{Meta: Meta{
		Title:       siteName + " | Products",
		Description: "Browse and discover products from the catalog.",
		Keywords:    "ecommerce, catalog, storefront, shelf",
	}}
}

// Category loads the products of the named category.
func Category(ctx context.Context, src Source, name string) (CategoryPage, error) {
	items, err := src.FetchItemsByCategory(ctx, name)
	if err != nil {
		return CategoryPage{}, err
	}
	if items == nil {
		items = []catalog.Product{}
	}
	return CategoryPage{Name: name, Items: items}, nil
}

// Product loads a product and derives its page metadata.
func Product(ctx context.Context, src Source, id int) (ProductPage, error) {
	product, err := src.FetchItemByID(ctx, id)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Product: product,
		Meta: Meta{
			Title:       fmt.Sprintf("%s | %s", product.Title, siteName),
			Description: product.Description,
			Image:       product.Image,
			Keywords:    fmt.Sprintf("%s, %s, %s", product.Category, product.Title, siteName),
		},
	}, nil
}
