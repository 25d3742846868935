// Package catalog is the fixed table of destinations offered by the site and
// the keyword search over it.
package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Category groups destinations on a listing page.
type Category string

// Known categories.
const (
	CategoryHiking  Category = "hiking"
	CategoryCities  Category = "cities"
	CategoryIslands Category = "islands"
)

// Destination is one catalog entry. Name is also the value stored in
// want-to-go lists.
type Destination struct {
	Name     string
	Slug     string
	Category Category
	Summary  string
}

// Route returns the path of the destination page.
func (d Destination) Route() string {
	return "/" + d.Slug
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	destinations []Destination
	folded       []string
	bySlug       map[string]Destination
	categories   []Category
}

// New returns a catalog over dests, keeping their order.
func New(dests []Destination) *Catalog {
	c := &Catalog{
		destinations: slices.Clone(dests),
		folded:       make([]string, 0, len(dests)),
		bySlug:       make(map[string]Destination, len(dests)),
	}

	fold := cases.Fold()
	for _, d := range c.destinations {
		c.folded = append(c.folded, fold.String(d.Name))
		c.bySlug[d.Slug] = d

		if !slices.Contains(c.categories, d.Category) {
			c.categories = append(c.categories, d.Category)
		}
	}

	return c
}

// Default returns the catalog served by the site.
func Default() *Catalog {
	return New([]Destination{{
		Name:     "Rome",
		Slug:     "rome",
		Category: CategoryCities,
		Summary:  "The Eternal City: the Colosseum, the Forum and the Vatican.",
	}, {
		Name:     "Paris",
		Slug:     "paris",
		Category: CategoryCities,
		Summary:  "Boulevards, museums and the Eiffel Tower.",
	}, {
		Name:     "Bali",
		Slug:     "bali",
		Category: CategoryIslands,
		Summary:  "Rice terraces, temples and surf beaches.",
	}, {
		Name:     "Santorini",
		Slug:     "santorini",
		Category: CategoryIslands,
		Summary:  "White villages on the rim of a flooded caldera.",
	}, {
		Name:     "Inca Trail to Machu Picchu",
		Slug:     "inca",
		Category: CategoryHiking,
		Summary:  "Four days on stone paths to the Sun Gate.",
	}, {
		Name:     "Annapurna Circuit",
		Slug:     "annapurna",
		Category: CategoryHiking,
		Summary:  "A high loop around the Annapurna massif over Thorong La.",
	}})
}

// Search returns the destinations whose name contains keyword, ignoring case,
// in catalog order. An empty keyword matches everything. The result is never
// nil.
func (c *Catalog) Search(keyword string) []Destination {
	// Casers are stateful, so each call gets its own.
	needle := cases.Fold().String(keyword)

	res := []Destination{}
	for i, name := range c.folded {
		if strings.Contains(name, needle) {
			res = append(res, c.destinations[i])
		}
	}

	return res
}

// Lookup returns the destination with the given slug.
func (c *Catalog) Lookup(slug string) (d Destination, ok bool) {
	d, ok = c.bySlug[slug]

	return d, ok
}

// ByCategory returns the destinations of cat in catalog order.
func (c *Catalog) ByCategory(cat Category) []Destination {
	res := []Destination{}
	for _, d := range c.destinations {
		if d.Category == cat {
			res = append(res, d)
		}
	}

	return res
}

// Categories returns the categories in order of first appearance.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// IsCategory reports whether name is a known category.
func (c *Catalog) IsCategory(name string) bool {
	return slices.Contains(c.categories, Category(name))
}

// All returns every destination in catalog order.
func (c *Catalog) All() []Destination {
	return slices.Clone(c.destinations)
}
