package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lacasa/internal/domain"
	"lacasa/internal/repos"
)

type CatalogService struct {
	Cats   *repos.CategoryRepo
	Prods  *repos.ProductRepo
	Pizzas *repos.PizzaRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, pizzas *repos.PizzaRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Pizzas: pizzas}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProductsByCategory(cat domain.CategoryKey) ([]domain.Product, error) {
	return s.Prods.ListByCategory(cat)
}

func (s *CatalogService) ListProducts() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	return p, err
}

func (s *CatalogService) ListSizes() ([]domain.PizzaSize, error) {
	return s.Pizzas.Sizes()
}

func (s *CatalogService) GetSize(id string) (domain.PizzaSize, error) {
	sz, err := s.Pizzas.Size(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PizzaSize{}, fmt.Errorf("%w: %s", ErrUnknownSize, id)
	}
	return sz, err
}

func (s *CatalogService) ListFlavors() ([]domain.FlavorCategory, error) {
	return s.Pizzas.FlavorCategories()
}

func (s *CatalogService) FlavorExists(name string) (bool, error) {
	return s.Pizzas.FlavorExists(name)
}

// Menu is what one category tab shows: pizza sizes for pizzas, products
// otherwise.
type Menu struct {
	Category domain.CategoryKey
	Sizes    []domain.PizzaSize
	Products []domain.Product
}

func (m Menu) Empty() bool { return len(m.Sizes) == 0 && len(m.Products) == 0 }

func (s *CatalogService) Menu(cat domain.CategoryKey) (Menu, error) {
	m := Menu{Category: cat}
	var err error
	if cat == domain.CategoryPizzas {
		m.Sizes, err = s.ListSizes()
	} else {
		m.Products, err = s.ListProductsByCategory(cat)
	}
	return m, err
}

// searchLimit caps how many products one search returns.
const searchLimit = 20

// SearchResult holds the products and pizza flavors whose name or description
// matches a keyword.
type SearchResult struct {
	Query    string
	Products []domain.Product
	Flavors  []domain.Flavor
}

func (r SearchResult) Count() int { return len(r.Products) + len(r.Flavors) }

// Search looks q up in the menu. A non-empty cat limits products to that
// category; flavors are only searched for pizzas or when no category is given.
func (s *CatalogService) Search(q string, cat domain.CategoryKey) (SearchResult, error) {
	q = strings.ToLower(q)
	res := SearchResult{Query: q}
	var err error
	if res.Products, err = s.Prods.Search(q, cat, searchLimit); err != nil {
		return SearchResult{}, err
	}
	if cat != "" && cat != domain.CategoryPizzas {
		return res, nil
	}
	groups, err := s.ListFlavors()
	if err != nil {
		return SearchResult{}, err
	}
	for _, g := range groups {
		for _, f := range g.Flavors {
			if strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Description), q) {
				res.Flavors = append(res.Flavors, f)
			}
		}
	}
	return res, nil
}
