package product

import (
	"errors"
	"path/filepath"
	"strings"

	"MiniShop/internal/jsonstore"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Store struct {
	col *jsonstore.Collection[Product]
}

func NewStore(dataDir string) *Store {
	return &Store{col: jsonstore.NewCollection[Product](filepath.Join(dataDir, "products.json"))}
}

func (s *Store) List() []Product {
	return s.col.Load()
}

func (s *Store) Get(id int) (Product, error) {
	for _, p := range s.col.Load() {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// FindByName returns the first case-insensitive match. Name uniqueness is
// not enforced on create, so later duplicates are unreachable through this
// lookup.
func (s *Store) FindByName(name string) (Product, error) {
	for _, p := range s.col.Load() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *Store) Create(name string, price float64) (Product, error) {
	products := s.col.Load()
	p := Product{
		ID:    jsonstore.NextID(products, func(p Product) int { return p.ID }),
		Name:  name,
		Price: price,
	}
	products = append(products, p)
	if err := s.col.Save(products); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Store) Update(id int, mutate func(*Product)) error {
	products := s.col.Load()
	for i := range products {
		if products[i].ID == id {
			mutate(&products[i])
			return s.col.Save(products)
		}
	}
	return ErrNotFound
}

func (s *Store) Delete(id int) error {
	products := s.col.Load()
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}
	return s.col.Save(kept)
}
