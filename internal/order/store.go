package order

import (
	"errors"
	"path/filepath"

	"MiniShop/internal/jsonstore"
)

const StatusPending = "pending"

// StatusCanceled is the only status a non-admin owner may set.
const StatusCanceled = "canceled"

var ErrNotFound = errors.New("order not found")

// Order carries a denormalized copy of the product name, not a reference.
// Product price changes after creation never touch existing orders.
type Order struct {
	ID          int     `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	UserID      int     `json:"user_id"`
}

type Store struct {
	col *jsonstore.Collection[Order]
}

func NewStore(dataDir string) *Store {
	return &Store{col: jsonstore.NewCollection[Order](filepath.Join(dataDir, "orders.json"))}
}

func (s *Store) Create(o Order) (Order, error) {
	orders := s.col.Load()
	o.ID = jsonstore.NextID(orders, func(o Order) int { return o.ID })
	orders = append(orders, o)
	if err := s.col.Save(orders); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *Store) Get(id int) (Order, error) {
	for _, o := range s.col.Load() {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (s *Store) List() []Order {
	return s.col.Load()
}

func (s *Store) ListByUser(userID int) []Order {
	var out []Order
	for _, o := range s.col.Load() {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Update applies mutate to the record with the given id. When mutate fails
// nothing is written.
func (s *Store) Update(id int, mutate func(*Order) error) error {
	orders := s.col.Load()
	for i := range orders {
		if orders[i].ID == id {
			if err := mutate(&orders[i]); err != nil {
				return err
			}
			return s.col.Save(orders)
		}
	}
	return ErrNotFound
}

func (s *Store) Delete(id int) error {
	orders := s.col.Load()
	kept := orders[:0]
	found := false
	for _, o := range orders {
		if o.ID == id {
			found = true
			continue
		}
		kept = append(kept, o)
	}
	if !found {
		return ErrNotFound
	}
	return s.col.Save(kept)
}
