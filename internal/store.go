package internal

import (
	"sync"

	"github.com/dgromov/ordersui/internal/model"
)

// Store is the in-memory order collection behind the stub api.
type Store struct {
	mu     sync.Mutex
	orders []model.Order
	nextID int
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) List() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]model.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

func (s *Store) Create(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID
	s.nextID++
	s.orders = append(s.orders, o)
	return o
}

func (s *Store) Update(o model.Order) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = o
			return o, true
		}
	}
	return model.Order{}, false
}
