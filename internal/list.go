package internal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal/model"
)

// ListView keeps the in-memory order collection in sync with the backend:
// one load on activation, then a reload per change-signal nudge. A reload
// replaces the collection wholesale, so an unsaved draft disappears once
// the create that made it obsolete lands.
type ListView struct {
	mu sync.Mutex

	repo   IRepository
	logger *zap.SugaredLogger

	orders  []model.Order
	lastErr error

	onSelect func(model.Order)
	onUpdate func()

	unsubscribe func()
	done        chan struct{}
	closed      bool
}

func NewListView(repo IRepository, logger *zap.SugaredLogger) *ListView {
	return &ListView{
		repo:   repo,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// OnSelect registers the container hook receiving the picked order.
func (l *ListView) OnSelect(fn func(model.Order)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onSelect = fn
}

// OnUpdate registers a hook invoked after every reload, so the container
// can redraw.
func (l *ListView) OnUpdate(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onUpdate = fn
}

// Activate performs the initial load and starts reloading on every
// change-signal nudge until Close.
func (l *ListView) Activate(ctx context.Context) {
	ch, unsubscribe := l.repo.Changes().Subscribe()

	l.mu.Lock()
	l.unsubscribe = unsubscribe
	l.mu.Unlock()

	l.Reload(ctx)

	go func() {
		for {
			select {
			case <-l.done:
				return
			case <-ch:
				l.Reload(ctx)
			}
		}
	}()
}

// Reload replaces the collection with the backend's current one. On failure
// the stale collection is kept and the error exposed through Err.
func (l *ListView) Reload(ctx context.Context) {
	orders, err := l.repo.ListOrders(ctx)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.logger.Errorf("reload orders: %s", err.Error())
		l.lastErr = err
	} else {
		l.lastErr = nil
		l.orders = orders
	}
	onUpdate := l.onUpdate
	l.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
}

func (l *ListView) Orders() []model.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders := make([]model.Order, len(l.orders))
	copy(orders, l.orders)
	return orders
}

// Err reports the failure of the most recent reload, nil after a success.
func (l *ListView) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *ListView) CreationInProgress() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draftIndex() >= 0
}

func (l *ListView) draftIndex() int {
	for i, o := range l.orders {
		if o.ID == 0 {
			return i
		}
	}
	return -1
}

// AddDraft appends the unsaved sentinel order and selects it. Only one
// draft may exist at a time.
func (l *ListView) AddDraft() (model.Order, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return model.Order{}, ErrViewClosed
	}
	if l.draftIndex() >= 0 {
		l.mu.Unlock()
		return model.Order{}, ErrDraftInProgress
	}

	draft := model.DraftOrder()
	l.orders = append(l.orders, draft)
	onSelect := l.onSelect
	l.mu.Unlock()

	if onSelect != nil {
		onSelect(draft)
	}
	return draft, nil
}

// Select emits the order at position i to the container.
func (l *ListView) Select(i int) error {
	l.mu.Lock()
	if i < 0 || i >= len(l.orders) {
		l.mu.Unlock()
		return ErrNoSuchOrder
	}
	order := l.orders[i]
	onSelect := l.onSelect
	l.mu.Unlock()

	if onSelect != nil {
		onSelect(order)
	}
	return nil
}

func (l *ListView) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	unsubscribe := l.unsubscribe
	l.mu.Unlock()

	close(l.done)
	if unsubscribe != nil {
		unsubscribe()
	}
}
