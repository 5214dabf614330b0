package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal/model"
)

const ordersPath = "/api/orders"

type IRepository interface {
	ListOrders(context.Context) ([]model.Order, error)
	CreateOrder(context.Context, model.Order) (model.Order, error)
	UpdateOrder(context.Context, model.Order) (model.Order, error)
	Changes() *Signal
}

type Repository struct {
	client  *http.Client
	baseURL string
	changes *Signal
	logger  *zap.SugaredLogger
}

func NewRepository(baseURL string, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		changes: NewSignal(),
		logger:  logger,
	}
}

// Changes carries "collection changed" nudges. The repository never
// publishes on its own: callers publish after a successful create/update.
func (r *Repository) Changes() *Signal { return r.changes }

func (r *Repository) ListOrders(ctx context.Context) ([]model.Order, error) {
	body, err := r.makeRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	if err = json.Unmarshal(body, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	order.ID = 0
	return r.sendOrder(ctx, http.MethodPost, order)
}

func (r *Repository) UpdateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	return r.sendOrder(ctx, http.MethodPut, order)
}

func (r *Repository) sendOrder(ctx context.Context, method string, order model.Order) (model.Order, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return model.Order{}, err
	}

	body, err := r.makeRequest(ctx, method, bytes.NewReader(payload))
	if err != nil {
		return model.Order{}, err
	}

	var saved model.Order
	if err = json.Unmarshal(body, &saved); err != nil {
		return model.Order{}, err
	}
	return saved, nil
}

func (r *Repository) makeRequest(ctx context.Context, method string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+ordersPath, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		r.logger.Errorf("orders api %s returned %d: %s", method, res.StatusCode, buf.String())
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, res.StatusCode)
	}

	return buf.Bytes(), nil
}
