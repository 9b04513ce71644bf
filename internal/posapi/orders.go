package posapi

import (
	"context"
	"net/http"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// ListOrders handles GET /orders.
func (c *Client) ListOrders(ctx context.Context, creds Credentials) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/orders",
		creds:         creds,
		needsBusiness: true,
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderStats handles GET /orders/stats.
func (c *Client) OrderStats(ctx context.Context, creds Credentials) (*domain.OrderStats, error) {
	var stats domain.OrderStats
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/orders/stats",
		creds:         creds,
		needsBusiness: true,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListProducts handles GET /products.
func (c *Client) ListProducts(ctx context.Context, creds Credentials) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/products",
		creds:         creds,
		needsBusiness: true,
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}
