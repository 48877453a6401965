// Package resource is typed CRUD over the remote API's collection endpoints.
package resource

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

// Resource is one REST collection at path, e.g. /wallets.
type Resource[T any] struct {
	client *apiclient.Client
	path   string
}

func New[T any](client *apiclient.Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return apiclient.List[T](ctx, r.client, r.path)
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	return apiclient.Object[T](ctx, r.client, http.MethodGet, r.item(id), nil)
}

func (r *Resource[T]) Create(ctx context.Context, v T) (*T, error) {
	return apiclient.Object[T](ctx, r.client, http.MethodPost, r.path, v)
}

func (r *Resource[T]) Update(ctx context.Context, id string, v T) (*T, error) {
	return apiclient.Object[T](ctx, r.client, http.MethodPut, r.item(id), v)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Request(ctx, http.MethodDelete, r.item(id), nil, nil)
}

// Services groups the collections the API exposes.
type Services struct {
	Wallets  *Resource[Record]
	Budgets  *Resource[Record]
	Reports  *Resource[Record]
	Inflows  *Resource[Flow]
	Outflows *Resource[Flow]
}

func NewServices(client *apiclient.Client) *Services {
	return &Services{
		Wallets:  New[Record](client, "/wallets"),
		Budgets:  New[Record](client, "/budgets"),
		Reports:  New[Record](client, "/reports"),
		Inflows:  New[Flow](client, "/inflows"),
		Outflows: New[Flow](client, "/outflows"),
	}
}
