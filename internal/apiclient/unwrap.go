package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// UnwrapList decodes a list payload. Endpoints answer with either a bare
// array or an object whose "data" field is the array; null or a missing
// field yields an empty list.
func UnwrapList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decoding list envelope: %w", err)
		}

		return UnwrapList[T](env.Data)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// UnwrapObject decodes a single resource that may be wrapped in {"data": {...}}.
func UnwrapObject[T any](raw json.RawMessage) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if inner := bytes.TrimSpace(env.Data); len(inner) > 0 && inner[0] == '{' {
			raw = inner
		}
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding object: %w", err)
	}

	return &v, nil
}

// List fetches path and normalises the result with UnwrapList.
func List[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return UnwrapList[T](raw)
}

// Object sends a request and normalises the result with UnwrapObject.
func Object[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}

	return UnwrapObject[T](raw)
}
