package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spent-dev/spent/internal/model"
)

// Categories fetches the shared category set, sorted by name server-side.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	raw, err := c.get(ctx, "/categories", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Categories []wireCategory `json:"categories"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing categories: %w", err)
	}
	out := make([]model.Category, 0, len(resp.Categories))
	for _, w := range resp.Categories {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreateCategory adds a category. The server rejects duplicate names.
func (c *Client) CreateCategory(ctx context.Context, name, color string) (model.Category, error) {
	raw, err := c.send(ctx, "POST", "/categories", map[string]string{
		"name":  name,
		"color": color,
	})
	if err != nil {
		return model.Category{}, err
	}
	var w wireCategory
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Category{}, fmt.Errorf("api: parsing category: %w", err)
	}
	return w.toModel(), nil
}

// UpdateCategory renames or recolors a category. Empty fields are left
// unchanged; the server rejects renames that collide with an existing
// category.
func (c *Client) UpdateCategory(ctx context.Context, id, name, color string) (model.Category, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if color != "" {
		body["color"] = color
	}
	raw, err := c.send(ctx, "PUT", "/categories/"+url.PathEscape(id), body)
	if err != nil {
		return model.Category{}, err
	}
	var w wireCategory
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Category{}, fmt.Errorf("api: parsing category: %w", err)
	}
	return w.toModel(), nil
}

// DeleteCategory removes a category. The server refuses while any expense
// still references it.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/categories/"+url.PathEscape(id), nil)
	return err
}
