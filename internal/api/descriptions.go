package api

import (
	"context"
	"net/http"
)

// Descriptions returns the deduplicated description history with usage counts.
func (c *Client) Descriptions(ctx context.Context) ([]DescriptionEntry, error) {
	var entries []DescriptionEntry
	if err := c.call(ctx, http.MethodGet, pathDescriptions, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
