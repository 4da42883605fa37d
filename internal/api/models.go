package api

import (
	"context"
	"net/http"
)

// Models returns the model identifiers the backend can run, grouped by provider.
func (c *Client) Models(ctx context.Context) (ModelCatalog, error) {
	var catalog ModelCatalog
	if err := c.call(ctx, http.MethodGet, pathModels, nil, &catalog); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = ModelCatalog{}
	}
	return catalog, nil
}
