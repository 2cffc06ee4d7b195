package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// GetDataStructure fetches the schema description of model.
func (c *Client) GetDataStructure(ctx context.Context, model Model) Result[json.RawMessage] {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{"data-structure", strings.ToLower(model.Name())},
	})
}

// GetStatistics calls GET /statistics/{endpoint}, like "period/3/pop-size".
func (c *Client) GetStatistics(ctx context.Context, endpoint string) Result[json.RawMessage] {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{"statistics", endpoint},
	})
}

// GetSimulation calls GET /simulation/{endpoint}.
func (c *Client) GetSimulation(ctx context.Context, endpoint string) Result[json.RawMessage] {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{"simulation", endpoint},
	})
}

// PostSimulation calls POST /simulation/{endpoint}. body can be nil.
func (c *Client) PostSimulation(ctx context.Context, endpoint string, body any) Result[json.RawMessage] {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"simulation", endpoint},
		body:   body,
	})
}
