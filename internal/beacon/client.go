// internal/beacon/client.go
package beacon

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ArowuTest/entropy-backend/internal/config"
	"github.com/ArowuTest/entropy-backend/internal/fortuna"
)

// Client fetches an external randomness beacon and stirs the response into
// the pools. The response is public, so it is credited zero bits — it can
// only ever add unpredictability, never accounted strength.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient constructs a client from AppConfig. It does not fail when the
// beacon endpoint is unset; Stir just becomes a no-op.
func NewClient(cfg *config.AppConfig) *Client {
	return &Client{
		endpoint: cfg.BeaconURL,
		http:     &http.Client{Timeout: 3 * time.Second},
	}
}

// Stir performs one fetch-and-fold. Network failures are returned to the
// caller to log; they never affect generator state.
func (c *Client) Stir(gen *fortuna.Generator) error {
	if c.endpoint == "" {
		return nil
	}
	resp, err := c.http.Get(c.endpoint)
	if err != nil {
		return fmt.Errorf("beacon: fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil {
		return fmt.Errorf("beacon: read failed: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("beacon: empty response from %s", c.endpoint)
	}
	return gen.AddEntropy(fortuna.Text(body), 0, "beacon")
}
