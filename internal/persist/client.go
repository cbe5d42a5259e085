// Package persist talks to the map server's REST API: saving, listing
// and loading map documents, plus the play-test handoff.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/logger"
)

// ErrMapNotFound is returned when the server has no map by that name.
var ErrMapNotFound = errors.New("map not found")

// PlaytestName is the reserved map name used for play-test rounds. The
// editor overwrites it on every play-test.
const PlaytestName = "_playtest_"

// MapInfo is one entry of the server's map listing.
type MapInfo struct {
	Name         string    `json:"name"`
	FileName     string    `json:"fileName"`
	LastModified time.Time `json:"lastModified"`
}

// SaveResponse is the server's answer to a save request.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client is a map server API client.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the server at base, e.g.
// "http://localhost:8080".
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SaveMap stores the document on the server under its own name.
func (c *Client) SaveMap(ctx context.Context, doc *document.Document) error {
	return c.save(ctx, doc.Name, doc)
}

// save sends the document itself as the request body; the server takes
// the map name from it.
func (c *Client) save(ctx context.Context, name string, doc *document.Document) error {
	d := *doc
	d.Name = name
	body, err := d.ToJSON()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/save-map", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}
	defer resp.Body.Close()

	var sr SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return fmt.Errorf("save map %q: decode response: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK || !sr.Success {
		return fmt.Errorf("save map %q: server said %q", name, sr.Message)
	}
	logger.Info("map saved", zap.String("name", name))
	return nil
}

// ListMaps fetches the server's map listing.
func (c *Client) ListMaps(ctx context.Context) ([]MapInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/maps", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list maps: status %d", resp.StatusCode)
	}
	var maps []MapInfo
	if err := json.NewDecoder(resp.Body).Decode(&maps); err != nil {
		return nil, fmt.Errorf("list maps: decode: %w", err)
	}
	return maps, nil
}

// LoadMap fetches one map by name and parses it into a document.
func (c *Client) LoadMap(ctx context.Context, name string) (*document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/map/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("build load request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load map %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("load map %q: %w", name, ErrMapNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load map %q: status %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("load map %q: read: %w", name, err)
	}
	doc, err := document.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("load map %q: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	logger.Info("map loaded", zap.String("name", name), zap.Int("records", doc.Count()))
	return doc, nil
}

// Playtest saves the document under the reserved play-test name and
// returns the game URL to open.
func (c *Client) Playtest(ctx context.Context, doc *document.Document) (string, error) {
	if err := c.save(ctx, PlaytestName, doc); err != nil {
		return "", err
	}
	return c.base + "/index.html?playtest=true&map=" + PlaytestName, nil
}
