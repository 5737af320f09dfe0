package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

const defaultFetchTimeout = 15 * time.Second

// HTTPGateway fetches records over REST. List sources resolve to
// <site>/_api/lists/<name>/items with filter/select/top query parameters;
// directory sources call their endpoint path directly. Responses must be
// a JSON array of objects, or an object with a "value" array.
type HTTPGateway struct {
	base   string
	client *http.Client
}

// NewHTTPGateway creates an HTTPGateway. base prefixes directory endpoint
// paths; list sources carry their own absolute site URL.
func NewHTTPGateway(base string) *HTTPGateway {
	return &HTTPGateway{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
}

// Fetch implements Gateway.
func (g *HTTPGateway) Fetch(ctx context.Context, source entities.AlertDataSource) ([]Record, error) {
	target, err := g.buildURL(source)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch failed for %s: status %d", target, resp.StatusCode)
	}

	return decodeRecords(resp.Body)
}

func (g *HTTPGateway) buildURL(source entities.AlertDataSource) (string, error) {
	switch source.Kind {
	case entities.SourceKindDirectory:
		if source.Endpoint == "" {
			return "", fmt.Errorf("directory source missing endpoint")
		}
		if strings.HasPrefix(source.Endpoint, "http") {
			return source.Endpoint, nil
		}
		return g.base + "/" + strings.TrimLeft(source.Endpoint, "/"), nil
	case entities.SourceKindList, "":
		if source.ListName == "" {
			return "", fmt.Errorf("list source missing list name")
		}
		site := strings.TrimRight(source.SiteURL, "/")
		if site == "" {
			site = g.base
		}
		q := url.Values{}
		if len(source.Fields) > 0 {
			q.Set("$select", strings.Join(source.Fields, ","))
		}
		if source.Filter != "" {
			q.Set("$filter", source.Filter)
		}
		if source.MaxRecords > 0 {
			q.Set("$top", strconv.Itoa(source.MaxRecords))
		}
		target := fmt.Sprintf("%s/_api/lists/%s/items", site, url.PathEscape(source.ListName))
		if encoded := q.Encode(); encoded != "" {
			target += "?" + encoded
		}
		return target, nil
	default:
		return "", fmt.Errorf("unknown data source kind %q", source.Kind)
	}
}

func decodeRecords(r io.Reader) ([]Record, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed fetch response: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Value []Record `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("malformed fetch response: %w", err)
	}
	return wrapped.Value, nil
}
