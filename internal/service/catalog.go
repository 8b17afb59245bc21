package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"phongtro/internal/config"
	"phongtro/internal/model"
)

// CatalogClient fetches rental posts from the marketplace catalog API.
// Records arrive with inconsistent field naming depending on which backend
// produced them (Mongo exports, the Node API, mobile sync), so everything
// is normalized into model.Room at ingestion.
type CatalogClient struct {
	apiURL     string
	fetchLimit int
	httpClient *http.Client
}

// NewCatalogClient creates a catalog client from configuration.
func NewCatalogClient(cfg *config.CatalogConfig) *CatalogClient {
	return &CatalogClient{
		apiURL:     cfg.APIURL,
		fetchLimit: cfg.FetchLimit,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// FetchAll retrieves every post the catalog exposes, normalized. Posts
// without a usable identifier are dropped with a warning.
func (c *CatalogClient) FetchAll(ctx context.Context) ([]model.Room, error) {
	reqURL := c.apiURL
	if c.fetchLimit > 0 {
		sep := "?"
		if u, err := url.Parse(c.apiURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		reqURL = fmt.Sprintf("%s%slimit=%d", c.apiURL, sep, c.fetchLimit)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, string(body))
	}

	raw, err := decodePosts(body)
	if err != nil {
		return nil, err
	}

	rooms := make([]model.Room, 0, len(raw))
	for _, post := range raw {
		room, ok := NormalizePost(post)
		if !ok {
			log.Printf("Warning: skipping catalog post without an identifier")
			continue
		}
		rooms = append(rooms, room)
	}

	log.Printf("Fetched %d posts from catalog API", len(rooms))
	return rooms, nil
}

// decodePosts unwraps the several envelope shapes the catalog API has used:
// a bare array, {"posts": [...]}, {"metadata": [...]}, or
// {"metadata": {"posts": [...]}}.
func decodePosts(body []byte) ([]map[string]interface{}, error) {
	var asList []map[string]interface{}
	if err := json.Unmarshal(body, &asList); err == nil {
		return asList, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	for _, key := range []string{"posts", "metadata"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &asList); err == nil {
			return asList, nil
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil {
			if posts, ok := nested["posts"]; ok {
				if err := json.Unmarshal(posts, &asList); err == nil {
					return asList, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("catalog response carries no post list")
}

// NormalizePost converts one heterogeneous catalog record into a Room.
// Returns false when no identifier can be derived.
func NormalizePost(post map[string]interface{}) (model.Room, bool) {
	id := postID(post)
	if id == "" {
		return model.Room{}, false
	}

	location := stringField(post, "location")
	if location == "" {
		if addr, ok := post["address"].(map[string]interface{}); ok {
			location = stringField(addr, "fullAddress")
		}
	}

	userID := stringField(post, "user_id")
	if userID == "" {
		userID = stringField(post, "userId")
	}

	return model.Room{
		ID:          id,
		Title:       stringField(post, "title"),
		Description: stringField(post, "description"),
		Location:    location,
		Price:       stringField(post, "price"),
		Area:        stringField(post, "area"),
		Category:    stringField(post, "category"),
		Options:     stringListField(post, "options"),
		Images:      stringListField(post, "images"),
		Phone:       stringField(post, "phone"),
		Username:    stringField(post, "username"),
		UserID:      userID,
		PostedAt:    stringField(post, "createdAt"),
		UpdatedAt:   stringField(post, "updatedAt"),
	}, true
}

// postID derives the stable identifier: post_id, then _id (plain string or
// Mongo extended-JSON {"$oid": ...}), then id.
func postID(post map[string]interface{}) string {
	if id := stringField(post, "post_id"); id != "" {
		return id
	}
	switch v := post["_id"].(type) {
	case string:
		return v
	case map[string]interface{}:
		if oid, ok := v["$oid"].(string); ok {
			return oid
		}
	}
	return stringField(post, "id")
}

// stringField reads a field as a display string, formatting numbers without
// an exponent so prices like 3500000 survive as "3500000".
func stringField(post map[string]interface{}, key string) string {
	switch v := post[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// stringListField reads a field that may be a JSON array or a comma
// delimited string.
func stringListField(post map[string]interface{}, key string) []string {
	switch v := post[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}
