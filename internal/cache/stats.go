package cache

import (
	"context"
	"strings"
)

// Stats counts cached keys per namespace.
type Stats struct {
	Profiles int `json:"profiles"`
	Progress int `json:"progress"`
	Research int `json:"research"`
	Browsing int `json:"browsing"`
	Search   int `json:"search"`
	Pending  int `json:"pending"`
	Other    int `json:"other"`
	Total    int `json:"total"`
}

// CollectStats scans the keyspace and tallies keys by namespace.
func (c *Cache) CollectStats(ctx context.Context) (*Stats, error) {
	keys, err := c.Keys(ctx, "*")
	if err != nil {
		return nil, err
	}

	var s Stats
	for _, key := range keys {
		switch {
		case strings.HasPrefix(key, nsResearch):
			s.Research++
		case strings.HasPrefix(key, nsBrowsing):
			s.Browsing++
		case strings.HasPrefix(key, nsSearch):
			s.Search++
		case strings.HasPrefix(key, nsProfile):
			s.Profiles++
		case strings.HasPrefix(key, nsProgress):
			s.Progress++
		case strings.HasPrefix(key, nsPending):
			s.Pending++
		default:
			s.Other++
		}
	}
	s.Total = len(keys)
	return &s, nil
}
