package service

import (
	"context"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/model"
)

// FetchProfile reads a cached profile by any of its aliases (id, slug, or
// session token). A miss is a KindNotFound error so callers can tell an
// absent profile apart from a cache transport failure.
func FetchProfile(ctx context.Context, c *cache.Cache, alias string) (*model.CompanyProfile, error) {
	profile, found, err := c.GetProfile(ctx, alias)
	if err != nil {
		return nil, E(KindRequestFailed, "profile fetch", err)
	}
	if !found {
		return nil, E(KindNotFound, "profile fetch", nil)
	}
	return profile, nil
}
