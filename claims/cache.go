package claims

import (
	"context"

	"github.com/amirrezaask/claimcache/cache"
	"github.com/amirrezaask/claimcache/errors"
)

const claimKeyPrefix = "claim:"

func ClaimKey(claimID string) string {
	return claimKeyPrefix + claimID
}

// ClaimCache keeps the claim being amended and the latest search results between page loads.
type ClaimCache struct {
	claims   *cache.Repository[Claim]
	searches *cache.Repository[SearchResult]
}

func NewClaimCache(claims *cache.Repository[Claim], searches *cache.Repository[SearchResult]) *ClaimCache {
	return &ClaimCache{claims: claims, searches: searches}
}

func (c *ClaimCache) GetClaim(ctx context.Context, claimID string) (Claim, bool, error) {
	if claimID == "" {
		return Claim{}, false, errors.InvalidArgument("claim id must not be empty")
	}
	claim, ok, err := c.claims.Get(ctx, ClaimKey(claimID))
	if err != nil {
		return Claim{}, false, errors.Wrap(err, "error in getting claim('%s') from cache", claimID)
	}
	return claim, ok, nil
}

func (c *ClaimCache) SetClaim(ctx context.Context, claim Claim) error {
	if claim.ClaimID == "" {
		return errors.InvalidArgument("claim id must not be empty")
	}
	return errors.Wrap(c.claims.Set(ctx, ClaimKey(claim.ClaimID), claim), "error in caching claim('%s')", claim.ClaimID)
}

func (c *ClaimCache) DeleteClaim(ctx context.Context, claimID string) error {
	if claimID == "" {
		return errors.InvalidArgument("claim id must not be empty")
	}
	return errors.Wrap(c.claims.Delete(ctx, ClaimKey(claimID)), "error in removing claim('%s') from cache", claimID)
}

func (c *ClaimCache) GetSearch(ctx context.Context, q SearchQuery) (SearchResult, bool, error) {
	result, ok, err := c.searches.Get(ctx, SearchKey(q))
	if err != nil {
		return SearchResult{}, false, errors.Wrap(err, "error in getting search results from cache")
	}
	return result, ok, nil
}

// SetSearch caches result under the fingerprint of its query.
func (c *ClaimCache) SetSearch(ctx context.Context, result SearchResult) error {
	return errors.Wrap(c.searches.Set(ctx, SearchKey(result.Query), result), "error in caching search results")
}
