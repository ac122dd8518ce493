package claims_test

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/amirrezaask/claimcache/cache"
	"github.com/amirrezaask/claimcache/claims"
	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/kv"
	"github.com/amirrezaask/claimcache/test"
	"github.com/matryer/is"
)

func newClaimCache(t *testing.T, store kv.Store) *claims.ClaimCache {
	t.Helper()
	claimRepo, err := cache.New[claims.Claim](store, 900)
	if err != nil {
		t.Fatal(err)
	}
	searchRepo, err := cache.New[claims.SearchResult](store, 300)
	if err != nil {
		t.Fatal(err)
	}
	return claims.NewClaimCache(claimRepo, searchRepo)
}

func TestClaimCacheRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := test.Fakery()
	store := kv.NewMemory()
	c := newClaimCache(t, store)

	claim := test.FakeClaim(f)

	_, ok, err := c.GetClaim(ctx, claim.ClaimID)
	is.NoErr(err)
	is.True(!ok)

	is.NoErr(c.SetClaim(ctx, claim))
	got, ok, err := c.GetClaim(ctx, claim.ClaimID)
	is.NoErr(err)
	is.True(ok)
	is.Equal(got, claim)

	is.NoErr(c.DeleteClaim(ctx, claim.ClaimID))
	_, ok, err = c.GetClaim(ctx, claim.ClaimID)
	is.NoErr(err)
	is.True(!ok)
	is.NoErr(c.DeleteClaim(ctx, claim.ClaimID))
}

func TestClaimCacheKeepsAmountsExact(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := newClaimCache(t, kv.NewMemory())

	large, err := claims.DecimalAmount("123456789012345678901234.57")
	is.NoErr(err)
	claim := test.FakeClaim(test.Fakery())
	claim.NetProfitCost = claims.NewClaimField("netProfitCost", claims.IntAmount(120), claims.IntAmount(120))
	claim.TotalAmount = claims.NewClaimField("totalAmount", claims.IntAmount(9007199254740993), large)
	claim.VatClaimed = claims.NewClaimField("vat", claims.Flag(true), claims.Flag(false))

	is.NoErr(c.SetClaim(ctx, claim))
	got, ok, err := c.GetClaim(ctx, claim.ClaimID)
	is.NoErr(err)
	is.True(ok)
	is.Equal(got, claim)
	is.Equal(got.NetProfitCost.Submitted.String(), "120")
	is.Equal(got.TotalAmount.Submitted.String(), "9007199254740993")
	is.Equal(got.TotalAmount.Calculated.String(), "123456789012345678901234.57")
	is.Equal(*got.VatClaimed.Submitted.Flag, true)
	is.True(got.TotalAmount.Assessed.IsEmpty())
}

func TestClaimCacheKeysAndTTL(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	store := kv.NewMemory().WithClock(func() time.Time { return now })
	c := newClaimCache(t, store)
	f := test.Fakery()

	claim := test.FakeClaim(f)
	is.NoErr(c.SetClaim(ctx, claim))
	ttl, ok, err := store.TTL(ctx, claims.ClaimKey(claim.ClaimID))
	is.NoErr(err)
	is.True(ok)
	is.Equal(ttl, 900*time.Second)

	q := claims.SearchQuery{ProviderAccountNumber: "0P322F"}
	is.NoErr(c.SetSearch(ctx, test.FakeSearchResult(f, q, 3)))
	ttl, ok, err = store.TTL(ctx, claims.SearchKey(q))
	is.NoErr(err)
	is.True(ok)
	is.Equal(ttl, 300*time.Second)
}

func TestClaimCacheSearch(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := newClaimCache(t, kv.NewMemory())
	f := test.Fakery()

	q := claims.SearchQuery{ProviderAccountNumber: "0P322F", SubmissionDateYear: "2025"}
	_, ok, err := c.GetSearch(ctx, q)
	is.NoErr(err)
	is.True(!ok)

	result := test.FakeSearchResult(f, q, 25)
	is.NoErr(c.SetSearch(ctx, result))

	// same query after normalisation
	got, ok, err := c.GetSearch(ctx, claims.SearchQuery{Page: 1, ProviderAccountNumber: "0p322f", SubmissionDateYear: "2025"})
	is.NoErr(err)
	is.True(ok)
	is.Equal(got, result)
	is.Equal(len(got.Claims), 10)
	is.Equal(got.TotalPages, 3)
}

func TestClaimCacheRejectsEmptyClaimID(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := newClaimCache(t, kv.NewMemory())

	is.True(errors.Is(c.SetClaim(ctx, claims.Claim{}), errors.ErrInvalidArgument))
	_, _, err := c.GetClaim(ctx, "")
	is.True(errors.Is(err, errors.ErrInvalidArgument))
	is.True(errors.Is(c.DeleteClaim(ctx, ""), errors.ErrInvalidArgument))
}

func TestClaimCacheCorruptEntry(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := kv.NewMemory()
	c := newClaimCache(t, store)

	is.NoErr(store.Set(ctx, claims.ClaimKey("claim-1"), []byte(`{"claimId":"claim-1","claimTotal":12}`), time.Minute))

	_, ok, err := c.GetClaim(ctx, "claim-1")
	is.True(!ok)
	var de *errors.DeserializationError
	is.True(errors.As(err, &de))
	is.Equal(de.Target, "claims.Claim")
}

func TestClaimCacheOverRedis(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	client, mock := test.Redis(t)
	c := newClaimCache(t, client)

	key := claims.ClaimKey("claim-9")
	mock.ExpectStored(key, []byte(`{"areaOfLaw":"CRIME","submissionId":"sub-1","claimId":"claim-9","clientSurname":"Doe"}`))
	mock.ExpectRemove(key, true)
	mock.ExpectGet(key).SetErr(stdErrors.New("i/o timeout"))

	got, ok, err := c.GetClaim(ctx, "claim-9")
	is.NoErr(err)
	is.True(ok)
	is.Equal(got.AreaOfLaw, claims.AreaOfLawCrime)
	is.Equal(got.ClientName(), "Doe")

	is.NoErr(c.DeleteClaim(ctx, "claim-9"))

	_, _, err = c.GetClaim(ctx, "claim-9")
	is.True(errors.Is(err, errors.ErrStoreUnavailable))
}
