package server

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirrezaask/claimcache/cache"
	"github.com/amirrezaask/claimcache/claims"
	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/kv"
	json "github.com/json-iterator/go"
	"github.com/matryer/is"
	"github.com/amirrezaask/claimcache/httpserver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type downStore struct{}

func (downStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.Store("get", key, stdErrors.New("connection refused"))
}
func (downStore) Set(_ context.Context, key string, _ []byte, _ time.Duration) error {
	return errors.Store("set", key, stdErrors.New("connection refused"))
}
func (downStore) Del(_ context.Context, key string) error {
	return errors.Store("del", key, stdErrors.New("connection refused"))
}
func (downStore) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	return 0, false, errors.Store("ttl", key, stdErrors.New("connection refused"))
}
func (downStore) Ping(context.Context) error {
	return errors.Store("ping", "", stdErrors.New("connection refused"))
}

type pingableStore interface {
	kv.Store
	kv.Pinger
}

func newTestServer(t *testing.T, store pingableStore) *httptest.Server {
	t.Helper()
	claimRepo, err := cache.New[claims.Claim](store, 900)
	if err != nil {
		t.Fatal(err)
	}
	searchRepo, err := cache.New[claims.SearchResult](store, 300)
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	s := New(claims.NewClaimCache(claimRepo, searchRepo), store, reg)
	ts := httptest.NewServer(s.Handler(reg, "claimcache"))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(bs)
}

func TestClaimRoutes(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(t, kv.NewMemory())

	resp, body := do(t, http.MethodGet, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusNotFound)
	is.True(strings.Contains(body, "claim is not cached"))

	resp, _ = do(t, http.MethodPut, ts.URL+"/claims/claim-1",
		`{"areaOfLaw":"CIVIL","submissionId":"sub-1","clientForename":"Jane","clientSurname":"Doe"}`)
	is.Equal(resp.StatusCode, http.StatusNoContent)

	resp, body = do(t, http.MethodGet, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "application/json")
	var claim claims.Claim
	is.NoErr(json.Unmarshal([]byte(body), &claim))
	is.Equal(claim.ClaimID, "claim-1")
	is.Equal(claim.ClientName(), "Jane Doe")

	resp, _ = do(t, http.MethodDelete, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusNoContent)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusNoContent)

	resp, _ = do(t, http.MethodGet, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestPutClaimValidation(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(t, kv.NewMemory())

	resp, _ := do(t, http.MethodPut, ts.URL+"/claims/claim-1", `{"claimId":"claim-2"}`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = do(t, http.MethodPut, ts.URL+"/claims/claim-1", `not json`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestCorruptEntryIsServerError(t *testing.T) {
	is := is.New(t)
	store := kv.NewMemory()
	ts := newTestServer(t, store)
	is.NoErr(store.Set(context.Background(), claims.ClaimKey("claim-1"), []byte(`"just a string"`), time.Minute))

	resp, body := do(t, http.MethodGet, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusInternalServerError)
	is.True(strings.Contains(body, "cached claim is unreadable"))
}

func TestStoreDown(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(t, downStore{})

	resp, _ := do(t, http.MethodGet, ts.URL+"/claims/claim-1", "")
	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)

	resp, _ = do(t, http.MethodGet, ts.URL+"/healthz", "")
	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)
}

func TestHealthzAndMetrics(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(t, kv.NewMemory())

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"status":"ok"`))

	do(t, http.MethodGet, ts.URL+"/claims/claim-1", "")
	_, body = do(t, http.MethodGet, ts.URL+"/metrics", "")
	is.True(strings.Contains(body, `claimcache_httpserver_requests_total{handler="GET /claims/{id}",method="GET",status="404"} 1`))
}

func TestRecoveredPanicIsCounted(t *testing.T) {
	is := is.New(t)
	reg := prometheus.NewRegistry()
	mux := httpserver.New()
	mux.GET("/claims/{id}", func(http.ResponseWriter, *http.Request) {
		panic("handler blew up")
	})
	h := middlewares(reg, "claimcache")(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/claims/claim-1", nil))
	is.Equal(rec.Code, http.StatusInternalServerError)

	rec = httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	is.True(strings.Contains(rec.Body.String(), `claimcache_httpserver_requests_total{handler="GET /claims/{id}",method="GET",status="500"} 1`))
}
