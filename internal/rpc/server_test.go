package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/artcrate/internal/catalog"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/metrics"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/rpc"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

type fakeService struct {
	mu        sync.Mutex
	assets    []models.Asset
	fetchErr  error
	openErr   error
	info      models.CacheInfo
	forced    []bool
	refetches int
	opens     int
	panicNext bool
}

func (f *fakeService) FetchAssets(_ context.Context, force bool) ([]models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicNext {
		f.panicNext = false
		panic("boom")
	}
	f.forced = append(f.forced, force)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.assets, nil
}

func (f *fakeService) CacheInfo(context.Context) models.CacheInfo { return f.info }

func (f *fakeService) ClearAndRefetch(context.Context) ([]models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.assets, nil
}

func (f *fakeService) OpenCacheLocation(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	return f.openErr
}

var sample = []models.Asset{
	{Name: "Knight", Type: "Character", AssetPack: "Heroes", Link: "https://x/k", Tags: []string{"melee"}},
	{Name: "Slime", Type: "Enemy", AssetPack: "Monsters", Link: "#", Tags: []string{}},
	{Name: "Archer", Type: "Character", AssetPack: "Heroes", Link: "#", Tags: []string{"ranged"}},
}

func newServer(t *testing.T, svc *fakeService) (*httptest.Server, *metrics.Prometheus) {
	t.Helper()
	prom := metrics.NewPrometheus()
	s := rpc.New(svc, rpc.Options{
		Metrics:        prom,
		MetricsHandler: promhttp.HandlerFor(prom.Registry, promhttp.HandlerOpts{}),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, prom
}

func doJSON(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetAssets(t *testing.T) {
	svc := &fakeService{assets: sample}
	ts, _ := newServer(t, svc)

	var got []models.Asset
	status := doJSON(t, http.MethodGet, ts.URL+"/v1/assets", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, sample, got)
	assert.Equal(t, []bool{false}, svc.forced)
}

func TestGetAssets_ErrorDescriptor(t *testing.T) {
	svc := &fakeService{fetchErr: errors.New("failed to fetch asset data: offline")}
	ts, _ := newServer(t, svc)

	var got map[string]string
	status := doJSON(t, http.MethodGet, ts.URL+"/v1/assets", &got)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed to fetch asset data: offline", got["error"])
}

func TestCacheInfo(t *testing.T) {
	ts0 := int64(1700000000000)
	n := 3
	ts, _ := newServer(t, &fakeService{info: models.CacheInfo{Exists: true, Timestamp: &ts0, AssetCount: &n}})

	var got map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/v1/cache", &got))
	assert.Equal(t, true, got["exists"])
	assert.EqualValues(t, 1700000000000, got["timestamp"])
	assert.EqualValues(t, 3, got["assetCount"])

	ts2, _ := newServer(t, &fakeService{})
	got = nil
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts2.URL+"/v1/cache", &got))
	assert.Equal(t, false, got["exists"])
	assert.Nil(t, got["timestamp"])
	assert.Nil(t, got["assetCount"])
}

func TestRefetch(t *testing.T) {
	svc := &fakeService{assets: sample}
	ts, _ := newServer(t, svc)

	var got []models.Asset
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/v1/cache/refetch", &got))
	assert.Len(t, got, 3)
	assert.Equal(t, 1, svc.refetches)

	assert.Equal(t, http.StatusMethodNotAllowed, doJSON(t, http.MethodGet, ts.URL+"/v1/cache/refetch", nil))
}

func TestOpenCache(t *testing.T) {
	svc := &fakeService{}
	ts, _ := newServer(t, svc)

	var ok map[string]bool
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/v1/cache/open", &ok))
	assert.True(t, ok["success"])

	svc.openErr = errors.New("xdg-open: not found")
	var failed map[string]string
	assert.Equal(t, http.StatusInternalServerError, doJSON(t, http.MethodPost, ts.URL+"/v1/cache/open", &failed))
	assert.Equal(t, "xdg-open: not found", failed["error"])
	assert.Equal(t, 2, svc.opens)
}

func TestSearch(t *testing.T) {
	ts, _ := newServer(t, &fakeService{assets: sample})

	var page catalog.Page
	status := doJSON(t, http.MethodGet, ts.URL+"/v1/assets/search?type=character&per_page=1&page=2", &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Archer", page.Items[0].Name)

	page = catalog.Page{}
	doJSON(t, http.MethodGet, ts.URL+"/v1/assets/search?q=sli", &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Slime", page.Items[0].Name)
}

func TestSearch_BadParams(t *testing.T) {
	ts, _ := newServer(t, &fakeService{assets: sample})

	for _, q := range []string{"page=x", "per_page=-1", "q=(%5B&regex=true"} {
		var got map[string]string
		status := doJSON(t, http.MethodGet, ts.URL+"/v1/assets/search?"+q, &got)
		assert.Equal(t, http.StatusBadRequest, status, q)
		assert.NotEmpty(t, got["error"], q)
	}
}

func TestFacets(t *testing.T) {
	ts, _ := newServer(t, &fakeService{assets: sample})

	var got struct {
		Types []string `json:"types"`
		Packs []string `json:"packs"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/v1/assets/facets", &got))
	assert.Equal(t, []string{"Character", "Enemy"}, got.Types)
	assert.Equal(t, []string{"Heroes", "Monsters"}, got.Packs)
}

func TestHealthAndNotFound(t *testing.T) {
	ts, _ := newServer(t, &fakeService{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, ts.URL+"/nope", &got))
	assert.Equal(t, "not found", got["error"])
}

func TestPanicIsRecovered(t *testing.T) {
	svc := &fakeService{panicNext: true}
	ts, _ := newServer(t, svc)

	var got map[string]string
	assert.Equal(t, http.StatusInternalServerError, doJSON(t, http.MethodGet, ts.URL+"/v1/assets", &got))
	assert.Equal(t, "internal server error", got["error"])

	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/v1/assets", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newServer(t, &fakeService{assets: sample})
	doJSON(t, http.MethodGet, ts.URL+"/v1/assets", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `http_requests_total{method="GET",path="/v1/assets",status="200"} 1`)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := rpc.New(&fakeService{}, rpc.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
