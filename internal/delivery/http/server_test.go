package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geo-lookup-proxy/internal/config"
	httpDelivery "github.com/geo-lookup-proxy/internal/delivery/http"
	"github.com/geo-lookup-proxy/internal/delivery/http/handler"
	"github.com/geo-lookup-proxy/internal/infrastructure/geonames"
	"github.com/geo-lookup-proxy/internal/repository/memory"
	"github.com/geo-lookup-proxy/internal/usecase"
)

const (
	countriesPayload = `{"geonames":[{"continent":"AS","countryName":"Lebanon","geonameId":272103}]}`
	childrenPayload  = `{"totalResultsCount":1,"geonames":[{"name":"Beyrouth","geonameId":276780}]}`
	failurePayload   = `{"error":"Unable to fetch data"}`
)

// upstreamRecorder stubs GeoNames and records every request it receives
type upstreamRecorder struct {
	mu       sync.Mutex
	requests []*http.Request
	status   int
	// noContentType отключает заголовок Content-Type, включая автоопределение net/http
	noContentType bool
}

func (u *upstreamRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r.Clone(context.Background()))
	status := u.status
	noContentType := u.noContentType
	u.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	if noContentType {
		w.Header()["Content-Type"] = nil
	} else {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	}
	switch r.URL.Path {
	case "/countryInfoJSON":
		w.Write([]byte(countriesPayload))
	case "/childrenJSON":
		w.Write([]byte(childrenPayload))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *upstreamRecorder) setStatus(status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
}

func (u *upstreamRecorder) omitContentType() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.noContentType = true
}

func (u *upstreamRecorder) calls() []*http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]*http.Request(nil), u.requests...)
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) Health(context.Context) error {
	return f.err
}

type testEnv struct {
	server   *httpDelivery.Server
	upstream *upstreamRecorder
	stats    *memory.StatsRepository
}

func newTestEnv(t *testing.T, failureStatus int, health httpDelivery.HealthChecker) *testEnv {
	t.Helper()

	upstream := &upstreamRecorder{}
	upstreamServer := httptest.NewServer(upstream)
	t.Cleanup(upstreamServer.Close)

	return newTestEnvWithBaseURL(t, upstreamServer.URL, upstream, failureStatus, health)
}

func newTestEnvWithBaseURL(t *testing.T, baseURL string, upstream *upstreamRecorder, failureStatus int, health httpDelivery.HealthChecker) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		GeoNames: config.GeoNamesConfig{
			BaseURL:        baseURL,
			Username:       "proxy_user",
			RequestTimeout: 2 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Proxy: config.ProxyConfig{FailureStatus: failureStatus},
	}

	stats := memory.NewStatsRepository()
	geoClient := geonames.NewGeoNamesClient(&cfg.GeoNames, logger)
	lookupUC := usecase.NewLookupUseCase(geoClient, stats, logger, time.Second)
	statsUC := usecase.NewStatsUseCase(stats, "memory", logger)

	server := httpDelivery.NewServer(
		cfg,
		logger,
		handler.NewLookupHandler(lookupUC, cfg.Proxy.FailureStatus, logger),
		handler.NewStatsHandler(statsUC, logger),
		health,
	)

	return &testEnv{server: server, upstream: upstream, stats: stats}
}

func (e *testEnv) get(t *testing.T, target string) (int, string, http.Header) {
	t.Helper()

	resp, err := e.server.App().Test(httptest.NewRequest(http.MethodGet, target, nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestServer_GetCountries(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, body, header := env.get(t, "/api/v1/geo?action=getCountries")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, countriesPayload, body)
	assert.Equal(t, "application/json;charset=UTF-8", header.Get("Content-Type"))
	assert.NotEmpty(t, header.Get("X-Request-ID"))

	calls := env.upstream.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/countryInfoJSON", calls[0].URL.Path)
	assert.Equal(t, "proxy_user", calls[0].URL.Query().Get("username"))
}

func TestServer_MissingUpstreamContentTypeDefaultsToJSON(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)
	env.upstream.omitContentType()

	status, body, header := env.get(t, "/api/v1/geo?action=getCountries")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, countriesPayload, body)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
}

func TestServer_GetGovernorates(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, body, _ := env.get(t, "/api/v1/geo?action=getGovernorates&countryId=272103")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, childrenPayload, body)

	calls := env.upstream.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/childrenJSON", calls[0].URL.Path)
	assert.Equal(t, "272103", calls[0].URL.Query().Get("geonameId"))
	assert.Equal(t, "proxy_user", calls[0].URL.Query().Get("username"))
}

func TestServer_GetJudiciaries(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, body, _ := env.get(t, "/api/v1/geo?action=getJudiciaries&regionId=00276780x")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, childrenPayload, body)

	calls := env.upstream.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "00276780x", calls[0].URL.Query().Get("geonameId"))
}

func TestServer_IdentifierCannotInjectParameters(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, _, _ := env.get(t, "/api/v1/geo?action=getJudiciaries&regionId=1%26username%3Devil")
	assert.Equal(t, http.StatusOK, status)

	calls := env.upstream.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "1&username=evil", calls[0].URL.Query().Get("geonameId"))
	assert.Equal(t, []string{"proxy_user"}, calls[0].URL.Query()["username"])
}

func TestServer_LegacyFetchPath(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, body, _ := env.get(t, "/fetch.php?action=getGovernorates&countryId=272103")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, childrenPayload, body)
}

func TestServer_PathRoutes(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, body, _ := env.get(t, "/api/v1/geo/countries")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, countriesPayload, body)

	status, _, _ = env.get(t, "/api/v1/geo/countries/272103/governorates")
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = env.get(t, "/api/v1/geo/regions/276780/judiciaries")
	assert.Equal(t, http.StatusOK, status)

	calls := env.upstream.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "/countryInfoJSON", calls[0].URL.Path)
	assert.Equal(t, "272103", calls[1].URL.Query().Get("geonameId"))
	assert.Equal(t, "276780", calls[2].URL.Query().Get("geonameId"))
}

func TestServer_PathRoutesKeepEncodedIdentifiers(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	tests := []struct {
		path string
		id   string
	}{
		{"/api/v1/geo/countries/a%2Fb/governorates", "a/b"},
		{"/api/v1/geo/regions/%20007%20/judiciaries", " 007 "},
		{"/api/v1/geo/regions/1%26username%3Devil/judiciaries", "1&username=evil"},
		{"/api/v1/geo/regions/%CE%A9mega/judiciaries", "Ωmega"},
	}

	for _, tt := range tests {
		status, body, _ := env.get(t, tt.path)
		assert.Equal(t, http.StatusOK, status, tt.path)
		assert.Equal(t, childrenPayload, body, tt.path)
	}

	calls := env.upstream.calls()
	require.Len(t, calls, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.id, calls[i].URL.Query().Get("geonameId"))
		assert.Equal(t, []string{"proxy_user"}, calls[i].URL.Query()["username"])
	}
}

func TestServer_InvalidAction(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	for _, target := range []string{
		"/api/v1/geo",
		"/api/v1/geo?action=",
		"/api/v1/geo?action=getRegions",
		"/fetch.php?action=getcountries",
	} {
		status, body, _ := env.get(t, target)
		assert.Equal(t, http.StatusBadRequest, status, target)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &resp), target)
		assert.Equal(t, "INVALID_ACTION", resp.Error.Code, target)
	}

	assert.Empty(t, env.upstream.calls())
}

func TestServer_MissingIdentifier(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	for _, target := range []string{
		"/api/v1/geo?action=getGovernorates",
		"/api/v1/geo?action=getGovernorates&countryId=",
		"/api/v1/geo?action=getGovernorates&regionId=5",
		"/api/v1/geo?action=getJudiciaries&countryId=5",
	} {
		status, body, _ := env.get(t, target)
		assert.Equal(t, http.StatusBadRequest, status, target)
		assert.Contains(t, body, "MISSING_IDENTIFIER", target)
	}

	assert.Empty(t, env.upstream.calls())
}

func TestServer_UpstreamFailure(t *testing.T) {
	t.Run("non-2xx upstream", func(t *testing.T) {
		env := newTestEnv(t, http.StatusBadGateway, nil)
		env.upstream.setStatus(http.StatusInternalServerError)

		status, body, header := env.get(t, "/api/v1/geo?action=getCountries")

		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, failurePayload, body)
		assert.Equal(t, "application/json", header.Get("Content-Type"))
	})

	t.Run("unreachable upstream with legacy status", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		baseURL := closed.URL
		closed.Close()

		env := newTestEnvWithBaseURL(t, baseURL, &upstreamRecorder{}, http.StatusOK, nil)

		status, body, _ := env.get(t, "/api/v1/geo?action=getJudiciaries&regionId=1")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, failurePayload, body)
	})
}

func TestServer_RepeatedRequestIsByteIdentical(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	_, first, _ := env.get(t, "/api/v1/geo?action=getGovernorates&countryId=272103")
	_, second, _ := env.get(t, "/api/v1/geo?action=getGovernorates&countryId=272103")

	assert.Equal(t, first, second)
	assert.Len(t, env.upstream.calls(), 2)
}

func TestServer_Stats(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	env.get(t, "/api/v1/geo?action=getCountries")
	env.get(t, "/api/v1/geo?action=getCountries")
	env.get(t, "/api/v1/geo?action=nope")

	status, body, _ := env.get(t, "/api/v1/stats")
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Data struct {
			Source string `json:"source"`
			Stats  struct {
				Total    int64 `json:"total"`
				ByAction map[string]struct {
					Success        int64 `json:"success"`
					InvalidRequest int64 `json:"invalid_request"`
				} `json:"by_action"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, "memory", resp.Data.Source)
	assert.Equal(t, int64(3), resp.Data.Stats.Total)
	assert.Equal(t, int64(2), resp.Data.Stats.ByAction["getCountries"].Success)
	assert.Equal(t, int64(1), resp.Data.Stats.ByAction["unknown"].InvalidRequest)
}

func TestServer_Health(t *testing.T) {
	t.Run("without redis", func(t *testing.T) {
		env := newTestEnv(t, http.StatusBadGateway, nil)

		status, body, _ := env.get(t, "/api/v1/health")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"status":"healthy"}`, body)
	})

	t.Run("redis ok", func(t *testing.T) {
		env := newTestEnv(t, http.StatusBadGateway, fakeHealth{})

		status, body, _ := env.get(t, "/api/v1/health")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"status":"healthy","redis":"ok"}`, body)
	})

	t.Run("redis down", func(t *testing.T) {
		env := newTestEnv(t, http.StatusBadGateway, fakeHealth{err: errors.New("dial tcp: refused")})

		status, body, _ := env.get(t, "/api/v1/health")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.JSONEq(t, `{"status":"degraded","redis":"unavailable"}`, body)
	})
}

func TestServer_UnknownRoute(t *testing.T) {
	env := newTestEnv(t, http.StatusBadGateway, nil)

	status, body, _ := env.get(t, "/api/v1/nowhere")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "NOT_FOUND")
}
