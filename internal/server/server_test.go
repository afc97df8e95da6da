package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"draftcoach/internal/ddragon"
	"draftcoach/internal/draft"
	"draftcoach/internal/resolve"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildText = `Patch: 26.4

CORE BUILD
1. Kraken Slayer (on-hit damage)
2. Infinity Edge (crit spike)

SITUATIONAL ITEMS
1. Wit's End: vs AP burst`

// stubBuilds returns a scripted response and records whether its context was cancellable
type stubBuilds struct {
	resp draft.Response

	mu       sync.Mutex
	last     draft.Request
	ctxAlive bool
}

func (s *stubBuilds) Generate(ctx context.Context, req draft.Request) draft.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = req
	s.ctxAlive = ctx.Done() == nil
	return s.resp
}

func (s *stubBuilds) lastRequest() (draft.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.ctxAlive
}

type stubVersions struct {
	version string
	err     error
}

func (s stubVersions) LatestVersion(context.Context) (string, error) {
	return s.version, s.err
}

type stubMetadata struct {
	md *ddragon.Metadata
}

func (s stubMetadata) Metadata(context.Context) (*ddragon.Metadata, error) {
	if s.md == nil {
		return nil, errors.New("offline")
	}
	return s.md, nil
}

func testMetadata() *ddragon.Metadata {
	items := map[string]ddragon.ItemData{}
	for id, name := range map[string]string{"6672": "Kraken Slayer", "223031": "Infinity Edge", "3091": "Wit's End"} {
		var d ddragon.ItemData
		d.Name = name
		items[id] = d
	}
	return &ddragon.Metadata{
		Version: "16.4.1",
		Items:   ddragon.NewItems("16.4.1", "https://ddragon.example", items),
		Champions: ddragon.NewChampions("16.4.1", "https://ddragon.example", map[string]ddragon.ChampionData{
			"Jinx": {ID: "Jinx", Key: "222", Name: "Jinx"},
		}),
	}
}

func newTestServer(t *testing.T, builds *stubBuilds, md *ddragon.Metadata) *httptest.Server {
	t.Helper()
	s := New(Config{
		Builds:   builds,
		Versions: stubVersions{version: "16.4.1"},
		Metadata: stubMetadata{md: md},
		Policy:   resolve.DefaultPolicy(),
		IDs:      resolve.DefaultIDPolicy(),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

// TestHealth tests the liveness route
func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubBuilds{}, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// TestVersion tests the version route
func TestVersion(t *testing.T) {
	ts := newTestServer(t, &stubBuilds{}, nil)

	resp, err := http.Get(ts.URL + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "16.4.1", out["version"])
}

// TestBuild_StatusMapping tests how build outcomes map to HTTP statuses
func TestBuild_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		resp draft.Response
		want int
	}{
		{"success", draft.Success(draft.OriginGrounded, "26.4", buildText), http.StatusOK},
		{"stale cache", draft.Success(draft.OriginStaleCache, "26.4", buildText), http.StatusOK},
		{"validation", draft.Failure("invalid role: unknown role", false), http.StatusBadRequest},
		{"upstream", draft.Failure("gemini API returned status 503", true), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builds := &stubBuilds{resp: tt.resp}
			ts := newTestServer(t, builds, nil)

			resp, out := post(t, ts.URL+"/api/build", `{"myChampion":"Jinx","role":"adc","enemies":["Zed"]}`)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, tt.resp.OK, out["ok"])
			assert.Equal(t, string(tt.resp.Origin), out["source"])

			last, detached := builds.lastRequest()
			assert.Equal(t, "Jinx", last.ChampionID)
			assert.Equal(t, []string{"Zed"}, last.Enemies)
			assert.True(t, detached)
		})
	}
}

// TestBuild_InvalidBody tests that malformed JSON never reaches the service
func TestBuild_InvalidBody(t *testing.T) {
	builds := &stubBuilds{}
	ts := newTestServer(t, builds, nil)

	resp, out := post(t, ts.URL+"/api/build", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", out["message"])
	assert.Equal(t, false, out["ok"])
	last, _ := builds.lastRequest()
	assert.Empty(t, last.ChampionID)
}

// TestBuildView tests that a successful build is rendered alongside the text
func TestBuildView(t *testing.T) {
	builds := &stubBuilds{resp: draft.Success(draft.OriginCache, "26.4", buildText)}
	ts := newTestServer(t, builds, testMetadata())

	resp, out := post(t, ts.URL+"/api/build/view", `{"myChampion":"Jinx","role":"adc"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, buildText, out["text"])
	assert.NotNil(t, out["view"])
}

// TestBuildView_Failure tests that failures carry no view
func TestBuildView_Failure(t *testing.T) {
	builds := &stubBuilds{resp: draft.Failure("Failed to generate build", true)}
	ts := newTestServer(t, builds, testMetadata())

	resp, out := post(t, ts.URL+"/api/build/view", `{"myChampion":"Jinx","role":"adc"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, out, "view")
}

// TestItemSet tests building an item set from build text
func TestItemSet(t *testing.T) {
	ts := newTestServer(t, &stubBuilds{}, testMetadata())

	body, err := json.Marshal(map[string]string{"text": buildText, "champion": "Jinx", "role": "adc"})
	require.NoError(t, err)
	resp, out := post(t, ts.URL+"/api/itemset", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	set, ok := out["itemSet"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{float64(222)}, set["associatedChampions"])
	blocks, ok := set["blocks"].([]any)
	require.True(t, ok)
	assert.Len(t, blocks, 2)
}

// TestItemSet_Unresolved tests that text with no resolvable items is rejected
func TestItemSet_Unresolved(t *testing.T) {
	ts := newTestServer(t, &stubBuilds{}, testMetadata())

	body, err := json.Marshal(map[string]string{"text": "CORE BUILD\n1. Sword of Nothing\n2. Shield of Nobody", "champion": "Jinx"})
	require.NoError(t, err)
	resp, out := post(t, ts.URL+"/api/itemset", string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Len(t, out["unresolved"], 2)
}

// TestItemSet_NoMetadata tests the response when directories cannot be loaded
func TestItemSet_NoMetadata(t *testing.T) {
	ts := newTestServer(t, &stubBuilds{}, nil)

	resp, _ := post(t, ts.URL+"/api/itemset", `{"text":"CORE BUILD\n1. Kraken Slayer"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// TestCORSPreflight tests that OPTIONS requests short-circuit
func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &stubBuilds{}, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/build", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

// TestListenAndServe_Shutdown tests that cancelling the context stops the server
func TestListenAndServe_Shutdown(t *testing.T) {
	s := New(Config{Builds: &stubBuilds{}, Versions: stubVersions{version: "16.4.1"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
