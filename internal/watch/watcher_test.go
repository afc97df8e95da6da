package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"draftcoach/internal/draft"
	"draftcoach/internal/lcu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namer map[int]string

func (n namer) ChampionName(key int) (string, bool) {
	name, ok := n[key]
	return name, ok
}

var names = namer{222: "Jinx", 412: "Thresh", 238: "Zed"}

type fakeGenerator struct {
	mu   sync.Mutex
	reqs []draft.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req draft.Request) draft.Response {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reqs = append(g.reqs, req)
	return draft.Success(draft.OriginGrounded, "26.4", "CORE BUILD\n1. Kraken Slayer")
}

func (g *fakeGenerator) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reqs)
}

func lockedSession(gameID int64) *lcu.ChampSelectSession {
	return &lcu.ChampSelectSession{
		GameID:            gameID,
		LocalPlayerCellID: 0,
		MyTeam: []lcu.ChampSelectPlayer{
			{CellID: 0, ChampionID: 222, AssignedPosition: "bottom"},
			{CellID: 1, ChampionID: 412, AssignedPosition: "utility"},
		},
		TheirTeam: []lcu.ChampSelectPlayer{{ChampionID: 238}},
	}
}

// TestObserve tests that each locked draft is generated once
func TestObserve(t *testing.T) {
	gen := &fakeGenerator{}
	var built []draft.Response
	w := New(nil, names, gen, Config{
		Patch:   "26.4",
		OnBuild: func(_ context.Context, _ draft.Request, resp draft.Response) { built = append(built, resp) },
	}, nil)
	ctx := context.Background()

	assert.True(t, w.Observe(ctx, lockedSession(1)))
	assert.False(t, w.Observe(ctx, lockedSession(1)))
	assert.True(t, w.Observe(ctx, lockedSession(2)))

	require.Equal(t, 2, gen.count())
	req := gen.reqs[0]
	assert.Equal(t, "Jinx", req.ChampionID)
	assert.Equal(t, draft.RoleADC, req.Role)
	assert.Equal(t, []string{"Thresh"}, req.Allies)
	assert.Equal(t, []string{"Zed"}, req.Enemies)
	assert.Len(t, built, 2)
}

// TestObserve_NotReady tests that hovers and unknown positions are ignored
func TestObserve_NotReady(t *testing.T) {
	gen := &fakeGenerator{}
	w := New(nil, names, gen, Config{}, nil)
	ctx := context.Background()

	hovering := lockedSession(1)
	hovering.MyTeam[0].ChampionID = 0
	hovering.Actions = [][]lcu.ChampSelectAction{{{ActorCellID: 0, ChampionID: 222, Type: "pick"}}}
	assert.False(t, w.Observe(ctx, hovering))

	unknown := lockedSession(2)
	unknown.MyTeam[0].ChampionID = 9999
	assert.False(t, w.Observe(ctx, unknown))

	assert.False(t, w.Observe(ctx, nil))
	assert.Equal(t, 0, gen.count())
}

// fakeClient scripts connection state and sessions
type fakeClient struct {
	mu        sync.Mutex
	connected bool
	connects  int
	session   *lcu.ChampSelectSession
}

func (c *fakeClient) Connect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.connects < 2 {
		return errors.New("lockfile not found")
	}
	c.connected = true
	return nil
}

func (c *fakeClient) IsConnected(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) ChampSelectSession(context.Context) (*lcu.ChampSelectSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, lcu.ErrNotInChampSelect
	}
	return c.session, nil
}

// TestRun tests reconnecting and generating from the poll loop
func TestRun(t *testing.T) {
	client := &fakeClient{session: lockedSession(3)}
	gen := &fakeGenerator{}
	w := New(client, names, gen, Config{Interval: 5 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return gen.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 1, gen.count())
}
