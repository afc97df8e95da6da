// Package lcu talks to the locally running League client: lockfile
// discovery, authenticated REST calls and the champ select event stream.
package lcu

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	ErrLockfileNotFound = errors.New("lockfile not found")
	ErrLeagueNotRunning = errors.New("league client is not running")
	ErrNotInChampSelect = errors.New("not in champ select")
)

// Credentials holds the LCU connection details parsed from lockfile
type Credentials struct {
	ProcessName string
	PID         string
	Port        string
	Password    string
	Protocol    string
}

// BaseURL returns the REST root for these credentials
func (c *Credentials) BaseURL() string {
	return fmt.Sprintf("%s://127.0.0.1:%s", c.Protocol, c.Port)
}

// AuthHeader returns the basic auth header value
func (c *Credentials) AuthHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:"+c.Password))
}

// Client is a connection to the League client's REST API
type Client struct {
	leagueDir  string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.RWMutex
	credentials *Credentials
	baseURL     string
}

// NewClient creates a client. leagueDir, when set, is searched for the
// lockfile before the common install locations.
func NewClient(leagueDir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		leagueDir: leagueDir,
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // LCU uses self-signed cert
				},
			},
			Timeout: 2 * time.Second, // Short timeout for quick disconnect detection
		},
		logger: logger.Named("lcu"),
	}
}

// FindLockfile searches for the League client lockfile
func FindLockfile(leagueDir string) (string, error) {
	var possiblePaths []string
	if leagueDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(leagueDir, "lockfile"))
	}
	possiblePaths = append(possiblePaths,
		"C:/Riot Games/League of Legends/lockfile",
		"D:/Riot Games/League of Legends/lockfile",
		"C:/Program Files/Riot Games/League of Legends/lockfile",
		"C:/Program Files (x86)/Riot Games/League of Legends/lockfile",
		"/Applications/League of Legends.app/Contents/LoL/lockfile",
	)
	for _, drive := range []string{"E:", "F:", "G:"} {
		possiblePaths = append(possiblePaths, filepath.Join(drive, "Riot Games/League of Legends/lockfile"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrLockfileNotFound
}

// ParseLockfile reads and parses the lockfile content
func ParseLockfile(path string) (*Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	// Lockfile format: LeagueClient:pid:port:password:protocol
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid lockfile format: expected 5 parts, got %d", len(parts))
	}

	return &Credentials{
		ProcessName: parts[0],
		PID:         parts[1],
		Port:        parts[2],
		Password:    parts[3],
		Protocol:    parts[4],
	}, nil
}

// Connect locates the lockfile and verifies the client answers
func (c *Client) Connect(ctx context.Context) error {
	path, err := FindLockfile(c.leagueDir)
	if err != nil {
		return err
	}
	creds, err := ParseLockfile(path)
	if err != nil {
		return err
	}
	return c.ConnectWith(ctx, creds, creds.BaseURL())
}

// ConnectWith uses explicit credentials and base URL
func (c *Client) ConnectWith(ctx context.Context, creds *Credentials, baseURL string) error {
	c.mu.Lock()
	c.credentials = creds
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()

	if _, err := c.CurrentSummoner(ctx); err != nil {
		c.Disconnect()
		return fmt.Errorf("failed to connect to LCU: %w", err)
	}
	c.logger.Info("League connected", zap.String("port", creds.Port))
	return nil
}

// IsConnected checks the connection with a health request, dropping the
// credentials when the client has gone away
func (c *Client) IsConnected(ctx context.Context) bool {
	if c.Credentials() == nil {
		return false
	}
	if _, err := c.CurrentSummoner(ctx); err != nil {
		c.Disconnect()
		return false
	}
	return true
}

// Credentials returns the current LCU credentials
func (c *Client) Credentials() *Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credentials
}

// Disconnect forgets the current credentials
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials = nil
	c.baseURL = ""
}

// do sends an authenticated request
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	c.mu.RLock()
	creds, baseURL := c.credentials, c.baseURL
	c.mu.RUnlock()
	if creds == nil {
		return nil, ErrLeagueNotRunning
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", creds.AuthHeader())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// GetJSON performs a GET request and decodes the response into v
func (c *Client) GetJSON(ctx context.Context, endpoint string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// PutJSON performs a PUT request with body encoded as JSON
func (c *Client) PutJSON(ctx context.Context, endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	return nil
}

// StatusError is a non-success reply from the client API
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.Endpoint)
}

// Summoner is the logged-in player
type Summoner struct {
	SummonerID  int64  `json:"summonerId"`
	AccountID   int64  `json:"accountId"`
	PUUID       string `json:"puuid"`
	GameName    string `json:"gameName"`
	DisplayName string `json:"displayName"`
}

// CurrentSummoner returns the logged-in player
func (c *Client) CurrentSummoner(ctx context.Context) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, "/lol-summoner/v1/current-summoner", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GameflowPhase returns the current gameflow phase
func (c *Client) GameflowPhase(ctx context.Context) (string, error) {
	var phase string
	if err := c.GetJSON(ctx, "/lol-gameflow/v1/gameflow-phase", &phase); err != nil {
		return "", err
	}
	return phase, nil
}

// ChampSelectSession returns the current champ select session
func (c *Client) ChampSelectSession(ctx context.Context) (*ChampSelectSession, error) {
	var session ChampSelectSession
	if err := c.GetJSON(ctx, "/lol-champ-select/v1/session", &session); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, ErrNotInChampSelect
		}
		return nil, err
	}
	return &session, nil
}
