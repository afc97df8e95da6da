// Package server exposes build generation over HTTP for the desktop client.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"draftcoach/internal/buildview"
	"draftcoach/internal/ddragon"
	"draftcoach/internal/draft"
	"draftcoach/internal/itemset"
	"draftcoach/internal/resolve"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// BuildService answers build requests
type BuildService interface {
	Generate(ctx context.Context, req draft.Request) draft.Response
}

// VersionSource reports the latest game version
type VersionSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// MetadataSource provides name directories for rendering and export
type MetadataSource interface {
	Metadata(ctx context.Context) (*ddragon.Metadata, error)
}

// Config wires a Server
type Config struct {
	Builds   BuildService
	Versions VersionSource
	Metadata MetadataSource
	Policy   resolve.Policy
	IDs      resolve.IDPolicy
	Logger   *zap.Logger
}

// Server is the HTTP transport
type Server struct {
	cfg    Config
	logger *zap.Logger
	mux    *http.ServeMux
}

// New creates a Server and registers its routes
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, logger: logger.Named("server"), mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/version", s.handleVersion)
	s.mux.HandleFunc("POST /api/build", s.handleBuild)
	s.mux.HandleFunc("POST /api/build/view", s.handleBuildView)
	s.mux.HandleFunc("POST /api/itemset", s.handleItemSet)
	return s
}

// Handler returns the root handler with CORS applied
func (s *Server) Handler() http.Handler {
	return withCORS(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", "http://"+addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	version, err := s.cfg.Versions.LatestVersion(r.Context())
	if err != nil {
		s.logger.Warn("Version lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": version})
}

// generate decodes a build request and runs it to completion even if the
// caller disconnects, so the result still lands in the cache
func (s *Server) generate(r *http.Request) (draft.Request, draft.Response) {
	var req draft.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, draft.Failure("Invalid request body", false)
	}
	return req, s.cfg.Builds.Generate(context.WithoutCancel(r.Context()), req)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	_, resp := s.generate(r)
	writeJSON(w, statusFor(resp), resp)
}

// viewResponse is a build plus its rendered view
type viewResponse struct {
	draft.Response
	View *buildview.View `json:"view,omitempty"`
}

func (s *Server) handleBuildView(w http.ResponseWriter, r *http.Request) {
	_, resp := s.generate(r)
	out := viewResponse{Response: resp}
	if resp.OK {
		out.View = buildview.NewRenderer(s.metadata(r.Context()), s.cfg.Policy, s.cfg.IDs).Render(resp.Text)
	}
	writeJSON(w, statusFor(resp), out)
}

// itemSetRequest asks for an item set from build text
type itemSetRequest struct {
	Text     string `json:"text"`
	Champion string `json:"champion"`
	Role     string `json:"role"`
	Title    string `json:"title"`
}

func (s *Server) handleItemSet(w http.ResponseWriter, r *http.Request) {
	var req itemSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	md := s.metadata(r.Context())
	if md == nil || md.Items == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "item metadata unavailable"})
		return
	}

	meta := itemset.Meta{Title: req.Title}
	if meta.Title == "" {
		meta.Title = itemset.DefaultTitle(req.Champion, req.Role)
	}
	if md.Champions != nil {
		if champ, ok := md.Champions.Find(req.Champion); ok {
			meta.ChampionKey = champ.Key
		}
	}

	res, err := itemset.NewBuilder(md.Items.IDs(), s.cfg.Policy, s.cfg.IDs).Build(req.Text, meta)
	if err != nil {
		var resErr *itemset.ResolutionError
		if errors.As(err, &resErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":      resErr.Error(),
				"unresolved": resErr.Unresolved,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"itemSet":    res.Set,
		"unresolved": res.Unresolved,
	})
}

// metadata returns the current directories, or nil when they cannot be loaded
func (s *Server) metadata(ctx context.Context) *ddragon.Metadata {
	if s.cfg.Metadata == nil {
		return nil
	}
	md, err := s.cfg.Metadata.Metadata(ctx)
	if err != nil {
		s.logger.Warn("Metadata unavailable", zap.Error(err))
		return nil
	}
	return md
}

// statusFor maps a build response to an HTTP status: validation failures
// are client errors, everything else that failed is a server error
func statusFor(resp draft.Response) int {
	switch {
	case resp.OK:
		return http.StatusOK
	case !resp.Retryable:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// withCORS allows the desktop renderer to call the API from another origin
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
