package heroserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

const maxRequestBodySize = 1 << 20 // 1MB

// listResponse is the paginated envelope returned by the collection route.
type listResponse struct {
	Data     []Hero `json:"data"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// heroPatch mirrors the PATCH body: nil fields are left unchanged.
// Client-stamped timestamps in the body are ignored; the repository
// recomputes updatedAt on write.
type heroPatch struct {
	Name            *string    `json:"name"`
	Powers          *[]string  `json:"powers"`
	AlterEgo        *string    `json:"alterEgo"`
	Publisher       *string    `json:"publisher"`
	FirstAppearance *time.Time `json:"firstAppearance"`
	ImageURL        *string    `json:"imageUrl"`
}

// Server serves the hero collection API for development.
//
// Routes:
//   - GET    /heroes        paginated list with optional name_like filter
//   - POST   /heroes        create (server assigns id and timestamps)
//   - GET    /heroes/{id}   fetch one
//   - PATCH  /heroes/{id}   partial update
//   - DELETE /heroes/{id}   remove
//
// Errors are returned as {"message": "..."} JSON payloads. The server is
// designed for graceful shutdown via context cancellation.
type Server struct {
	repo       *Repository
	port       int
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
	done       chan struct{}
}

// NewServer creates a dev collection [Server] over the repository.
//
// Port 0 picks a free port; use [Server.Addr] after Start to discover it.
// The server is not started until [Server.Start] is called.
func NewServer(repo *Repository, port int, logger *slog.Logger) *Server {
	return &Server{
		repo:   repo,
		port:   port,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server continues until the context is cancelled, at
// which point it initiates a graceful shutdown with a 5-second timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		defer close(s.done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Wait blocks until the server has finished shutting down. Only meaningful
// after a successful [Server.Start] whose context has been cancelled.
func (s *Server) Wait() {
	<-s.done
}

// Addr returns a dialable address for the server. A wildcard listen address
// is reported as loopback. Only valid after a successful [Server.Start].
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	addr, ok := s.listener.Addr().(*net.TCPAddr)
	if !ok {
		return s.listener.Addr().String()
	}
	if addr.IP == nil || addr.IP.IsUnspecified() {
		return fmt.Sprintf("127.0.0.1:%d", addr.Port)
	}
	return addr.String()
}

// routes builds the request mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /heroes", s.handleList)
	mux.HandleFunc("POST /heroes", s.handleCreate)
	mux.HandleFunc("GET /heroes/{id}", s.handleGet)
	mux.HandleFunc("PATCH /heroes/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /heroes/{id}", s.handleDelete)
	return mux
}

// handleList serves one page of the collection.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 10)
	if page < 1 || pageSize < 1 {
		s.writeError(w, http.StatusBadRequest, "page and pageSize must be at least 1")
		return
	}
	name := r.URL.Query().Get("name_like")

	heroes, total, err := s.repo.List(r.Context(), page, pageSize, name)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, listResponse{
		Data:     heroes,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// handleGet serves a single hero by id.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	hero, err := s.repo.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, hero)
}

// handleCreate stores a new hero and returns it with its assigned id.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var hero Hero
	if !s.decodeBody(w, r, &hero) {
		return
	}
	if hero.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := s.repo.Create(r.Context(), hero)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// handleUpdate merges a partial update into an existing hero.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch heroPatch
	if !s.decodeBody(w, r, &patch) {
		return
	}

	hero, err := s.repo.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	applyPatch(&hero, patch)

	updated, err := s.repo.Update(r.Context(), hero)
	if errors.Is(err, ErrNotFound) {
		// deleted between the read and the write
		s.writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// handleDelete removes a hero by id.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.repo.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "hero not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyPatch overwrites hero fields that the patch carries.
func applyPatch(hero *Hero, patch heroPatch) {
	if patch.Name != nil {
		hero.Name = *patch.Name
	}
	if patch.Powers != nil {
		hero.Powers = *patch.Powers
	}
	if patch.AlterEgo != nil {
		hero.AlterEgo = *patch.AlterEgo
	}
	if patch.Publisher != nil {
		hero.Publisher = *patch.Publisher
	}
	if patch.FirstAppearance != nil {
		hero.FirstAppearance = *patch.FirstAppearance
	}
	if patch.ImageURL != nil {
		hero.ImageURL = *patch.ImageURL
	}
}

// decodeBody reads a bounded JSON request body into out. On failure it
// writes a 400 response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"message": message})
}

// serverError logs the failure and answers with a generic 500 payload.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

// queryInt parses an integer query parameter, falling back to a default
// when absent or malformed.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
