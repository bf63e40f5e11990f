// Package api exposes stored pipeline runs over a read-only HTTP API.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/store"
)

// Server handles HTTP requests for the run results API
type Server struct {
	store *store.Store
	addr  string
}

// New creates a new API server
func New(s *store.Store, addr string) *Server {
	return &Server{store: s, addr: addr}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	mux := http.NewServeMux()

	// Runs
	mux.HandleFunc("GET /runs", s.listRuns)
	mux.HandleFunc("GET /runs/{id}", s.getRun)
	mux.HandleFunc("GET /runs/{id}/words", s.getRunWords)
	mux.HandleFunc("GET /runs/{id}/removals", s.getRunRemovals)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	fmt.Printf("Starting server on %s\n", s.addr)
	return http.ListenAndServe(s.addr, withCORS(mux))
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	runs, err := s.store.ListRuns(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

// resolveRunID supports prefix matching on run ids, like the CLI does.
func (s *Server) resolveRunID(prefix string) (string, error) {
	runs, err := s.store.ListRuns(100, 0)
	if err != nil {
		return "", err
	}
	for _, run := range runs {
		if strings.HasPrefix(run.ID, prefix) {
			return run.ID, nil
		}
	}
	return "", nil
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id, err := s.resolveRunID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if id == "" {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	run, err := s.store.GetRun(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (s *Server) getRunWords(w http.ResponseWriter, r *http.Request) {
	id, err := s.resolveRunID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if id == "" {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	words, err := s.store.GetWords(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Optional rank filter: ?rank=Easy|Medium|Hard or numeric
	if rankParam := r.URL.Query().Get("rank"); rankParam != "" {
		rank, ok := parseRank(rankParam)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid rank: "+rankParam)
			return
		}
		var filtered []domain.LabeledWord
		for _, lw := range words {
			if lw.Rank == rank {
				filtered = append(filtered, lw)
			}
		}
		words = filtered
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": id,
		"words":  words,
	})
}

func (s *Server) getRunRemovals(w http.ResponseWriter, r *http.Request) {
	id, err := s.resolveRunID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if id == "" {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	removals, err := s.store.GetRemovals(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   id,
		"removals": removals,
	})
}

func parseRank(s string) (domain.Rank, bool) {
	switch strings.ToLower(s) {
	case "0", "easy":
		return domain.Easy, true
	case "1", "medium":
		return domain.Medium, true
	case "2", "hard":
		return domain.Hard, true
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
