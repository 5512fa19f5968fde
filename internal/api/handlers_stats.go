package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/timeliner/internal/llm"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.gen.(llm.StatsProvider)
	if !ok {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.gen.Model(),
		"stats": sp.StatsSnapshot(),
	})
}
