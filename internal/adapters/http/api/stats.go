package api

import (
	"net/http"

	"github.com/okian/healthfetch/internal/domain/endpoint"
)

type endpointsResponse struct {
	Endpoints []endpoint.Descriptor `json:"endpoints"`
	Total     int                   `json:"total"`
}

// HandleStatus handles GET /api/status. The table is created when missing.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Status(r.Context()))
}

// HandleEndpoints handles GET /api/endpoints.
func (s *Server) HandleEndpoints(w http.ResponseWriter, _ *http.Request) {
	eps := s.svc.Endpoints()
	writeJSON(w, http.StatusOK, endpointsResponse{Endpoints: eps, Total: len(eps)})
}

// HandleSetupTable handles POST /api/setup-table.
func (s *Server) HandleSetupTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.SetupTable(r.Context()))
}

// HandleDebug handles GET /api/debug.
func (s *Server) HandleDebug(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Debug(r.Context()))
}
