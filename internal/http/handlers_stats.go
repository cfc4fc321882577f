package http

import (
	"net/http"

	"fintrack/internal/log"
)

func (s *Server) handleHomeStats(w http.ResponseWriter, r *http.Request) {
	v, err := s.transactions.Home(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpCompute, err)
		return
	}
	NewResponse().JSON(v).Write(w)
}

func (s *Server) handleTransactionsStats(w http.ResponseWriter, r *http.Request) {
	v, err := s.transactions.Transactions(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpCompute, err)
		return
	}
	NewResponse().JSON(v).Write(w)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	v, err := s.transactions.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpCompute, err)
		return
	}
	NewResponse().JSON(v).Write(w)
}
