package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status               string   `json:"status"`
	Backend              string   `json:"backend"`
	ReplicateTokenLoaded bool     `json:"replicateTokenLoaded"`
	CandidateModels      []string `json:"candidateModels"`
	ResolvedModel        string   `json:"resolvedModel,omitempty"`
	History              bool     `json:"history"`
}

// Health reports liveness plus the backend configuration. It never triggers model
// resolution.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:               "ok",
		Backend:              a.Backend,
		ReplicateTokenLoaded: a.TokenLoaded,
		CandidateModels:      []string{},
		History:              a.Designs != nil,
	}
	if a.Models != nil {
		resp.CandidateModels = a.Models.Candidates()
		if ref, ok := a.Models.Current(); ok {
			resp.ResolvedModel = ref.String()
		}
	}
	a.json(w, http.StatusOK, resp)
}
