package http

import (
	"net/http"

	"bilancio/internal/core"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := req.toGoal(owner, "")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.finance.CreateGoal(r.Context(), g)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, buildGoalResponse(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	goals, err := s.finance.ListGoals(r.Context(), owner)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildGoalList(goals))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := req.toGoal(owner, r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.finance.UpdateGoal(r.Context(), g); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildGoalResponse(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.finance.DeleteGoal(r.Context(), owner, r.PathValue("id")); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleAddGoalProgress applies a saved-amount increment to a goal.
func (s *Server) handleAddGoalProgress(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req progressRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "amount: "+err.Error())
		return
	}

	updated, err := s.finance.AddGoalProgress(r.Context(), owner, r.PathValue("id"), core.Money{Cents: cents})
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildGoalResponse(updated))
}

// handleRecreateGoal derives a fresh goal from a completed one.
func (s *Server) handleRecreateGoal(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	next, err := s.finance.RecreateGoal(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, buildGoalResponse(next))
}
