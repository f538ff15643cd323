package http

import "net/http"

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := req.toBudget(owner, "")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.finance.CreateBudget(r.Context(), b)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, buildBudgetResponse(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	budgets, err := s.finance.ListBudgets(r.Context(), owner)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildBudgetList(budgets))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := req.toBudget(owner, r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.finance.UpdateBudget(r.Context(), b); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildBudgetResponse(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.finance.DeleteBudget(r.Context(), owner, r.PathValue("id")); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
