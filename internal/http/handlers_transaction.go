package http

import "net/http"

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := req.toTransaction(owner, "")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.finance.CreateTransaction(r.Context(), t)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, buildTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	predicate, err := parsePredicate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := s.finance.ListTransactions(r.Context(), owner, predicate)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildTransactionList(transactions))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := req.toTransaction(owner, r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.finance.UpdateTransaction(r.Context(), t); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, buildTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.finance.DeleteTransaction(r.Context(), owner, r.PathValue("id")); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
