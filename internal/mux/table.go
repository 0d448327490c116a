package mux

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/room"
)

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.pitBoss.Tables())
	}
}

type getTableUUIDResponse struct {
	room.Summary
	Players []playable.SeatInfo `json:"players"`
}

func (m *Mux) getTableUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := r.Context().Value(ctxTableKey).(*room.Dealer)
		writeJSON(w, http.StatusOK, getTableUUIDResponse{
			Summary: dealer.Summary(),
			Players: dealer.Seats(),
		})
	}
}

// getTableUUIDMessages pages through the recorded messages of the table
// The log holds every hole card, closed cards of other players are redacted for the caller.
func (m *Mux) getTableUUIDMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		dealer := r.Context().Value(ctxTableKey).(*room.Dealer)
		messages, err := m.messages.Messages(r.Context(), dealer.ID(), start, rows)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, redactMessages(messages, userFromContext(r.Context()).ID))
	}
}

type getBankrollResponse struct {
	UserID  int64 `json:"userId"`
	Balance int   `json:"balance"`
}

func (m *Mux) getBankroll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		balance, err := m.bankrolls.Bankroll(r.Context(), user.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, getBankrollResponse{UserID: user.ID, Balance: balance})
	}
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]
		dealer, ok := m.pitBoss.Dealer(uuid)
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, dealer)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
