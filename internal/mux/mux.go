package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"pokertable-server/internal/jwt"
	"pokertable-server/pkg/room"
	"pokertable-server/pkg/table"
)

type ctxKey int

const (
	ctxUserKey ctxKey = iota
	ctxTableKey
)

// MessageLog returns the recorded messages of a table
type MessageLog interface {
	Messages(ctx context.Context, tableID string, afterID int64, limit int) ([]*table.Message, error)
}

// Bankrolls returns the chips a user holds away from the tables
type Bankrolls interface {
	Bankroll(ctx context.Context, userID int64) (int, error)
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version   string
	logger    logrus.FieldLogger
	pitBoss   *room.PitBoss
	messages  MessageLog
	bankrolls Bankrolls

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, logger logrus.FieldLogger, pitBoss *room.PitBoss, messages MessageLog, bankrolls Bankrolls) *Mux {
	this := &Mux{
		Router:    gmux.NewRouter(),
		version:   version,
		logger:    logger,
		pitBoss:   pitBoss,
		messages:  messages,
		bankrolls: bankrolls,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/bankroll").Handler(this.getBankroll())
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())

		tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
		tr.Methods(http.MethodGet).Path("/messages").Handler(this.getTableUUIDMessages())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		user, err := jwt.ValidUser(token)
		if err != nil {
			m.logger.WithError(err).WithField("remoteAddr", remoteAddr(r)).Debug("rejected token")
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxUserKey, user)
		w.Header().Set("PokerTable-UserID", strconv.FormatInt(user.ID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func userFromContext(ctx context.Context) jwt.User {
	return ctx.Value(ctxUserKey).(jwt.User)
}
