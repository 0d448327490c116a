package mux

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/table"
)

const maxRows = 500
const defaultRows = 100

// parsePaginationOptions returns the id to start after and the number of rows
func parsePaginationOptions(r *http.Request) (int64, int, error) {
	start := int64(0)
	rows := defaultRows

	if startStr := r.FormValue("start"); startStr != "" {
		val, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return 0, 0, err
		}

		if val < 0 {
			return 0, 0, errors.New("start cannot be less than zero")
		}

		start = val
	}

	if rowsStr := r.FormValue("rows"); rowsStr != "" {
		val, err := strconv.Atoi(rowsStr)
		if err != nil {
			return 0, 0, err
		}

		if val <= 0 {
			return 0, 0, errors.New("rows must be greater than zero")
		}

		if val > maxRows {
			return 0, 0, fmt.Errorf("rows cannot be greater than %d", maxRows)
		}

		rows = val
	}

	return start, rows, nil
}

func remoteAddr(r *http.Request) string {
	parts := strings.Split(r.RemoteAddr, ":")
	if len(parts) == 1 {
		return parts[0]
	}

	return strings.Join(parts[0:len(parts)-1], ":")
}

// redactMessages hides the closed hole cards of other users
func redactMessages(messages []*table.Message, userID int64) []*table.Message {
	redacted := make([]*table.Message, len(messages))
	for i, msg := range messages {
		redacted[i] = msg
		if msg.MsgType != string(playable.PlayerCards) {
			continue
		}

		var props playable.PlayerCardsProps
		if err := json.Unmarshal(msg.Props, &props); err != nil {
			logrus.WithError(err).WithField("id", msg.ID).Error("could not decode recorded cards")
			copied := *msg
			copied.Props = nil
			redacted[i] = &copied
			continue
		}

		env := playable.NewEnvelope(msg.TableID, msg.GameID, &props).RedactFor(userID)
		if env.Props == &props {
			continue
		}

		b, err := json.Marshal(env.Props)
		if err != nil {
			logrus.WithError(err).WithField("id", msg.ID).Error("could not encode redacted cards")
			b = nil
		}

		copied := *msg
		copied.Props = b
		redacted[i] = &copied
	}

	return redacted
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
