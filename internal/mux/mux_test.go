package mux

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pokertable-server/pkg/playable"
	"pokertable-server/pkg/room"
	"pokertable-server/pkg/table"
)

func Test_authRouter(t *testing.T) {
	ts := newTestServer(t, "")

	ts.mux.authRouter.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, userFromContext(r.Context()).Name)
	})

	var errObj errorResponse
	assertGet(t, ts.Server, "/test", &errObj, 401)
	assert.Equal(t, "Unauthorized", errObj.Message)

	assertGet(t, ts.Server, "/test", &errObj, 401, "not-a-token")

	signed := token(t, 1, "Quiet Heron")

	// test using auth header
	var str string
	resp := assertGet(t, ts.Server, "/test", &str, 200, signed)
	assert.Equal(t, "Quiet Heron", str)
	assert.Equal(t, "1", resp.Header.Get("PokerTable-UserID"))

	// test using query parameter
	resp = assertGet(t, ts.Server, "/test?access_token="+url.QueryEscape(signed), &str, 200)
	assert.Equal(t, "Quiet Heron", str)
	assert.Equal(t, "1", resp.Header.Get("PokerTable-UserID"))
}

func TestGetTable(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t, "")
	signed := token(t, 1, "one")

	main := ts.openTable(t, "Main")
	ts.openTable(t, "High Stakes")

	var tables []room.Summary
	assertGet(t, ts.Server, "/table", &tables, 200, signed)
	if a.Len(tables, 2) {
		a.Equal("High Stakes", tables[0].Name)
		a.Equal("Main", tables[1].Name)
		a.Equal(main.ID(), tables[1].ID)
	}

	var tbl getTableUUIDResponse
	assertGet(t, ts.Server, "/table/"+main.ID(), &tbl, 200, signed)
	a.Equal("Main", tbl.Name)
	a.Equal(9, tbl.Seats)
	a.Empty(tbl.Players)

	assertGet(t, ts.Server, "/table/00000000-0000-0000-0000-000000000000", nil, 404, signed)
	assertGet(t, ts.Server, "/table", nil, 401)
}

func TestGetBankroll(t *testing.T) {
	ts := newTestServer(t, "")

	var resp getBankrollResponse
	assertGet(t, ts.Server, "/bankroll", &resp, 200, token(t, 2, "two"))
	assert.Equal(t, getBankrollResponse{UserID: 2, Balance: 10000}, resp)
}

func TestGetTableUUIDMessages(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t, "")
	d := ts.openTable(t, "Main")

	client := room.NewClient(nil, 1, "one", d)
	seat := 3
	require.NoError(t, d.Join(cbg, client, &seat))

	signed := token(t, 2, "two")

	var messages []*table.Message
	assertGet(t, ts.Server, "/table/"+d.ID()+"/messages", &messages, 200, signed)
	if a.Len(messages, 2) {
		a.Equal(string(playable.PlayerEnter), messages[0].MsgType)
		a.Equal(string(playable.PlayerSeat), messages[1].MsgType)
	}

	assertGet(t, ts.Server, "/table/"+d.ID()+"/messages?start=1&rows=1", &messages, 200, signed)
	if a.Len(messages, 1) {
		a.Equal(string(playable.PlayerSeat), messages[0].MsgType)
	}

	assertGet(t, ts.Server, "/table/"+d.ID()+"/messages?rows=0", nil, 400, signed)
}

func TestTableWebSocket(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t, "")
	d := ts.openTable(t, "Main")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/table/" + d.ID() + "/ws?access_token=" + url.QueryEscape(token(t, 1, "Quiet Heron"))
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func(msgType playable.MsgType) *playable.Envelope {
		t.Helper()

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var env playable.Envelope
			require.NoError(t, conn.ReadJSON(&env))
			if env.MsgType == msgType {
				return &env
			}
		}
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"cmdId":"seat-me","cmdType":"JOIN","props":{"seat":2}}`)))

	info := read(playable.TableInfo)
	a.Equal("seat-me", info.CmdID)
	a.Equal("Main", info.Props.(*playable.TableInfoProps).Name)

	seat := read(playable.PlayerSeat).Props.(*playable.PlayerSeatProps)
	a.Equal(&playable.PlayerSeatProps{UserID: 1, Name: "Quiet Heron", Seat: 2, Balance: 1000, Connected: true}, seat)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"cmdType":"BET","props":{"action":"check"}}`)))
	errProps := read(playable.Error).Props.(*playable.ErrorProps)
	a.Equal(room.CodeNoGame, errProps.Code)

	require.NoError(t, conn.Close())
	a.Eventually(func() bool {
		seats := d.Seats()
		return len(seats) == 1 && !seats[0].Connected
	}, 5*time.Second, 10*time.Millisecond, "the seat is kept for the disconnected user")
}
