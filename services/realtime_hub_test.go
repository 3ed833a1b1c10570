package services

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestRealtimeHubBroadcastMany(t *testing.T) {
	hub := NewRealtimeHub()
	registered := make(chan *WSClient, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		uid, _ := strconv.Atoi(r.URL.Query().Get("uid"))
		cl := &WSClient{UserID: uint(uid), Conn: conn}
		hub.Register(cl)
		registered <- cl
	}))
	defer srv.Close()

	dial := func(uid int) (*websocket.Conn, *WSClient) {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?uid=" + strconv.Itoa(uid)
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })
		return c, <-registered
	}
	alice, _ := dial(1)
	bob, bobClient := dial(2)

	// user 3 has no sockets and is skipped
	hub.BroadcastMany([]uint{1, 2, 3}, TeamEvent{Kind: "team.member.approved", TeamID: "t1", UserID: 2})

	for _, c := range []*websocket.Conn{alice, bob} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "team.member.approved", gjson.GetBytes(msg, "kind").String())
		assert.Equal(t, "t1", gjson.GetBytes(msg, "team_id").String())
		assert.Equal(t, int64(2), gjson.GetBytes(msg, "user_id").Int())
	}

	hub.Unregister(bobClient)
	require.NoError(t, bob.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := bob.ReadMessage()
	assert.Error(t, err)

	hub.Broadcast(2, TeamEvent{Kind: "team.member.removed"})
}
