package wsocket_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/broadcast"
	"github.com/everforgeworks/frontier-core/internal/wsocket"
)

func TestServeWsDeliversOnlySubscribedTopics(t *testing.T) {
	fabric := broadcast.New(16)
	defer fabric.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wsocket.ServeWs(fabric, w, r)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?topics=state:ship"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(50 * time.Millisecond) // let the server finish subscribing
	fabric.Broadcast("state:ship", map[string]any{"hull": "ok"})
	fabric.Broadcast("state:location", map[string]any{"system": "Sol"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "state:ship")
	assert.Contains(t, string(payload), "hull")

	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "expected no second message for an unsubscribed topic")
}
