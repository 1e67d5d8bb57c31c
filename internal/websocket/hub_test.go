package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fuelops/internal/domain"
	"fuelops/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenTable map[string]domain.Actor

func (t tokenTable) Parse(token string) (domain.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return domain.Actor{}, errors.New("unknown token")
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)
	// No Run loop: the queue fills and further events are dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			hub.Publish("entry.submitted", uuid.New(), i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, hub.broadcast, sendBuffer)
}

func TestServeWsDeliversEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	tokens := tokenTable{
		"ceo":   {ID: uuid.New(), Name: "Sarah CEO", Role: model.RoleCEO},
		"guest": {ID: uuid.New(), Name: "Guest", Role: "GUEST"},
	}
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, tokens) })
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=guest", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=ceo", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("alert.raised", uuid.New(), map[string]string{"type": model.AlertLowStock})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, "alert.raised", ev.Event)
	assert.Equal(t, model.AlertLowStock, ev.Data["type"])

	cancel()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWsScopesEventsToManagerStation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	stationA, stationB := uuid.New(), uuid.New()
	tokens := tokenTable{
		"ceo":   {ID: uuid.New(), Name: "Sarah CEO", Role: model.RoleCEO},
		"mgr-b": {ID: uuid.New(), Name: "Abuja Manager", Role: model.RoleStationManager, StationID: &stationB},
	}
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, tokens) })
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	ceo, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=ceo", nil)
	require.NoError(t, err)
	defer ceo.Close()
	mgr, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=mgr-b", nil)
	require.NoError(t, err)
	defer mgr.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	readEvent := func(conn *websocket.Conn) (string, error) {
		if err := conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
			return "", err
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return "", err
		}
		var ev struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(raw, &ev); err != nil {
			return "", err
		}
		return ev.Event, nil
	}

	hub.Publish("entry.submitted", stationA, map[string]string{"station_id": stationA.String()})
	got, err := readEvent(ceo)
	require.NoError(t, err)
	assert.Equal(t, "entry.submitted", got)

	hub.Publish("entry.decided", stationB, map[string]string{"station_id": stationB.String()})
	got, err = readEvent(ceo)
	require.NoError(t, err)
	assert.Equal(t, "entry.decided", got)

	// The manager's first frame must be station B's event, not station A's.
	got, err = readEvent(mgr)
	require.NoError(t, err)
	assert.Equal(t, "entry.decided", got)
}

func TestClientSeesOnlyItsStation(t *testing.T) {
	own, other := uuid.New(), uuid.New()
	mgr := &Client{Actor: domain.Actor{Role: model.RoleStationManager, StationID: &own}}
	unassigned := &Client{Actor: domain.Actor{Role: model.RoleStationManager}}
	ceo := &Client{Actor: domain.Actor{Role: model.RoleCEO}}

	assert.True(t, mgr.sees(own))
	assert.False(t, mgr.sees(other))
	assert.False(t, unassigned.sees(own))
	assert.True(t, ceo.sees(own))
	assert.True(t, ceo.sees(other))
}
