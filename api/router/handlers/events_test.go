package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

func TestPublishEventFanOut(t *testing.T) {
	sub := subscribeEvents()
	defer unsubscribeEvents(sub)

	PublishEvent(EngineEvent{Type: "toggle", File: "app.py", Mode: models.ModeClean, Changed: true})

	select {
	case evt := <-sub:
		assert.Equal(t, "toggle", evt.Type)
		assert.Equal(t, "app.py", evt.File)
		assert.True(t, evt.Changed)
		assert.NotEmpty(t, evt.ID, "publish stamps an ID")
		assert.False(t, evt.At.IsZero(), "publish stamps a timestamp")
	case <-time.After(time.Second):
		t.Fatal("expected an event on the subscriber channel")
	}
}

func TestPushEventDropOldest(t *testing.T) {
	ch := make(chan EngineEvent, 1)
	pushEventWS(ch, EngineEvent{ID: "first"})
	pushEventWS(ch, EngineEvent{ID: "second"})

	evt := <-ch
	assert.Equal(t, "second", evt.ID, "a full queue drops its oldest entry")
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra event %q", extra.ID)
	default:
	}
}

func TestEventsFeedWS(t *testing.T) {
	r := chi.NewRouter()
	RegisterEventRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := testutil.ToFloat64(wsSubscribers)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The handler subscribes after the upgrade; wait for it before publishing.
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(wsSubscribers) >= base+1
	}, 2*time.Second, 10*time.Millisecond)

	PublishEvent(EngineEvent{Type: "sync", File: "app.py"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt EngineEvent
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "sync", evt.Type)
	assert.Equal(t, "app.py", evt.File)
	assert.NotEmpty(t, evt.ID)
}
