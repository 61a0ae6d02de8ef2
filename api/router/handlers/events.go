package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
)

const (
	eventsWSWriteWait = 10 * time.Second
	eventsWSPongWait  = 60 * time.Second
	eventsWSPingEvery = (eventsWSPongWait * 9) / 10
)

var eventsWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// EngineEvent is one entry on the /events feed.
type EngineEvent struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"` // toggle, hide, show, sync, mark, orphan_restored, orphans_purged
	File     string      `json:"file,omitempty"`
	Mode     models.Mode `json:"mode,omitempty"`
	Changed  bool        `json:"changed,omitempty"`
	Orphaned int         `json:"orphaned,omitempty"`
	At       time.Time   `json:"at"`
}

var eventSubs = struct {
	sync.Mutex
	chans map[chan EngineEvent]struct{}
}{chans: make(map[chan EngineEvent]struct{})}

func subscribeEvents() chan EngineEvent {
	ch := make(chan EngineEvent, 32)
	eventSubs.Lock()
	eventSubs.chans[ch] = struct{}{}
	eventSubs.Unlock()
	wsSubscribers.Inc()
	return ch
}

func unsubscribeEvents(ch chan EngineEvent) {
	eventSubs.Lock()
	delete(eventSubs.chans, ch)
	eventSubs.Unlock()
	wsSubscribers.Dec()
}

// PublishEvent fans an event out to every /events subscriber, stamping the
// ID and timestamp. A slow subscriber loses its oldest queued event rather
// than blocking the operation that published.
func PublishEvent(evt EngineEvent) {
	evt.ID = uuid.NewString()
	evt.At = time.Now()
	eventsPublished.WithLabelValues(evt.Type).Inc()

	eventSubs.Lock()
	defer eventSubs.Unlock()
	for ch := range eventSubs.chans {
		pushEventWS(ch, evt)
	}
}

func pushEventWS(ch chan EngineEvent, evt EngineEvent) {
	select {
	case ch <- evt:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- evt:
	default:
	}
}

func RegisterEventRoutes(r chi.Router) {
	r.Get("/events", EventsFeedHandler)
}

// EventsFeedHandler handles GET requests that upgrade to the event feed.
// @Summary Stream engine events over a websocket
// @Description Upgrades the connection to a websocket and streams toggle, sync, mark and orphan events as JSON messages while they happen.
// @Tags Events
// @Success 101 {string} string "Switching Protocols"
// @Router /events [get]
func EventsFeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := eventsWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(eventsWSPongWait)); err != nil {
		logger.Error("EventsFeedHandler: set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsWSPongWait))
	})

	sub := subscribeEvents()
	defer unsubscribeEvents(sub)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(eventsWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-sub:
				if err := conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// The feed is one-way; inbound frames only keep the connection alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}
