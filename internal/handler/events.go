package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/syncer"
)

const (
	streamBuffer    = 32
	streamWriteWait = 10 * time.Second
	streamPongWait  = 60 * time.Second
	streamPingEvery = streamPongWait * 9 / 10
)

// EventsHandler pushes mirror change notifications to browsers so open
// pages can refetch without polling.
type EventsHandler struct {
	Bus      *syncer.Bus
	Log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewEventsHandler constructs an EventsHandler publishing changes from bus.
func NewEventsHandler(bus *syncer.Bus, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		Bus: bus,
		Log: log.With().Str("component", "events").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection and writes one JSON Change per mirror
// write.  A slow client loses changes rather than stalling the writer
// that published them.
func (h *EventsHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // upgrader already answered
	}
	defer conn.Close()

	changes := make(chan syncer.Change, streamBuffer)
	unsubscribe := h.Bus.Subscribe(func(ch syncer.Change) {
		select {
		case changes <- ch:
		default:
			h.Log.Debug().Str("store", ch.Store).Msg("stream client behind, change dropped")
		}
	})
	defer unsubscribe()

	// The read side only exists to process pongs and notice the close.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingEvery)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case ch := <-changes:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(ch); err != nil {
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}
