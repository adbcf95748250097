package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"games_library/internal/library"

	"nhooyr.io/websocket"
)

const eventWriteTimeout = 5 * time.Second

type EventSource interface {
	Subscribe(events ...library.Event) (<-chan library.Event, func())
}

// EventsController streams change notifications over a websocket, one text
// message per notification holding the event name.
type EventsController struct {
	source EventSource
	log    *slog.Logger
}

func NewEventsController(source EventSource, log *slog.Logger) *EventsController {
	return &EventsController{
		source: source,
		log:    log,
	}
}

// Stream upgrades the request. Query: events, a comma-separated filter
// (gamesUpdated, statsUpdated); empty means both.
func (c *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.events.Stream"

	var filter []library.Event
	for _, name := range strings.Split(r.URL.Query().Get("events"), ",") {
		switch e := library.Event(strings.TrimSpace(name)); e {
		case library.EventGamesUpdated, library.EventStatsUpdated:
			filter = append(filter, e)
		case "":
		default:
			http.Error(w, "unknown event "+string(e), http.StatusBadRequest)
			return
		}
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		c.log.Warn("websocket upgrade failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	events, cancel := c.source.Subscribe(filter...)
	defer cancel()

	// the client never sends anything; CloseRead handles its close frame
	ctx := conn.CloseRead(r.Context())

	c.log.Debug("event stream opened", slog.String("operation", op), slog.String("remote", r.RemoteAddr))

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "library closed")
				return
			}
			if err := c.write(ctx, conn, e); err != nil {
				c.log.Debug("event stream closed",
					slog.String("operation", op),
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (c *EventsController) write(ctx context.Context, conn *websocket.Conn, e library.Event) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, []byte(e))
}
