package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeWait = 5 * time.Second

// createWebsocketHandler streams relay transitions as JSON, starting with
// the current one. Messages from the client are ignored.
func createWebsocketHandler(monitor *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Err(err).Msg("Websocket upgrade failed")
			return
		}
		defer c.Close(websocket.StatusInternalError, "unexpected close")

		unsub, ch := monitor.Subscribe()
		defer unsub()

		ctx := c.CloseRead(r.Context())

		if current, ok := monitor.Current(); ok {
			if err := writeTimeout(ctx, writeWait, c, current); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				c.Close(websocket.StatusNormalClosure, "")
				return
			case tr, ok := <-ch:
				if !ok {
					c.Close(websocket.StatusGoingAway, "")
					return
				}
				if err := writeTimeout(ctx, writeWait, c, tr); err != nil {
					log.Debug().Err(err).Msg("Websocket write failed")
					return
				}
			}
		}
	}
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return wsjson.Write(ctx, c, msg)
}
