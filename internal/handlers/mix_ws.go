// internal/handlers/mix_ws.go
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mixgg/mix-service/internal/cache"
	"github.com/mixgg/mix-service/internal/middleware"
	"github.com/mixgg/mix-service/internal/mix"
)

// MixWSHandler streams payload-free change signals for one mix. Whenever the
// mix record changes the client receives {"type":"mix_changed"} and is
// expected to re-read the record over HTTP; the socket never carries state.
func MixWSHandler(logger *logrus.Logger, s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/mix/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "missing mix_id", http.StatusBadRequest)
			return
		}
		mixID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "invalid mix_id", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"mix"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "mix" {
			c.Close(BadSubprotocolError, "client must speak the mix subprotocol")
			return
		}

		if _, err := playerFromRequest(r); err != nil {
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		if _, err := s.Get(ctx, mixID); err != nil {
			c.Close(InvalidMixIDError, "mix does not exist")
			return
		}

		middleware.WatcherAttached(logger, remoteAddr, r.URL.Path)

		sub := cache.SubscribeMixChanged(ctx, mixID)
		defer sub.Close()
		signals := sub.Channel()

		// Drain reads so we notice the client going away.
		go func() {
			for {
				if _, _, err := c.Read(ctx); err != nil {
					cancel()
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				middleware.WatcherDetached(logger, remoteAddr, r.URL.Path, nil)
				return
			case _, ok := <-signals:
				if !ok {
					middleware.WatcherDetached(logger, remoteAddr, r.URL.Path, nil)
					return
				}
				writeCtx, writeCancel := context.WithTimeout(ctx, 5*time.Second)
				err := wsjson.Write(writeCtx, c, map[string]interface{}{"type": "mix_changed"})
				writeCancel()
				if err != nil {
					middleware.WatcherDetached(logger, remoteAddr, r.URL.Path, err)
					return
				}
			}
		}
	}
}
