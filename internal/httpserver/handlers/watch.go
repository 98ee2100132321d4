package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/newsclip-dev/newsclip/internal/auth"
	"github.com/newsclip-dev/newsclip/internal/domain"
	"github.com/newsclip-dev/newsclip/internal/httpserver/deps"
	"github.com/newsclip-dev/newsclip/internal/logger"
	"github.com/newsclip-dev/newsclip/internal/metrics"
	"github.com/newsclip-dev/newsclip/internal/session"
)

const keepAliveInterval = 25 * time.Second

// Watch streams a user's collection over server-sent events, driven by
// an auth-gated session: the current snapshot goes out immediately,
// then a fresh one after every change, and an unknown identity streams
// an empty collection. The identity is resolved in precedence order:
// X-User-ID header, then the path's user id, then the identity
// provider. The path segment "me" defers to the provider (the
// configured default user).
func Watch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := pathKind(r)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		pathID := chi.URLParam(r, "userID")
		if pathID == "me" {
			pathID = ""
		}
		external := auth.Resolve(r.Header.Get("X-User-ID"), pathID)

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
			return
		}

		// Session state lands in a one-slot channel. A client too slow
		// to drain it gets the newest state only; intermediate ones are
		// dropped.
		states := make(chan session.State, 1)

		sess := session.New(kind, d.Auth, d.Watcher, external, d.Logger)
		sess.OnState(func(st session.State) {
			for {
				select {
				case states <- st:
					return
				default:
					select {
					case <-states:
					default:
					}
				}
			}
		})
		sess.Start(r.Context())
		defer sess.Stop()

		metrics.SubscriptionStarted()
		defer metrics.SubscriptionEnded()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case st := <-states:
				if st.Err != "" {
					payload, _ := json.Marshal(errorResponse{Error: st.Err})
					fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
					flusher.Flush()
					continue
				}
				if st.Loading {
					// A snapshot is on its way; nothing to send yet.
					continue
				}
				records := st.Items
				if records == nil {
					records = []*domain.BookmarkRecord{}
				}
				payload, err := json.Marshal(records)
				if err != nil {
					d.Logger.Error("snapshot encoding failed", logger.Error(err))
					continue
				}
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
				flusher.Flush()

			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			}
		}
	}
}
