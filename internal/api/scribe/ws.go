package scribe

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/csjayzz/medlink-er-coordination/internal/metrics"
	scribesvc "github.com/csjayzz/medlink-er-coordination/internal/scribe"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from the app origin with a bearer token;
	// the token already gates access.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inbound frame from the voice client.
type clientFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Outbound frame to the voice client.
type serverFrame struct {
	Type    string          `json:"type"`
	Text    string          `json:"text,omitempty"`
	Message string          `json:"message,omitempty"`
	Draft   *scribesvc.Draft `json:"draft,omitempty"`
	Alert   any             `json:"alert,omitempty"`
}

// Session handles GET /api/v1/scribe/stream - the live voice session. The
// client streams transcribed utterances; the server answers with draft
// updates, spoken replies, and the transmitted alert. Teardown always runs,
// releasing the model conversation and the socket even on abnormal close.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	medic, ok := callingMedic(w, r)
	if !ok {
		return
	}

	bridge, err := h.service.NewBridge(medic.ID)
	if err != nil {
		if errors.Is(err, scribesvc.ErrNoClient) {
			jsonError(w, http.StatusServiceUnavailable, errCodeUnavailable, "voice extraction is not configured")
			return
		}
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "failed to start voice session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("scribe ws upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	metrics.ScribeSessionsActive.Inc()
	defer func() {
		metrics.ScribeSessionsActive.Dec()
		if err := conn.Close(); err != nil {
			log.Printf("scribe ws close: %v", err)
		}
	}()

	send := func(f serverFrame) bool {
		if err := conn.WriteJSON(f); err != nil {
			log.Printf("scribe ws write: %v", err)
			return false
		}
		return true
	}

	draft := h.service.Draft(medic.ID)
	if !send(serverFrame{Type: "draft", Draft: &draft}) {
		return
	}

	ctx := r.Context()
	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("scribe ws read: %v", err)
			}
			return
		}

		switch frame.Type {
		case "utterance":
			res, err := bridge.HandleUtterance(ctx, frame.Text)
			if err != nil {
				log.Printf("scribe utterance failed for %s: %v", medic.ID, err)
				if !send(serverFrame{Type: "status", Message: "extraction failed, draft unchanged"}) {
					return
				}
				continue
			}

			if res.Updated {
				draft := h.service.Draft(medic.ID)
				if !send(serverFrame{Type: "draft", Draft: &draft}) {
					return
				}
			}
			if res.Reply != "" {
				if !send(serverFrame{Type: "reply", Text: res.Reply}) {
					return
				}
			}
			if res.Transmit {
				alert := h.service.Commit(medic)
				h.board.Add(alert)
				if !send(serverFrame{Type: "transmitted", Alert: alert}) {
					return
				}
				draft := h.service.Draft(medic.ID)
				if !send(serverFrame{Type: "draft", Draft: &draft}) {
					return
				}
			}

		case "reset":
			draft := h.service.Reset(medic.ID)
			if !send(serverFrame{Type: "draft", Draft: &draft}) {
				return
			}

		default:
			if !send(serverFrame{Type: "status", Message: "unknown frame type"}) {
				return
			}
		}
	}
}
