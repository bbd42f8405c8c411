package web

import (
	"errors"
	"net/http"

	"aiupstart.com/go-chat/internal/chat"
	"aiupstart.com/go-chat/internal/utils"
	"github.com/gorilla/websocket"
)

type wsRequest struct {
	Content string `json:"content"`
}

type wsFrame struct {
	Type    string `json:"type"` // token, done, error
	Content string `json:"content,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// writeJSON writes a JSON-encoded frame to the websocket connection.
func writeJSON(conn *websocket.Conn, frame wsFrame) error {
	return conn.WriteJSON(frame)
}

// handleWS streams replies token by token. Each client frame is one user
// message; the server answers with token frames and a final done frame
// holding the rendered message.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, release, err := s.chats.Attach(s.session(w, r).ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}
	defer release()
	conn, err := s.upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		utils.Logger.Warn().Err(err).Str("module", "web").Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				utils.Logger.Debug().Err(err).Str("session", sess.ID).Msg("Websocket closed")
			}
			return
		}

		msg, err := s.chats.Send(r.Context(), sess.ID, req.Content, func(token string) error {
			return writeJSON(conn, wsFrame{Type: "token", Content: token})
		})
		if err != nil {
			utils.Logger.Warn().Err(err).Str("session", sess.ID).Msg("Streamed reply failed")
			if msg.Content == "" || errors.Is(err, chat.ErrTurnLimit) {
				if werr := writeJSON(conn, wsFrame{Type: "error", Content: err.Error()}); werr != nil {
					return
				}
				continue
			}
		}
		if err := writeJSON(conn, wsFrame{Type: "done", HTML: string(s.renderer.Message(msg))}); err != nil {
			return
		}
	}
}
