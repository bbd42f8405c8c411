package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/chat"
	"aiupstart.com/go-chat/internal/utils"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.session(w, r)
	data := pageData{
		Title:    s.cfg.UI.Title,
		Caption:  s.cfg.UI.Caption,
		Messages: s.pageMessages(sess.History()),
		Stats:    sess.Stats(),
		Now:      time.Now(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		utils.Logger.Error().Err(err).Str("module", "web").Msg("Failed to render page")
	}
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	prompt := r.FormValue("prompt")

	_, err := s.chats.Send(r.Context(), sess.ID, prompt, nil)
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyMessage):
	case errors.Is(err, chat.ErrTurnLimit):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
		return
	default:
		// the error text is already part of the conversation
		utils.Logger.Warn().Err(err).Str("session", sess.ID).Msg("Reply failed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	if err := s.chats.Clear(r.Context(), sess.ID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type blocksResponse struct {
	Session         string             `json:"session"`
	DefaultLanguage string             `json:"default_language"`
	Blocks          []gochat.CodeBlock `json:"blocks"`
}

// handleBlocks returns the code blocks of the session's latest assistant message.
func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	sess, err := s.chats.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	resp := blocksResponse{
		Session:         sess.ID,
		DefaultLanguage: s.cfg.UI.DefaultLanguage,
		Blocks:          []gochat.CodeBlock{},
	}
	if last, ok := sess.LastAssistant(); ok {
		resp.Blocks = append(resp.Blocks, last.CodeBlocks()...)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		utils.Logger.Error().Err(err).Str("module", "web").Str("session", sess.ID).Msg("Failed to write blocks response")
	}
}
