package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/chat"
	"aiupstart.com/go-chat/internal/config"
	"aiupstart.com/go-chat/internal/metrics"
	"aiupstart.com/go-chat/internal/render"
	"aiupstart.com/go-chat/internal/utils"
	"github.com/gorilla/websocket"
)

const sessionCookie = "gochat_session"

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"clock": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}).ParseFS(templatesFS, "templates/index.html"))

type Server struct {
	cfg      *config.Config
	chats    *chat.ChatManager
	renderer *render.Renderer
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config, chats *chat.ChatManager, renderer *render.Renderer) *Server {
	return &Server{
		cfg:      cfg,
		chats:    chats,
		renderer: renderer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the routed HTTP handler, wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/send", s.handleSend)
	mux.HandleFunc("/clear", s.handleClear)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/blocks", s.handleBlocks)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())
	return logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.chats.RunSweeper(ctx, time.Minute, s.cfg.Chat.SessionTTL)

	errCh := make(chan error, 1)
	go func() {
		utils.Logger.Info().Str("addr", s.cfg.Addr).Msg("Chat server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Logger.Info().Msg("Shutting down chat server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// session returns the caller's session, opening a new one (and setting the
// cookie) when the cookie is missing or stale.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *chat.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, err := s.chats.Touch(c.Value); err == nil {
			return sess
		}
	}
	sess := s.chats.Open(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

type pageMessage struct {
	Class string
	HTML  template.HTML
}

type pageData struct {
	Title    string
	Caption  string
	Messages []pageMessage
	Stats    chat.Stats
	Now      time.Time
}

func (s *Server) pageMessages(history []gochat.Message) []pageMessage {
	out := make([]pageMessage, 0, len(history))
	for _, m := range history {
		class := "assistant-message"
		if m.Role == gochat.RoleUser {
			class = "user-message"
		}
		out = append(out, pageMessage{Class: class, HTML: s.renderer.Message(m)})
	}
	return out
}
