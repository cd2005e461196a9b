// internal/httpserver/server.go
//
// HTTP server wiring for the Word Search backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     request logging, security headers, JSON, CORS).
//   - Pages: "/", "/setup", "/play/{id}" and "/static/*" from embedded assets.
//   - Session endpoints: setup form → signed cookie.
//   - Game endpoints under /api/game, including the websocket and QR code.
//   - Daily puzzle and history endpoints.
//
// Notes:
//   - The websocket route is mounted outside the Timeout middleware, which
//     would otherwise cancel long-lived connections.
//   - Only the player who created a game may act on it; anyone with the link
//     may watch.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/results"
	"github.com/robalobadob/wordsearch/internal/session"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

// Options tune the server.
type Options struct {
	ClientOrigin   string        // allowed CORS origin; empty disables CORS headers
	DailySalt      string        // HMAC salt for the daily puzzle seed
	Secure         bool          // served over https
	RequestTimeout time.Duration // per-request bound for non-websocket routes
	Version        string
}

// Server bundles router, game store, result history, and session manager.
type Server struct {
	r        *chi.Mux
	opts     Options
	store    store.Store
	results  *results.Store
	sessions *session.Manager
	words    *words.Bank
	daily    *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options, st store.Store, res *results.Store, sm *session.Manager, bank *words.Bank) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{
		r:        chi.NewRouter(),
		opts:     opts,
		store:    st,
		results:  res,
		sessions: sm,
		words:    bank,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.securityHeaders)

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("wordsearch v" + s.opts.Version + "\n"))
	})

	s.mountPages(s.r)

	s.r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(s.cors)

		// websocket: no timeout, session optional (spectators allowed)
		r.With(s.withOptionalSession).Get("/game/{id}/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(s.opts.RequestTimeout))

			r.Post("/session", s.handleCreateSession)
			r.With(s.requireSession).Get("/session", s.handleGetSession)
			r.Delete("/session", s.handleDeleteSession)

			r.With(s.requireSession).Post("/game/new", s.handleNewGame)
			r.Get("/game/{id}", s.handleGetGame)
			r.Get("/game/{id}/qr", s.handleQR)
			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)
				r.Post("/game/{id}/select", s.handleSelect)
				r.Post("/game/{id}/pause", s.handlePause)
				r.Post("/game/{id}/resume", s.handleResume)
				r.Post("/game/{id}/restart", s.handleRestart)
				r.Delete("/game/{id}", s.handleDeleteGame)
				r.Get("/games/mine", s.handleMine)
			})

			s.mountDaily(r.With(s.requireSession))

			r.Get("/debug/words", s.handleDebugWords)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s
}

// Handler exposes the router (http.Server and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Permissions-Policy", "geolocation=(), midi=(), microphone=(), camera=(), payment=()")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' ws: wss:; img-src 'self' data:")
		if s.opts.Secure {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("ip", r.RemoteAddr).
			Str("reqId", chimw.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ctxSessionKey is the context key type for the player's settings.
type ctxSessionKey struct{}

// requireSession rejects requests without a valid session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		me, err := s.sessions.FromRequest(r)
		if err != nil {
			http.Error(w, `{"error":"no_session"}`, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, &me)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withOptionalSession attaches the session when present and never rejects.
func (s *Server) withOptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if me, err := s.sessions.FromRequest(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, &me))
		}
		next.ServeHTTP(w, r)
	})
}

// currentPlayer returns the session settings attached by middleware.
func currentPlayer(r *http.Request) *game.Settings {
	me, _ := r.Context().Value(ctxSessionKey{}).(*game.Settings)
	return me
}

// ------------------------------- small util --------------------------------

// wordCategory is one row of /api/debug/words.
type wordCategory struct {
	Name  string `json:"name"`
	Words int    `json:"words"`
}

// handleDebugWords reports the loaded word bank per category.
func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	_, n := s.words.Stats()
	cats := []wordCategory{}
	for _, name := range s.words.Categories() {
		cats = append(cats, wordCategory{Name: name, Words: len(s.words.Category(name))})
	}
	_ = json.NewEncoder(w).Encode(struct {
		Categories []wordCategory `json:"categories"`
		Words      int            `json:"words"`
	}{cats, n})
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
