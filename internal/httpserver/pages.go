// internal/httpserver/pages.go
//
// Browser pages and share links.
//   - GET /            → landing page
//   - GET /setup       → name, difficulty and time limit form
//   - GET /play/{id}   → game page (unknown games go back to setup)
//   - GET /static/*    → css/js
//   - GET /api/game/{id}/qr → PNG QR code of the game's /play link

package httpserver

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/robalobadob/wordsearch/assets"
)

const qrSize = 320

// mountPages registers the HTML pages and static files.
func (s *Server) mountPages(r chi.Router) {
	web := assets.Web()

	r.Get("/", servePage(web, "index.html"))
	r.Get("/setup", servePage(web, "setup.html"))

	play := servePage(web, "play.html")
	r.Get("/play/{id}", func(w http.ResponseWriter, req *http.Request) {
		if _, err := s.store.Get(req.Context(), chi.URLParam(req, "id")); err != nil {
			http.Redirect(w, req, "/setup", http.StatusSeeOther)
			return
		}
		play(w, req)
	})

	static, err := fs.Sub(web, "static")
	if err != nil {
		panic("httpserver: static assets missing: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
}

// servePage returns a handler writing one embedded HTML file.
func servePage(web fs.FS, name string) http.HandlerFunc {
	body, err := fs.ReadFile(web, name)
	if err != nil {
		panic("httpserver: page " + name + " missing: " + err.Error())
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(body)
	}
}

// handleQR renders a QR code for the game's play link.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	link := scheme + "://" + r.Host + "/play/" + g.ID

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("qr encode")
		http.Error(w, `{"error":"qr_failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}
