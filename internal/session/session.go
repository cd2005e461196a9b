// internal/session/session.go
//
// Player sessions from the setup page.
//
// The setup form (name, difficulty, time limit) is carried in an HS256 JWT
// stored in an HttpOnly cookie, so any later request can start a game with
// the player's choices without server-side session state. The player ID is a
// random UUID minted on first setup and kept across re-submits.
//
// Signing keys are derived from one configured secret with HKDF-SHA256, one
// key per purpose.

package session

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/robalobadob/wordsearch/internal/game"
)

const DefaultCookieName = "wordsearch_session"

var (
	ErrMissing = errors.New("session: no token")
	ErrInvalid = errors.New("session: invalid token")
)

// DeriveKey expands secret into a 32-byte key bound to purpose.
func DeriveKey(secret, purpose string) []byte {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("wordsearch/"+purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		panic("session: hkdf: " + err.Error())
	}
	return key
}

type claims struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	TimeLimit  int    `json:"time"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens.
type Manager struct {
	key        []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewManager builds a Manager. secure marks cookies Secure/SameSite=None,
// as needed when the page is served over https to another origin.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Manager{
		key:        DeriveKey(secret, "session"),
		ttl:        ttl,
		cookieName: DefaultCookieName,
		secure:     secure,
	}
}

// Issue signs s. An empty PlayerID gets a fresh UUID.
func (m *Manager) Issue(s game.Settings) (string, game.Settings, time.Time, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return "", s, time.Time{}, err
	}
	if s.PlayerID == "" {
		s.PlayerID = uuid.NewString()
	}
	now := time.Now()
	exp := now.Add(m.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:       s.PlayerName,
		Difficulty: string(s.Difficulty),
		TimeLimit:  int(s.TimeLimit / time.Second),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.PlayerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := tok.SignedString(m.key)
	return ss, s, exp, err
}

// Parse verifies a token and returns the settings it carries.
func (m *Manager) Parse(token string) (game.Settings, error) {
	var c claims
	t, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || c.Subject == "" {
		return game.Settings{}, ErrInvalid
	}
	s := game.Settings{
		PlayerID:   c.Subject,
		PlayerName: c.Name,
		Difficulty: game.Difficulty(c.Difficulty),
		TimeLimit:  time.Duration(c.TimeLimit) * time.Second,
	}.Normalize()
	return s, nil
}

// FromRequest reads the token from the Authorization header or the cookie.
func (m *Manager) FromRequest(r *http.Request) (game.Settings, error) {
	tok := m.bearerOrCookie(r)
	if tok == "" {
		return game.Settings{}, ErrMissing
	}
	return m.Parse(tok)
}

// SetCookie writes the session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
		MaxAge:   -1,
	})
}

func (m *Manager) sameSite() http.SameSite {
	if m.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (m *Manager) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(m.cookieName); err == nil {
		return c.Value
	}
	return ""
}
