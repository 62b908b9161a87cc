package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookieName = "sessionid"
	DefaultSessionTTL = 14 * 24 * time.Hour

	tokenIssuer   = "studybud"
	tokenAudience = "user"
	claimUsername = "username"
)

// Session is the identity carried by a request. The zero value is anonymous.
type Session struct {
	ID       string
	UserID   uint
	Username string
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

type Config struct {
	// Secret is a base64 encoded ed25519 secret key. A random key is used when empty.
	Secret       string
	TTL          time.Duration
	SecureCookie bool
}

// Manager issues and verifies paseto v4 session cookies.
type Manager struct {
	key    paseto.V4AsymmetricSecretKey
	parser paseto.Parser
	ttl    time.Duration
	secure bool
}

func NewManager(cfg Config) (m *Manager, err error) {
	m = &Manager{
		ttl:    cfg.TTL,
		secure: cfg.SecureCookie,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultSessionTTL
	}

	if cfg.Secret == "" {
		zap.L().Warn("no session secret configured, using random key; sessions will not survive restarts")
		m.key = paseto.NewV4AsymmetricSecretKey()
	} else if m.key, err = loadPasetoPrivateKey(cfg.Secret); err != nil {
		m = nil
		return
	}

	m.parser = paseto.MakeParser([]paseto.Rule{
		paseto.IssuedBy(tokenIssuer),
		paseto.ForAudience(tokenAudience),
		paseto.NotExpired(),
	})
	return
}

// Issue starts a session for the given user by setting the session cookie.
func (m *Manager) Issue(w http.ResponseWriter, userID uint, username string) error {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	token := newToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetJti(uuid.New().String())
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)
	token.SetSubject(strconv.FormatUint(uint64(userID), 10))
	token.SetString(claimUsername, username)

	cookie := m.cookie(token.V4Sign(m.key, nil), int(m.ttl.Seconds()))
	cookie.Expires = expiresAt
	if err := cookie.Valid(); err != nil {
		return err
	}

	http.SetCookie(w, cookie)
	return nil
}

// Clear ends the session regardless of whether one exists.
func (m *Manager) Clear(w http.ResponseWriter) {
	cookie := m.cookie("", -1)
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

// Load returns the session of the request. Missing or invalid cookies yield
// an anonymous session, never nil.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return &Session{}
	}

	sess, err := m.parse(cookie.Value)
	if err != nil {
		zap.L().Debug("invalid session token", zap.Error(err))
		return &Session{}
	}
	return sess
}

func (m *Manager) parse(value string) (sess *Session, err error) {
	var token *paseto.Token
	if token, err = m.parser.ParseV4Public(m.key.Public(), value, nil); err != nil {
		return
	}

	var subject, jti, username string
	if subject, err = token.GetSubject(); err != nil {
		return
	}
	if jti, err = token.GetJti(); err != nil {
		return
	}
	if username, err = token.GetString(claimUsername); err != nil {
		return
	}

	var userID uint64
	if userID, err = strconv.ParseUint(subject, 10, 0); err != nil {
		return
	}
	if userID == 0 {
		err = errors.New("empty subject")
		return
	}

	sess = &Session{
		ID:       jti,
		UserID:   uint(userID),
		Username: username,
	}
	return
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   m.secure,
	}
}

// GenerateSecret returns a fresh base64 encoded key usable as Config.Secret.
func GenerateSecret() string {
	key := paseto.NewV4AsymmetricSecretKey()
	return base64.StdEncoding.EncodeToString(key.ExportBytes())
}

func loadPasetoPrivateKey(sessionSecret string) (key paseto.V4AsymmetricSecretKey, err error) {
	var decoded []byte
	if decoded, err = base64.StdEncoding.DecodeString(sessionSecret); err != nil {
		return
	}

	return paseto.NewV4AsymmetricSecretKeyFromBytes(decoded)
}

// XXX: paseto library is silly
func newToken() *paseto.Token {
	t := paseto.NewToken()
	return &t
}
