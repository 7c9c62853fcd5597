// Package prefs keeps per-browser UI preferences in a signed cookie session.
package prefs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "coursehub-prefs"

	sidebarCollapsedKey = "sidebar-collapsed"
)

// Prefs is the preference set carried through the request context.
type Prefs struct {
	SidebarCollapsed bool
}

type ctxKey string

const prefsKey ctxKey = "prefs"

// FromRequest returns the preferences loaded by Store.Load.
// Missing preferences read as the zero value (sidebar expanded).
func FromRequest(r *http.Request) Prefs {
	return FromContext(r.Context())
}

// FromContext is FromRequest for code that only holds a context.
func FromContext(ctx context.Context) Prefs {
	p, _ := ctx.Value(prefsKey).(Prefs)
	return p
}

// WithPrefs returns a copy of ctx carrying p.
func WithPrefs(ctx context.Context, p Prefs) context.Context {
	return context.WithValue(ctx, prefsKey, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Store                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Store reads and writes preferences through a gorilla cookie store.
type Store struct {
	sessions sessions.Store
	name     string
	log      *zap.Logger
}

// Options configures NewStore.
type Options struct {
	Key    string // signing key, 32+ chars recommended
	Name   string // cookie name, DefaultSessionName when empty
	Domain string
	Secure bool
	MaxAge int // seconds; 0 keeps the gorilla default of 30 days
}

// NewStore builds a cookie-backed preference store.
//
// In production (Secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use Secure=false so cookies are accepted.
// An empty key is only accepted outside production: a random key is generated,
// which means preferences do not survive a restart.
func NewStore(opts Options, logger *zap.Logger) (*Store, error) {
	key := []byte(opts.Key)
	switch {
	case len(key) == 0 && opts.Secure:
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	case len(key) == 0:
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("no session key configured; using a random key, preferences reset on restart")
	case len(key) < 32:
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}

	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Domain:   opts.Domain,
		Path:     "/",
		MaxAge:   86400 * 30,
		Secure:   opts.Secure,
		HttpOnly: true,
	}
	if opts.MaxAge != 0 {
		cs.Options.MaxAge = opts.MaxAge
	}
	if opts.Secure {
		cs.Options.SameSite = http.SameSiteNoneMode
	} else {
		cs.Options.SameSite = http.SameSiteLaxMode
	}

	name := opts.Name
	if name == "" {
		name = DefaultSessionName
	}

	logger.Info("preference store initialized",
		zap.String("cookie", name),
		zap.Bool("secure", opts.Secure),
		zap.String("domain", opts.Domain))

	return &Store{sessions: cs, name: name, log: logger}, nil
}

// Name returns the cookie name.
func (s *Store) Name() string { return s.name }

// Read decodes the preferences carried by r. A missing or tampered cookie
// yields the defaults.
func (s *Store) Read(r *http.Request) Prefs {
	sess, err := s.sessions.Get(r, s.name)
	if err != nil {
		s.log.Debug("preference cookie unreadable; using defaults", zap.Error(err))
	}
	if sess == nil {
		return Prefs{}
	}
	return Prefs{SidebarCollapsed: getString(sess, sidebarCollapsedKey) == "true"}
}

// SetSidebarCollapsed persists the sidebar flag as "true" or "false".
func (s *Store) SetSidebarCollapsed(w http.ResponseWriter, r *http.Request, collapsed bool) error {
	sess, _ := s.sessions.Get(r, s.name)
	if sess == nil {
		return fmt.Errorf("prefs: no session for %q", s.name)
	}
	v := "false"
	if collapsed {
		v = "true"
	}
	sess.Values[sidebarCollapsedKey] = v
	return sess.Save(r, w)
}

// Load injects the request's preferences into its context.
func (s *Store) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := s.Read(r)
		next.ServeHTTP(w, r.WithContext(WithPrefs(r.Context(), p)))
	})
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
