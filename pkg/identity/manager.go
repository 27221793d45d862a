package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config holds session-token settings, populated from the environment.
type Config struct {
	Secret        string        `env:"SESSION_JWT_SECRET,required"`               // Secret signs session tokens (HS256).
	Issuer        string        `env:"SESSION_JWT_ISSUER" envDefault:"shopfront"` // Issuer is embedded in and required of every token.
	TokenTTL      time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"2h"`         // TokenTTL is the lifetime of a freshly issued token.
	RefreshWindow time.Duration `env:"SESSION_REFRESH_WINDOW" envDefault:"30m"`   // RefreshWindow is how close to expiry a token gets re-issued (sliding expiry).
	CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`      // CookieName is the session cookie for web clients.
	SecureCookies bool          `env:"SESSION_SECURE_COOKIES" envDefault:"false"` // SecureCookies sets the Secure flag on session cookies.
}

// Claims is the JWT payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// Manager issues and verifies session tokens. It is the routing layer's
// view of the auth provider: verification only, no credential handling.
type Manager struct {
	cfg Config
}

// NewManager creates a session token manager from config.
func NewManager(cfg Config) *Manager {
	if cfg.Secret == "" {
		panic("identity: session JWT secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 2 * time.Hour
	}
	if cfg.RefreshWindow <= 0 {
		cfg.RefreshWindow = 30 * time.Minute
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}
	return &Manager{cfg: cfg}
}

// Issue signs a session token for the identity.
func (m *Manager) Issue(id *Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TokenTTL)),
		},
		Role:  string(id.Role),
		Email: id.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
}

// Verify reads the session token from the request (Authorization bearer
// first, cookie second) and returns the authenticated identity.
// Returns ErrNoSession when no token is present and ErrInvalidToken when
// verification fails.
func (m *Manager) Verify(ctx context.Context, r *http.Request) (*Identity, error) {
	tokenString := m.tokenFromRequest(r)
	if tokenString == "" {
		return nil, ErrNoSession
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:    userID,
		Email:     claims.Email,
		Role:      Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh re-issues the session cookie when the token is inside its
// refresh window, so normal navigation slides expiry forward instead of
// spuriously logging the user out. Outside the window it does nothing.
func (m *Manager) Refresh(ctx context.Context, w http.ResponseWriter, id *Identity) error {
	if id == nil || time.Until(id.ExpiresAt) > m.cfg.RefreshWindow {
		return nil
	}

	token, err := m.Issue(id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// tokenFromRequest checks the Authorization header first (API clients),
// then the session cookie (web clients).
func (m *Manager) tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
