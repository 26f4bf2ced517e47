package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "voyageur_session"
	sessionTTL = 24 * time.Hour
)

type contextKey struct{}

// Session identifies one browser's map page and the user it acts as.
type Session struct {
	ID   uuid.UUID
	Name string
}

// Signer issues and validates HS256 session tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

func (s *Signer) GenerateJWT(sess Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sess.ID.String(),
		"name":       sess.Name,
		"exp":        s.now().Add(sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Signer) ValidateJWT(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Session{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, fmt.Errorf("invalid claims")
	}
	idStr, _ := claims["session_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Session{}, fmt.Errorf("invalid session id")
	}
	name, _ := claims["name"].(string)
	if name == "" {
		return Session{}, fmt.Errorf("missing name claim")
	}
	return Session{ID: id, Name: name}, nil
}

// SessionMiddleware loads the session from its cookie, issuing a new one for
// currentUser when the cookie is missing, invalid or names a different user.
func (s *Signer) SessionMiddleware(currentUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(CookieName); err == nil {
				if sess, err := s.ValidateJWT(c.Value); err == nil && sess.Name == currentUser {
					next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
					return
				}
			}

			sess := Session{ID: uuid.New(), Name: currentUser}
			token, err := s.GenerateJWT(sess)
			if err != nil {
				log.Println("sign session:", err)
				http.Error(w, "unable to start session", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Expires:  s.now().Add(sessionTTL),
			})
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}
