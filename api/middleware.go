package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

type contextKey string

const userContextKey contextKey = "dispatch.user"

var errNoSession = errors.New("no session")

// Auth authenticates requests from either the session cookie or a
// bearer access token, loads the acting user and injects it into the
// request context so handlers never touch ambient session state.
type Auth struct {
	Sessions  *Sessions
	UserDB    databases.UserDatabase
	JWTSecret []byte
}

// UserFrom returns the authenticated user stored in ctx
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userContextKey).(*models.User)
	return u, ok
}

// WithUser returns a copy of ctx carrying u. Exported for handler tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// Middleware wraps next with required authentication; unauthenticated
// requests are rejected with 401
func (a Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := a.authenticate(r)
		if err != nil {
			zap.S().Debugw("unauthenticated request", "url", r.URL.Path)
			config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, err)
			return
		}
		zap.S().Debugf("user %s authenticated", user.Username)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Identify is like Middleware but lets anonymous requests through with
// no user in context. Used by the identity probe.
func (a Auth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if user, err := a.authenticate(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (a Auth) authenticate(r *http.Request) (*models.User, error) {
	if info, ok := a.Sessions.Resolve(r); ok {
		return a.lookup(r.Context(), info.ID())
	}
	if token := bearerToken(r); token != "" {
		return a.fromJWT(r.Context(), token)
	}
	return nil, errNoSession
}

func (a Auth) lookup(ctx context.Context, idHex string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, err
	}
	return a.UserDB.FindOne(ctx, bson.M{"_id": id})
}

func (a Auth) fromJWT(ctx context.Context, tokenString string) (*models.User, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	sub, _ := claims["sub"].(string)
	return a.lookup(ctx, sub)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
