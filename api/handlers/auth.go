package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// SeedAdminUsername is the account created by the seed endpoint. It can
// never be deleted.
const SeedAdminUsername = "admin"

// Auth handles login, logout, the identity probe and the one-time seed
type Auth struct {
	DB           databases.UserDatabase
	LDB          databases.AuditLogDatabase
	Sessions     *api.Sessions
	JWTSecret    []byte
	SeedPassword string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler validates credentials, opens a server-side session and
// returns the sanitized user plus a bearer token for non-browser clients
func (h Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("username and password required"))
		return
	}

	user, err := h.DB.FindOne(r.Context(), bson.M{"username": req.Username})
	if err != nil {
		config.ErrorStatus(models.ErrInvalid, http.StatusUnauthorized, w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus(models.ErrInvalid, http.StatusUnauthorized, w, err)
		return
	}

	if _, err := h.Sessions.Issue(w, r, user.Username, user.ID.Hex()); err != nil {
		config.ErrorStatus("failed to create session", http.StatusInternalServerError, w, err)
		return
	}
	token, err := h.accessToken(user)
	if err != nil {
		config.ErrorStatus("failed to sign access token", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), h.LDB, fmt.Sprintf("Session started: %s", user.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"user":  user,
		"token": token,
	})
}

// LogoutHandler invalidates the current session. Idempotent: logging
// out without a session still succeeds.
func (h Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if info, ok := h.Sessions.Resolve(r); ok {
		audit(r.Context(), h.LDB, fmt.Sprintf("Session ended: %s", info.UserName()))
	}
	h.Sessions.Revoke(w, r)
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// MeHandler returns the authenticated identity, or user:null for
// anonymous callers so the client can probe without handling a 401
func (h Auth) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := api.UserFrom(r.Context())
	if !ok {
		config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "user": nil})
		return
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "user": user})
}

// SeedHandler bootstraps the initial admin account. It only works while
// the users collection is empty.
func (h Auth) SeedHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.DB.CountDocuments(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to count users", http.StatusInternalServerError, w, err)
		return
	}
	if n > 0 {
		config.ErrorStatus(models.ErrAlreadySeeded, http.StatusBadRequest, w, errors.New("users collection is not empty"))
		return
	}
	if h.SeedPassword == "" {
		config.ErrorStatus(models.ErrServerMisconfigured, http.StatusInternalServerError, w, errors.New("seed admin password is not set"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(h.SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	admin := models.User{
		ID:        primitive.NewObjectID(),
		Username:  SeedAdminUsername,
		Display:   "Admin",
		Password:  string(hash),
		Role:      models.RoleAdmin,
		Badge:     "ADM-001",
		OnDuty:    false,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := h.DB.InsertOne(r.Context(), admin); err != nil {
		config.ErrorStatus("failed to create seed admin", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), h.LDB, "Initial seed created via API")
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (h Auth) accessToken(user *models.User) (string, error) {
	if len(h.JWTSecret) == 0 {
		return "", errors.New("jwt secret is not set")
	}
	claims := jwt.MapClaims{
		"sub":  user.ID.Hex(),
		"name": user.Username,
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}
