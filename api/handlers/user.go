package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// defaultPassword is assigned when an admin creates an account without
// one; the user is expected to have it reset.
const defaultPassword = "1234"

// User exported for testing purposes
type User struct {
	DB  databases.UserDatabase
	LDB databases.AuditLogDatabase
}

type createUserRequest struct {
	Username string      `json:"username"`
	Display  string      `json:"display"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Badge    string      `json:"badge"`
}

// ListUsersHandler returns all users
func (u User) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := u.DB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get users", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.User{}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "users": dbResp})
}

// CreateUserHandler creates a new account, admin only
func (u User) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionManageUsers) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("manage_users required"))
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	if req.Username == "" {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("missing username"))
		return
	}
	if !req.Role.Valid() {
		config.ErrorStatus(models.ErrInvalidRole, http.StatusBadRequest, w, fmt.Errorf("unknown role %q", req.Role))
		return
	}

	n, err := u.DB.CountDocuments(r.Context(), bson.M{"username": req.Username})
	if err != nil {
		config.ErrorStatus("failed to check username", http.StatusInternalServerError, w, err)
		return
	}
	if n > 0 {
		config.ErrorStatus(models.ErrExists, http.StatusBadRequest, w, fmt.Errorf("username %q is taken", req.Username))
		return
	}

	if req.Display == "" {
		req.Display = req.Username
	}
	if req.Password == "" {
		req.Password = defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	newUser := models.User{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Display:   req.Display,
		Password:  string(hash),
		Role:      req.Role,
		Badge:     req.Badge,
		OnDuty:    false,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := u.DB.InsertOne(r.Context(), newUser); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), u.LDB, fmt.Sprintf("User created: %s by %s", newUser.Username, actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "user": newUser})
}

// ChangeRoleHandler sets a user's role, admin only. Concurrent changes
// race and the later write wins.
func (u User) ChangeRoleHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionManageUsers) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("manage_users required"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	if !req.Role.Valid() {
		config.ErrorStatus(models.ErrInvalidRole, http.StatusBadRequest, w, fmt.Errorf("unknown role %q", req.Role))
		return
	}

	matched, err := u.DB.UpdateOne(r.Context(), bson.M{"_id": uID}, bson.M{"$set": bson.M{"role": req.Role}})
	if err != nil {
		config.ErrorStatus("failed to update role", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no user with id %s", uID.Hex()))
		return
	}

	audit(r.Context(), u.LDB, fmt.Sprintf("Role changed: %s -> %s by %s", uID.Hex(), req.Role, actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// DeleteUserHandler removes an account, admin only. The seed admin is
// protected.
func (u User) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionManageUsers) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("manage_users required"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}

	target, err := u.DB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}
	if target.Username == SeedAdminUsername {
		config.ErrorStatus(models.ErrCannotDeleteSeed, http.StatusBadRequest, w, errors.New("seed admin is protected"))
		return
	}

	deleted, err := u.DB.DeleteOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to delete user", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no user with id %s", uID.Hex()))
		return
	}

	audit(r.Context(), u.LDB, fmt.Sprintf("User deleted: %s by %s", target.Username, actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// ResetPasswordHandler re-hashes a user's password, admin only
func (u User) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionManageUsers) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("manage_users required"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	if req.Password == "" {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("missing password"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	matched, err := u.DB.UpdateOne(r.Context(), bson.M{"_id": uID}, bson.M{"$set": bson.M{"password": string(hash)}})
	if err != nil {
		config.ErrorStatus("failed to update password", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no user with id %s", uID.Hex()))
		return
	}

	audit(r.Context(), u.LDB, fmt.Sprintf("Password reset: %s by %s", uID.Hex(), actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// ToggleDutyHandler flips the acting user's duty flag and returns the
// resulting status
func (u User) ToggleDutyHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	newDuty := !actor.OnDuty
	matched, err := u.DB.UpdateOne(r.Context(), bson.M{"_id": actor.ID}, bson.M{"$set": bson.M{"onDuty": newDuty}})
	if err != nil {
		config.ErrorStatus("failed to toggle duty", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no user with id %s", actor.ID.Hex()))
		return
	}

	status := "off"
	if newDuty {
		status = "on"
		audit(r.Context(), u.LDB, fmt.Sprintf("%s went on duty", actor.Display))
	} else {
		audit(r.Context(), u.LDB, fmt.Sprintf("%s went off duty", actor.Display))
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "status": status})
}

// OnDutyListHandler returns the duty roster, the users currently on duty
func (u User) OnDutyListHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := u.DB.Find(r.Context(), bson.M{"onDuty": true})
	if err != nil {
		config.ErrorStatus("failed to get duty roster", http.StatusInternalServerError, w, err)
		return
	}
	onDuty := make([]models.DutyEntry, 0, len(dbResp))
	for _, usr := range dbResp {
		onDuty = append(onDuty, models.DutyEntry{ID: usr.ID, Display: usr.Display})
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "onDuty": onDuty})
}
