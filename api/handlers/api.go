package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Sessions *api.Sessions
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	userDB := databases.NewUserDatabase(a.dbHelper)
	logDB := databases.NewAuditLogDatabase(a.dbHelper)

	m := api.Auth{
		Sessions:  a.Sessions,
		UserDB:    userDB,
		JWTSecret: []byte(a.Config.JWTSecret),
	}

	auth := Auth{DB: userDB, LDB: logDB, Sessions: a.Sessions, JWTSecret: []byte(a.Config.JWTSecret), SeedPassword: a.Config.SeedPassword}
	u := User{DB: userDB, LDB: logDB}
	call := Call{DB: databases.NewCallDatabase(a.dbHelper), LDB: logDB}
	report := Report{DB: databases.NewReportDatabase(a.dbHelper), LDB: logDB}
	wanted := Wanted{DB: databases.NewWantedDatabase(a.dbHelper), LDB: logDB}
	fine := Fine{DB: databases.NewFineDatabase(a.dbHelper), LDB: logDB}
	alert := Alert{DB: databases.NewAlertDatabase(a.dbHelper), LDB: logDB}
	admin := Admin{
		DB:  a.dbHelper,
		UDB: userDB,
		CDB: call.DB,
		RDB: report.DB,
		WDB: wanted.DB,
		FDB: fine.DB,
		ADB: alert.DB,
		LDB: logDB,
	}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/login", http.HandlerFunc(auth.LoginHandler)).Methods("POST")
	apiCreate.Handle("/logout", http.HandlerFunc(auth.LogoutHandler)).Methods("POST")
	apiCreate.Handle("/me", m.Identify(http.HandlerFunc(auth.MeHandler))).Methods("GET")
	apiCreate.Handle("/seed", http.HandlerFunc(auth.SeedHandler)).Methods("POST")

	apiCreate.Handle("/users", m.Middleware(http.HandlerFunc(u.ListUsersHandler))).Methods("GET")
	apiCreate.Handle("/users/create", m.Middleware(http.HandlerFunc(u.CreateUserHandler))).Methods("POST")
	apiCreate.Handle("/users/{user_id}/role", m.Middleware(http.HandlerFunc(u.ChangeRoleHandler))).Methods("POST")
	apiCreate.Handle("/users/{user_id}/delete", m.Middleware(http.HandlerFunc(u.DeleteUserHandler))).Methods("POST")
	apiCreate.Handle("/users/{user_id}/password", m.Middleware(http.HandlerFunc(u.ResetPasswordHandler))).Methods("POST")
	apiCreate.Handle("/toggle_duty", m.Middleware(http.HandlerFunc(u.ToggleDutyHandler))).Methods("POST")
	apiCreate.Handle("/onDutyList", m.Middleware(http.HandlerFunc(u.OnDutyListHandler))).Methods("GET")

	apiCreate.Handle("/calls", m.Middleware(http.HandlerFunc(call.ListCallsHandler))).Methods("GET")
	apiCreate.Handle("/calls/create", m.Middleware(http.HandlerFunc(call.CreateCallHandler))).Methods("POST")
	apiCreate.Handle("/calls/{call_id}/assign", m.Middleware(http.HandlerFunc(call.AssignCallHandler))).Methods("POST")
	apiCreate.Handle("/calls/{call_id}/delete", m.Middleware(http.HandlerFunc(call.DeleteCallHandler))).Methods("POST")

	apiCreate.Handle("/reports", m.Middleware(http.HandlerFunc(report.ListReportsHandler))).Methods("GET")
	apiCreate.Handle("/reports/create", m.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/reports/{report_id}/delete", m.Middleware(http.HandlerFunc(report.DeleteReportHandler))).Methods("POST")

	apiCreate.Handle("/wanted", m.Middleware(http.HandlerFunc(wanted.ListWantedHandler))).Methods("GET")
	apiCreate.Handle("/wanted/create", m.Middleware(http.HandlerFunc(wanted.CreateWantedHandler))).Methods("POST")
	apiCreate.Handle("/wanted/{wanted_id}/delete", m.Middleware(http.HandlerFunc(wanted.DeleteWantedHandler))).Methods("POST")

	apiCreate.Handle("/fines", m.Middleware(http.HandlerFunc(fine.ListFinesHandler))).Methods("GET")
	apiCreate.Handle("/fines/create", m.Middleware(http.HandlerFunc(fine.CreateFineHandler))).Methods("POST")

	apiCreate.Handle("/alerts", m.Middleware(http.HandlerFunc(alert.ListAlertsHandler))).Methods("GET")
	apiCreate.Handle("/alerts/create", m.Middleware(http.HandlerFunc(alert.CreateAlertHandler))).Methods("POST")
	apiCreate.Handle("/alerts/{alert_id}/delete", m.Middleware(http.HandlerFunc(alert.DeleteAlertHandler))).Methods("POST")

	apiCreate.Handle("/export", m.Middleware(http.HandlerFunc(admin.ExportHandler))).Methods("GET")
	apiCreate.Handle("/import", m.Middleware(http.HandlerFunc(admin.ImportHandler))).Methods("POST")
	apiCreate.Handle("/logs", m.Middleware(http.HandlerFunc(admin.LogsHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("dispatch-api has connected to the database")

	if a.Config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is not set")
	}

	a.Sessions = api.NewSessions(a.Config.SessionTTL, strings.HasPrefix(a.Config.BaseURL, "https"))

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
