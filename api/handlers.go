package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"projects-system/database"
	"projects-system/errs"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

type ctxKey struct{}

type API struct {
	root   *mux.Router
	router *mux.Router
	log    zerolog.Logger

	db       pinger
	users    UserStore
	projects ProjectStore
	hydrator Hydrator
}

// NewAPI wires the handlers to the accessors vended by factory.
func NewAPI(factory *database.Factory, log zerolog.Logger) *API {
	root := mux.NewRouter()
	root.Use(requestID)
	return &API{
		root:     root,
		router:   root.PathPrefix("/api").Subrouter(),
		log:      log,
		db:       factory,
		users:    factory.Users(),
		projects: factory.Projects(),
		hydrator: factory.Associations(),
	}
}

// Router exposes the bare router, without access logging or panic recovery.
func (a *API) Router() *mux.Router {
	return a.root
}

func (a *API) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{a.log}),
		handlers.PrintRecoveryStack(true),
	)
	// zerolog.Logger is an io.Writer, so access lines land in the same sink.
	return handlers.LoggingHandler(a.log, recovery(a.root))
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.log.Error().Msg(fmt.Sprint(v...))
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Error maps err onto a status code and writes it. Server-side failures are
// logged with the request id.
func (a *API) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsUniqueViolation(err):
		status = http.StatusConflict
	case errs.IsForeignKeyViolation(err):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrPrecondition):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNoRowsAffected):
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		a.log.Error().
			Err(err).
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	a.Response(w, status, err.Error())
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	a.router.HandleFunc("/users", a.getUsers).Methods(http.MethodGet)
	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	a.router.HandleFunc("/users/login", a.login).Methods(http.MethodPost)
	a.router.HandleFunc("/users/exists", a.existEmail).Methods(http.MethodGet).Queries("email", "{email}")
	a.router.HandleFunc("/users/{id:[0-9]+}", a.getUser).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id:[0-9]+}", a.updateUser).Methods(http.MethodPut)
	a.router.HandleFunc("/users/{id:[0-9]+}", a.deleteUser).Methods(http.MethodDelete)
	a.router.HandleFunc("/users/{id:[0-9]+}/password", a.changePassword).Methods(http.MethodPut)
	a.router.HandleFunc("/users/{id:[0-9]+}/projects", a.getUserProjects).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id:[0-9]+}/projects/{projectID:[0-9]+}", a.addProjectToUser).Methods(http.MethodPut)
	a.router.HandleFunc("/users/{id:[0-9]+}/projects/{projectID:[0-9]+}", a.delProjectFromUser).Methods(http.MethodDelete)

	a.router.HandleFunc("/projects", a.getProjects).Methods(http.MethodGet)
	a.router.HandleFunc("/projects", a.createProject).Methods(http.MethodPost)
	a.router.HandleFunc("/projects/{id:[0-9]+}", a.getProject).Methods(http.MethodGet)
	a.router.HandleFunc("/projects/{id:[0-9]+}", a.updateProject).Methods(http.MethodPut)
	a.router.HandleFunc("/projects/{id:[0-9]+}", a.deleteProject).Methods(http.MethodDelete)
	a.router.HandleFunc("/projects/{id:[0-9]+}/users", a.getProjectUsers).Methods(http.MethodGet)
}
