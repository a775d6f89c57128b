package api_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"projects-system/api"
	"projects-system/config"
	"projects-system/database"
	"projects-system/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoggedAPI(t *testing.T) (*api.API, sqlmock.Sqlmock, *bytes.Buffer) {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	f := database.NewFromDB(db, config.Default().Database, log)
	t.Cleanup(func() { _ = f.Close() })

	a := api.NewAPI(f, log)
	a.RegisterRoutes()
	return a, dbMock, &buf
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		a, dbMock, _ := setupLoggedAPI(t)
		dbMock.ExpectPing()

		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database down", func(t *testing.T) {
		a, dbMock, logs := setupLoggedAPI(t)
		dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, logs.String(), "health check failed")
	})
}

func TestRequestID(t *testing.T) {
	a, dbMock, _ := setupLoggedAPI(t)
	dbMock.ExpectPing()
	dbMock.ExpectPing()

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-ID"))
}

func TestHandler(t *testing.T) {
	t.Run("access log", func(t *testing.T) {
		a, dbMock, logs := setupLoggedAPI(t)
		dbMock.ExpectPing()

		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, logs.String(), "GET /api/health")
	})

	t.Run("panic recovery", func(t *testing.T) {
		a, _, logs := setupLoggedAPI(t)
		a.Router().HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})

		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logs.String(), "boom")
	})
}

func TestError(t *testing.T) {
	a, _, logs := setupLoggedAPI(t)

	for _, tc := range []struct {
		name   string
		err    error
		status int
	}{
		{name: "precondition", err: errs.Precondition("user.update", "user is not created yet"), status: http.StatusBadRequest},
		{name: "no rows affected", err: errs.NoRowsAffected("user.delete", "no rows affected"), status: http.StatusNotFound},
		{name: "unique violation", err: errs.Storage("association.link", &pq.Error{Code: "23505"}), status: http.StatusConflict},
		{name: "foreign key violation", err: errs.Storage("association.link", &pq.Error{Code: "23503"}), status: http.StatusNotFound},
		{name: "storage", err: errs.Storage("user.list", errors.New("bad connection")), status: http.StatusInternalServerError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.Error(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			res := decode(t, rec)
			assert.Equal(t, tc.err.Error(), res.Response)
		})
	}
	assert.Contains(t, logs.String(), "bad connection")
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("request failed")))
}
