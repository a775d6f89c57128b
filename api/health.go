package api

import "net/http"

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Ping(r.Context()); err != nil {
		a.log.Warn().Err(err).Str("request_id", RequestID(r.Context())).Msg("health check failed")
		a.Response(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	a.Response(w, http.StatusOK, "OK")
}
