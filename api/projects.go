package api

import (
	"encoding/json"
	"net/http"

	"projects-system/model"
)

func (a *API) getProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.projects.List(r.Context())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getProjectsResponse{Projects: projects})
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	var payload model.Project
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.projects.Create(r.Context(), &payload); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, payload)
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := a.projects.Find(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if p == nil {
		a.Response(w, http.StatusNotFound, "project not found")
		return
	}

	if r.URL.Query().Get("expand") == "users" {
		if err := a.hydrator.HydrateProject(r.Context(), p); err != nil {
			a.Error(w, r, err)
			return
		}
	}
	a.Response(w, http.StatusOK, p)
}

func (a *API) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload model.Project
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id

	if err := a.projects.Update(r.Context(), &payload); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, payload)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.projects.Delete(r.Context(), &model.Project{ID: id}); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}

func (a *API) getProjectUsers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := a.projects.FindUsersByProjectID(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getUsersResponse{Users: users})
}
