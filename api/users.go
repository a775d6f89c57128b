package api

import (
	"encoding/json"
	"net/http"

	"projects-system/model"
)

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var payload model.User
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.users.Create(r.Context(), &payload); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, payload)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := a.users.Find(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}

	if r.URL.Query().Get("expand") == "projects" {
		if err := a.hydrator.HydrateUser(r.Context(), u); err != nil {
			a.Error(w, r, err)
			return
		}
	}
	a.Response(w, http.StatusOK, u)
}

type getUsersResponse struct {
	Users []model.User `json:"users"`
}

func (a *API) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getUsersResponse{Users: users})
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload model.User
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id
	payload.Password = ""

	if err := a.users.Update(r.Context(), &payload); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, payload)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.Delete(r.Context(), &model.User{ID: id}); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.users.ChangePassword(r.Context(), &model.User{ID: id, Password: req.Password}); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := a.users.FindByCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		a.Response(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	a.Response(w, http.StatusOK, u)
}

type existEmailResponse struct {
	Exists bool `json:"exists"`
}

func (a *API) existEmail(w http.ResponseWriter, r *http.Request) {
	exists, err := a.users.ExistEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, existEmailResponse{Exists: exists})
}

type getProjectsResponse struct {
	Projects []model.Project `json:"projects"`
}

func (a *API) getUserProjects(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := a.users.FindProjectsByUserID(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getProjectsResponse{Projects: projects})
}

func (a *API) addProjectToUser(w http.ResponseWriter, r *http.Request) {
	a.associate(w, r, true)
}

func (a *API) delProjectFromUser(w http.ResponseWriter, r *http.Request) {
	a.associate(w, r, false)
}

func (a *API) associate(w http.ResponseWriter, r *http.Request, link bool) {
	userID, err := pathID(r, "id")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	projectID, err := pathID(r, "projectID")
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	if link {
		err = a.users.AddProjectToUser(r.Context(), userID, projectID)
	} else {
		err = a.users.DelProjectFromUser(r.Context(), userID, projectID)
	}
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}
