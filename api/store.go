package api

import (
	"context"

	"projects-system/model"
)

// UserStore is the user capability the handlers depend on.
type UserStore interface {
	Find(ctx context.Context, id int64) (*model.User, error)
	FindByCredentials(ctx context.Context, email, password string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, u *model.User) error
	ExistEmail(ctx context.Context, email string) (bool, error)
	ChangePassword(ctx context.Context, u *model.User) error
	FindProjectsByUserID(ctx context.Context, id int64) ([]model.Project, error)
	AddProjectToUser(ctx context.Context, userID, projectID int64) error
	DelProjectFromUser(ctx context.Context, userID, projectID int64) error
}

type ProjectStore interface {
	Find(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, p *model.Project) error
	FindUsersByProjectID(ctx context.Context, id int64) ([]model.User, error)
}

// Hydrator fills relationship collections on request, one level deep.
type Hydrator interface {
	HydrateUser(ctx context.Context, u *model.User) error
	HydrateProject(ctx context.Context, p *model.Project) error
}

type pinger interface {
	Ping(ctx context.Context) error
}
