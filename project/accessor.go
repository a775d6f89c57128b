package project

import (
	"context"
	"projects-system/dbx"
	"projects-system/model"
)

// Associations is the part of the association maintainer the project
// accessor relies on for the projects_users relation.
type Associations interface {
	Link(ctx context.Context, userID, projectID int64) error
	Unlink(ctx context.Context, userID, projectID int64) error
	UsersWithProjects(ctx context.Context, projectID int64) ([]model.User, error)
}

type Accessor struct {
	db           dbx.DBTX
	associations Associations
}

func NewAccessor(db dbx.DBTX, associations Associations) *Accessor {
	return &Accessor{
		db:           db,
		associations: associations,
	}
}
