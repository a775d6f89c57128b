package user

import (
	"context"
	"projects-system/dbx"
	"projects-system/model"
)

// Associations is the part of the association maintainer the user accessor
// relies on for the projects_users relation.
type Associations interface {
	Link(ctx context.Context, userID, projectID int64) error
	Unlink(ctx context.Context, userID, projectID int64) error
	ProjectsWithUsers(ctx context.Context, userID int64) ([]model.Project, error)
}

// Accessor is the DB layer entrypoint for user-related queries.
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
