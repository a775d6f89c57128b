// Package database opens the connection source and vends the accessors
// bound to it.
//
// A Factory is built once at process start from an explicit configuration
// and handed to every consumer; there is no global registry.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"projects-system/association"
	"projects-system/config"
	"projects-system/dbx"
	"projects-system/model"
	"projects-system/project"
	"projects-system/user"

	"github.com/rs/zerolog"
)

type Factory struct {
	db  *sql.DB
	cfg config.DatabaseConfig
	log zerolog.Logger

	associations *association.Maintainer
	users        *user.Accessor
	projects     *project.Accessor
}

// New connects using cfg and returns a factory bound to that connection.
func New(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*Factory, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Driver).Msg("connected to the database")

	return NewFromDB(db, cfg, log), nil
}

// NewFromDB builds a factory over an already opened handle.
func NewFromDB(db *sql.DB, cfg config.DatabaseConfig, log zerolog.Logger) *Factory {
	f := &Factory{
		db:  db,
		cfg: cfg,
		log: log,
	}
	f.associations, f.users, f.projects = bind(db)
	return f
}

func bind(db dbx.DBTX) (*association.Maintainer, *user.Accessor, *project.Accessor) {
	associations := association.NewMaintainer(db)
	return associations, user.NewAccessor(db, associations), project.NewAccessor(db, associations)
}

// Users returns the factory's user accessor. Every call returns the same instance.
func (f *Factory) Users() *user.Accessor {
	return f.users
}

func (f *Factory) Projects() *project.Accessor {
	return f.projects
}

func (f *Factory) Associations() *association.Maintainer {
	return f.associations
}

func (f *Factory) Ping(ctx context.Context) error {
	return f.db.PingContext(ctx)
}

func (f *Factory) Close() error {
	f.log.Info().Msg("closing database connection pool")
	return f.db.Close()
}

// CreateUserWithProjects creates u and links it to every project in order.
//
// With AtomicComposites the whole sequence runs in one transaction and u is
// left unchanged on failure. Without it each step commits on its own: a
// failure returns the error together with the number of links written, and
// the user row plus those links stay in place.
func (f *Factory) CreateUserWithProjects(ctx context.Context, u *model.User, projectIDs ...int64) error {
	if !f.cfg.AtomicComposites {
		created, linked, err := createUserWithProjects(ctx, f.users, u, projectIDs)
		if err != nil && created {
			f.log.Warn().
				Int64("user_id", u.ID).
				Int("linked", linked).
				Int("requested", len(projectIDs)).
				Err(err).
				Msg("composite write partially applied")
		}
		return err
	}

	original := *u
	err := dbx.WithTx(ctx, f.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, users, _ := bind(tx)
		_, _, err := createUserWithProjects(ctx, users, u, projectIDs)
		return err
	})
	if err != nil {
		*u = original
		return err
	}
	return nil
}

// createUserWithProjects reports whether the user row was written and how
// many links followed it.
func createUserWithProjects(ctx context.Context, users *user.Accessor, u *model.User, projectIDs []int64) (bool, int, error) {
	if err := users.Create(ctx, u); err != nil {
		return false, 0, fmt.Errorf("create user: %w", err)
	}
	for i, projectID := range projectIDs {
		if err := users.AddProjectToUser(ctx, u.ID, projectID); err != nil {
			return true, i, fmt.Errorf("add project %d (%d of %d linked): %w", projectID, i, len(projectIDs), err)
		}
	}
	return true, len(projectIDs), nil
}
