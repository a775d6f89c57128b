// Package association maintains the projects_users join relation and
// hydrates the relationship collections of users and projects.
//
// Hydration goes exactly one level deep: a user's projects get their users,
// but those users do not get their projects again.
package association

import (
	"context"
	"projects-system/dbx"
	"projects-system/errs"
	"projects-system/model"
)

var (
	sqlLink   = `INSERT INTO projects_users (user_id, project_id) VALUES ($1, $2)`
	sqlUnlink = `DELETE FROM projects_users WHERE user_id = $1 AND project_id = $2`

	sqlProjectsOfUser = `SELECT ` + model.ProjectColumns("p") +
		` FROM projects p JOIN projects_users pu ON p.id = pu.project_id WHERE pu.user_id = $1 ORDER BY p.id`
	sqlUsersOfProject = `SELECT ` + model.UserColumns("u") +
		` FROM users u JOIN projects_users pu ON u.id = pu.user_id WHERE pu.project_id = $1 ORDER BY u.id`
)

type Maintainer struct {
	db dbx.DBTX
}

func NewMaintainer(db dbx.DBTX) *Maintainer {
	return &Maintainer{db: db}
}

// Link inserts the (user, project) pair. Duplicates are rejected by the
// engine's key on the pair and surface as a storage error.
func (m *Maintainer) Link(ctx context.Context, userID, projectID int64) error {
	const op = "association.link"
	n, err := dbx.Prepare(sqlLink, false, userID, projectID).Exec(ctx, m.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "linking user to project failed, no rows affected")
	}
	return nil
}

// Unlink removes exactly the (user, project) pair.
func (m *Maintainer) Unlink(ctx context.Context, userID, projectID int64) error {
	const op = "association.unlink"
	n, err := dbx.Prepare(sqlUnlink, false, userID, projectID).Exec(ctx, m.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "unlinking user from project failed, no rows affected")
	}
	return nil
}

// ProjectsOf returns the projects linked to the user, without their users.
func (m *Maintainer) ProjectsOf(ctx context.Context, userID int64) ([]model.Project, error) {
	const op = "association.projects_of"
	rows, err := dbx.Prepare(sqlProjectsOfUser, false, userID).Rows(ctx, m.db)
	if err != nil {
		return nil, errs.Storage(op, err)
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := model.ScanProject(rows)
		if err != nil {
			return nil, errs.Storage(op, err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage(op, err)
	}
	return projects, nil
}

// UsersOf returns the users linked to the project, without their projects.
func (m *Maintainer) UsersOf(ctx context.Context, projectID int64) ([]model.User, error) {
	const op = "association.users_of"
	rows, err := dbx.Prepare(sqlUsersOfProject, false, projectID).Rows(ctx, m.db)
	if err != nil {
		return nil, errs.Storage(op, err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := model.ScanUser(rows)
		if err != nil {
			return nil, errs.Storage(op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage(op, err)
	}
	return users, nil
}

// ProjectsWithUsers returns the user's projects, each carrying its users.
// The returned users are not expanded further.
func (m *Maintainer) ProjectsWithUsers(ctx context.Context, userID int64) ([]model.Project, error) {
	projects, err := m.ProjectsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	// The join rows are fully read before issuing the reverse queries, so a
	// transaction-bound handle never has two result sets open.
	for i := range projects {
		users, err := m.UsersOf(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Users = users
	}
	return projects, nil
}

// UsersWithProjects is the symmetric counterpart of ProjectsWithUsers.
func (m *Maintainer) UsersWithProjects(ctx context.Context, projectID int64) ([]model.User, error) {
	users, err := m.UsersOf(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range users {
		projects, err := m.ProjectsOf(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Projects = projects
	}
	return users, nil
}

// HydrateUser fills u.Projects, one level deep.
func (m *Maintainer) HydrateUser(ctx context.Context, u *model.User) error {
	if u.IsNew() {
		return errs.Precondition("association.hydrate_user", "user is not created yet, the user ID is not set")
	}
	projects, err := m.ProjectsWithUsers(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Projects = projects
	return nil
}

// HydrateProject fills p.Users, one level deep.
func (m *Maintainer) HydrateProject(ctx context.Context, p *model.Project) error {
	if p.IsNew() {
		return errs.Precondition("association.hydrate_project", "project is not created yet, the project ID is not set")
	}
	users, err := m.UsersWithProjects(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Users = users
	return nil
}
