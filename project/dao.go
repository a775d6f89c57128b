package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"projects-system/dbx"
	"projects-system/errs"
	"projects-system/model"
)

var (
	sqlFindByID      = `SELECT ` + model.ProjectColumns("") + ` FROM projects WHERE id = $1`
	sqlListOrderByID = `SELECT ` + model.ProjectColumns("") + ` FROM projects ORDER BY id`
	sqlInsert        = `INSERT INTO projects (name, description, startDate, dueDate, estimatedHours) VALUES ($1, $2, $3, $4, $5)`
	sqlUpdate        = `UPDATE projects SET name = $1, description = $2, startDate = $3, dueDate = $4, estimatedHours = $5 WHERE id = $6`
	sqlDelete        = `DELETE FROM projects WHERE id = $1`
)

// Find returns the project with the given id, or nil when there is none.
func (a *Accessor) Find(ctx context.Context, id int64) (*model.Project, error) {
	p, err := model.ScanProject(dbx.Prepare(sqlFindByID, false, id).QueryRow(ctx, a.db))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.Storage("project.find", err)
	}
	return &p, nil
}

func (a *Accessor) List(ctx context.Context) ([]model.Project, error) {
	const op = "project.list"

	rows, err := dbx.Prepare(sqlListOrderByID, false).Rows(ctx, a.db)
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

func (a *Accessor) Create(ctx context.Context, p *model.Project) error {
	const op = "project.create"

	if !p.IsNew() {
		return errs.Precondition(op, "project is already created, the project ID is set")
	}
	if err := p.Validate(); err != nil {
		return errs.Precondition(op, fmt.Sprintf("validate: %v", err))
	}

	id, err := dbx.Prepare(sqlInsert, true, p.Name, p.Description, p.StartDate, p.DueDate, p.EstimatedHours).InsertID(ctx, a.db)
	if err != nil {
		if errors.Is(err, dbx.ErrNoGeneratedKey) {
			return errs.NoRowsAffected(op, "creating project failed, no generated key obtained")
		}
		return errs.Storage(op, err)
	}

	p.ID = id
	return nil
}

func (a *Accessor) Update(ctx context.Context, p *model.Project) error {
	const op = "project.update"

	if p.IsNew() {
		return errs.Precondition(op, "project is not created yet, the project ID is not set")
	}
	if err := p.Validate(); err != nil {
		return errs.Precondition(op, fmt.Sprintf("validate: %v", err))
	}

	n, err := dbx.Prepare(sqlUpdate, false, p.Name, p.Description, p.StartDate, p.DueDate, p.EstimatedHours, p.ID).Exec(ctx, a.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "updating project failed, no rows affected")
	}
	return nil
}

// Delete removes the row and marks p as not persisted.
func (a *Accessor) Delete(ctx context.Context, p *model.Project) error {
	const op = "project.delete"

	if p.IsNew() {
		return errs.Precondition(op, "project is not created yet, the project ID is not set")
	}

	n, err := dbx.Prepare(sqlDelete, false, p.ID).Exec(ctx, a.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "deleting project failed, no rows affected")
	}

	p.ID = 0
	return nil
}

// FindUsersByProjectID returns the project's users, each with its projects.
func (a *Accessor) FindUsersByProjectID(ctx context.Context, id int64) ([]model.User, error) {
	users, err := a.associations.UsersWithProjects(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("users with projects: %w", err)
	}
	return users, nil
}

func (a *Accessor) AddUserToProject(ctx context.Context, projectID, userID int64) error {
	if err := a.associations.Link(ctx, userID, projectID); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}

func (a *Accessor) DelUserFromProject(ctx context.Context, projectID, userID int64) error {
	if err := a.associations.Unlink(ctx, userID, projectID); err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	return nil
}
