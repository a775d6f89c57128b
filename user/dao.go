package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"projects-system/dbx"
	"projects-system/errs"
	"projects-system/model"
)

// Passwords are hashed by the engine with MD5 on every write and on the
// credential lookup, so plaintext never leaves the statement arguments.
var (
	sqlFindByID          = `SELECT ` + model.UserColumns("") + ` FROM users WHERE id = $1`
	sqlFindByCredentials = `SELECT ` + model.UserColumns("") + ` FROM users WHERE email = $1 AND password = MD5($2)`
	sqlListOrderByID     = `SELECT ` + model.UserColumns("") + ` FROM users ORDER BY id`
	sqlInsert            = `INSERT INTO users (email, password, firstname, lastname, birthdate) VALUES ($1, MD5($2), $3, $4, $5)`
	sqlUpdate            = `UPDATE users SET email = $1, firstname = $2, lastname = $3, birthdate = $4 WHERE id = $5`
	sqlDelete            = `DELETE FROM users WHERE id = $1`
	sqlExistEmail        = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	sqlChangePassword    = `UPDATE users SET password = MD5($1) WHERE id = $2`
)

// Find returns the user with the given id, or nil when there is none.
func (a *Accessor) Find(ctx context.Context, id int64) (*model.User, error) {
	return a.find(ctx, "user.find", sqlFindByID, id)
}

// FindByCredentials returns the user matching email and password, or nil.
// The password comparison happens inside the engine.
func (a *Accessor) FindByCredentials(ctx context.Context, email, password string) (*model.User, error) {
	return a.find(ctx, "user.find_by_credentials", sqlFindByCredentials, email, password)
}

func (a *Accessor) find(ctx context.Context, op, query string, values ...any) (*model.User, error) {
	u, err := model.ScanUser(dbx.Prepare(query, false, values...).QueryRow(ctx, a.db))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.Storage(op, err)
	}
	return &u, nil
}

// List returns all users ordered by id. It never returns a nil slice.
func (a *Accessor) List(ctx context.Context) ([]model.User, error) {
	const op = "user.list"

	rows, err := dbx.Prepare(sqlListOrderByID, false).Rows(ctx, a.db)
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

// Create inserts u and assigns the generated id back onto it. The plaintext
// password is cleared once the row is written.
func (a *Accessor) Create(ctx context.Context, u *model.User) error {
	const op = "user.create"

	if !u.IsNew() {
		return errs.Precondition(op, "user is already created, the user ID is set")
	}
	if err := u.Validate(); err != nil {
		return errs.Precondition(op, fmt.Sprintf("validate: %v", err))
	}
	if u.Password == "" {
		return errs.Precondition(op, "password is required")
	}

	id, err := dbx.Prepare(sqlInsert, true, u.Email, u.Password, u.Firstname, u.Lastname, u.Birthdate).InsertID(ctx, a.db)
	if err != nil {
		if errors.Is(err, dbx.ErrNoGeneratedKey) {
			return errs.NoRowsAffected(op, "creating user failed, no generated key obtained")
		}
		return errs.Storage(op, err)
	}

	u.ID = id
	u.Password = ""
	return nil
}

// Update writes every mutable column except the password.
func (a *Accessor) Update(ctx context.Context, u *model.User) error {
	const op = "user.update"

	if u.IsNew() {
		return errs.Precondition(op, "user is not created yet, the user ID is not set")
	}
	if err := u.Validate(); err != nil {
		return errs.Precondition(op, fmt.Sprintf("validate: %v", err))
	}

	n, err := dbx.Prepare(sqlUpdate, false, u.Email, u.Firstname, u.Lastname, u.Birthdate, u.ID).Exec(ctx, a.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "updating user failed, no rows affected")
	}
	return nil
}

// Delete removes the row and marks u as not persisted.
func (a *Accessor) Delete(ctx context.Context, u *model.User) error {
	const op = "user.delete"

	if u.IsNew() {
		return errs.Precondition(op, "user is not created yet, the user ID is not set")
	}

	n, err := dbx.Prepare(sqlDelete, false, u.ID).Exec(ctx, a.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "deleting user failed, no rows affected")
	}

	u.ID = 0
	return nil
}

func (a *Accessor) ExistEmail(ctx context.Context, email string) (bool, error) {
	var exist bool
	if err := dbx.Prepare(sqlExistEmail, false, email).QueryRow(ctx, a.db).Scan(&exist); err != nil {
		return false, errs.Storage("user.exist_email", err)
	}
	return exist, nil
}

// ChangePassword replaces the stored hash with the hash of u.Password.
func (a *Accessor) ChangePassword(ctx context.Context, u *model.User) error {
	const op = "user.change_password"

	if u.IsNew() {
		return errs.Precondition(op, "user is not created yet, the user ID is not set")
	}
	if u.Password == "" {
		return errs.Precondition(op, "password is required")
	}

	n, err := dbx.Prepare(sqlChangePassword, false, u.Password, u.ID).Exec(ctx, a.db)
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.NoRowsAffected(op, "changing password failed, no rows affected")
	}

	u.Password = ""
	return nil
}

// FindProjectsByUserID returns the user's projects, each with its users.
// The expansion stops there.
func (a *Accessor) FindProjectsByUserID(ctx context.Context, id int64) ([]model.Project, error) {
	projects, err := a.associations.ProjectsWithUsers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("projects with users: %w", err)
	}
	return projects, nil
}

func (a *Accessor) AddProjectToUser(ctx context.Context, userID, projectID int64) error {
	if err := a.associations.Link(ctx, userID, projectID); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}

func (a *Accessor) DelProjectFromUser(ctx context.Context, userID, projectID int64) error {
	if err := a.associations.Unlink(ctx, userID, projectID); err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	return nil
}
