package model

import (
	"database/sql"
	"fmt"
	"strings"
)

// Column lists are the only place column names are spelled out. Queries
// select through them and rows are read back positionally by the scanners.
var (
	userColumns    = []string{"id", "email", "firstname", "lastname", "birthdate"}
	projectColumns = []string{"id", "name", "description", "startDate", "dueDate", "estimatedHours"}
)

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// UserColumns returns the select list for a user row, qualified with alias
// when one is given.
func UserColumns(alias string) string {
	return columnList(alias, userColumns)
}

func ProjectColumns(alias string) string {
	return columnList(alias, projectColumns)
}

func columnList(alias string, cols []string) string {
	if alias == "" {
		return strings.Join(cols, ", ")
	}
	qualified := make([]string, len(cols))
	for i, c := range cols {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

// ScanUser maps the current row into a User. The row must carry exactly the
// columns of UserColumns, in order.
func ScanUser(row Scanner) (User, error) {
	var (
		u         User
		firstname sql.NullString
		lastname  sql.NullString
		birthdate sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &firstname, &lastname, &birthdate); err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Firstname = firstname.String
	u.Lastname = lastname.String
	if birthdate.Valid {
		d := birthdate.Time
		u.Birthdate = &d
	}
	return u, nil
}

// ScanProject maps the current row into a Project using ProjectColumns order.
func ScanProject(row Scanner) (Project, error) {
	var (
		p           Project
		description sql.NullString
		startDate   sql.NullTime
		dueDate     sql.NullTime
		hours       sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &startDate, &dueDate, &hours); err != nil {
		return Project{}, fmt.Errorf("scan project: %w", err)
	}
	p.Description = description.String
	if startDate.Valid {
		d := startDate.Time
		p.StartDate = &d
	}
	if dueDate.Valid {
		d := dueDate.Time
		p.DueDate = &d
	}
	p.EstimatedHours = hours.Int64
	return p, nil
}
