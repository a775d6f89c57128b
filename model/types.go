package model

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is a row of the users table. Projects is only filled by an explicit
// hydration step and is never written back.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password,omitempty"`
	Firstname string     `json:"firstname"`
	Lastname  string     `json:"lastname"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	Projects  []Project  `json:"projects,omitempty"`
}

// IsNew reports whether the storage engine has not assigned an id yet.
func (u *User) IsNew() bool {
	return u.ID == 0
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

// Project is a row of the projects table. Users is the reverse side of the
// association and is populated the same way as User.Projects.
type Project struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours int64      `json:"estimated_hours" validate:"gte=0"`
	Users          []User     `json:"users,omitempty"`
}

func (p *Project) IsNew() bool {
	return p.ID == 0
}

func (p *Project) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.StartDate != nil && p.DueDate != nil && p.DueDate.Before(*p.StartDate) {
		return errors.New("due date is before start date")
	}
	return nil
}
