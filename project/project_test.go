package project_test

import (
	"context"
	"database/sql"
	"projects-system/errs"
	"projects-system/model"
	"projects-system/project"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAssociations is a mock implementation of the Associations interface
type MockAssociations struct {
	testifymock.Mock
}

func (m *MockAssociations) Link(ctx context.Context, userID, projectID int64) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockAssociations) Unlink(ctx context.Context, userID, projectID int64) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockAssociations) UsersWithProjects(ctx context.Context, projectID int64) ([]model.User, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]model.User), args.Error(1)
}

const (
	selectQuery = `SELECT id, name, description, startDate, dueDate, estimatedHours FROM projects WHERE id = $1`
	listQuery   = `SELECT id, name, description, startDate, dueDate, estimatedHours FROM projects ORDER BY id`
	insertQuery = `INSERT INTO projects (name, description, startDate, dueDate, estimatedHours) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	updateQuery = `UPDATE projects SET name = $1, description = $2, startDate = $3, dueDate = $4, estimatedHours = $5 WHERE id = $6`
	deleteQuery = `DELETE FROM projects WHERE id = $1`
)

var projectColumns = []string{"id", "name", "description", "startDate", "dueDate", "estimatedHours"}

func TestProject(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	associations := new(MockAssociations)
	a := project.NewAccessor(db, associations)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	p := &model.Project{
		Name:           "Apollo",
		Description:    "moon landing",
		StartDate:      &start,
		DueDate:        &due,
		EstimatedHours: 400,
	}

	t.Run("create project", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
			WithArgs("Apollo", "moon landing", start, due, int64(400)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

		require.NoError(t, a.Create(context.Background(), p))
		assert.Equal(t, int64(10), p.ID)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("create project - already created", func(t *testing.T) {
		err := a.Create(context.Background(), p)
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("create project - due before start", func(t *testing.T) {
		err := a.Create(context.Background(), &model.Project{Name: "Gemini", StartDate: &due, DueDate: &start})
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("get project", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(projectColumns).
				AddRow(int64(10), "Apollo", "moon landing", start, due, int64(400)))

		found, err := a.Find(context.Background(), 10)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, *p, *found)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("get project - no rows", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(int64(11)).
			WillReturnError(sql.ErrNoRows)

		found, err := a.Find(context.Background(), 11)
		require.NoError(t, err)
		require.Nil(t, found)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("list projects", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(listQuery)).
			WillReturnRows(sqlmock.NewRows(projectColumns).
				AddRow(int64(10), "Apollo", "moon landing", start, due, int64(400)).
				AddRow(int64(20), "Gemini", nil, nil, nil, nil))

		projects, err := a.List(context.Background())
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "Gemini", projects[1].Name)
		assert.Nil(t, projects[1].StartDate)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update project", func(t *testing.T) {
		p.EstimatedHours = 500
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("Apollo", "moon landing", start, due, int64(500), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, a.Update(context.Background(), p))

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update project - not found", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("Ghost", "", nil, nil, int64(0), int64(77)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := a.Update(context.Background(), &model.Project{ID: 77, Name: "Ghost"})
		require.ErrorIs(t, err, errs.ErrNoRowsAffected)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("users of project", func(t *testing.T) {
		users := []model.User{
			{ID: 1, Email: "a@x.com", Projects: []model.Project{{ID: 10, Name: "Apollo"}}},
		}
		associations.On("UsersWithProjects", testifymock.Anything, int64(10)).Return(users, nil).Once()

		got, err := a.FindUsersByProjectID(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, users, got)
		associations.AssertExpectations(t)
	})

	t.Run("users of project error", func(t *testing.T) {
		associations.On("UsersWithProjects", testifymock.Anything, int64(10)).
			Return([]model.User{}, errs.Storage("association.users_of", sql.ErrConnDone)).Once()

		got, err := a.FindUsersByProjectID(context.Background(), 10)
		require.ErrorIs(t, err, errs.ErrStorage)
		assert.Nil(t, got)
		assert.Contains(t, err.Error(), "users with projects")
		associations.AssertExpectations(t)
	})

	t.Run("add and remove user", func(t *testing.T) {
		associations.On("Link", testifymock.Anything, int64(1), int64(10)).Return(nil).Once()
		associations.On("Unlink", testifymock.Anything, int64(1), int64(10)).Return(nil).Once()

		require.NoError(t, a.AddUserToProject(context.Background(), 10, 1))
		require.NoError(t, a.DelUserFromProject(context.Background(), 10, 1))
		associations.AssertExpectations(t)
	})

	t.Run("delete project", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, a.Delete(context.Background(), p))
		assert.True(t, p.IsNew())

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("delete project - not created", func(t *testing.T) {
		err := a.Delete(context.Background(), p)
		require.ErrorIs(t, err, errs.ErrPrecondition)
	})
}
