package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var profileColumns = []string{
	"id", "user_id", "address", "bio", "education", "skills", "experience_years", "default_cover_letter", "updated_at",
}

func TestGetByUserID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(profileColumns).
		AddRow("p1", "s1", "Street 1", "bio", "BSc", []byte(`["Go","SQL"]`), int64(3), "Dear team", now)
	mock.ExpectQuery(`SELECT .* FROM profiles WHERE user_id = \$1`).WithArgs("s1").WillReturnRows(rows)

	p, err := repo.GetByUserID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	require.NotNil(t, p.ExperienceYears)
	assert.Equal(t, 3, *p.ExperienceYears)
	assert.Equal(t, "Dear team", p.DefaultCoverLetter)
}

func TestGetByUserID_NullExperience(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(profileColumns).
		AddRow("p1", "s1", "", "", "", []byte(`[]`), nil, "", time.Now())
	mock.ExpectQuery(`SELECT .* FROM profiles`).WithArgs("s1").WillReturnRows(rows)

	p, err := repo.GetByUserID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, p.ExperienceYears)
	assert.Equal(t, []string{}, p.Skills)
}

func TestGetByUserID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM profiles`).WithArgs("s1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), "s1")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(profileColumns).
		AddRow("p1", "s1", "Street 1", "", "", []byte(`["Go"]`), nil, "", time.Now())
	mock.ExpectQuery(`SELECT .* FROM profiles WHERE user_id = \$1 FOR UPDATE`).WithArgs("s1").WillReturnRows(rows)

	p, err := repo.GetForUpdate(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Street 1", p.Address)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	years := 2
	updated := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO profiles .* ON CONFLICT ON CONSTRAINT profiles_user_id_key DO UPDATE SET .* RETURNING id, updated_at`).
		WithArgs("new-id", "s1", "Street 1", "", "", `["Go"]`, int64(2), "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow("old-id", updated))

	p := &models.Profile{ID: "new-id", UserID: "s1", Address: "Street 1", Skills: []string{"Go"}, ExperienceYears: &years}
	require.NoError(t, repo.Upsert(context.Background(), p))
	assert.Equal(t, "old-id", p.ID)
	assert.Equal(t, updated, p.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_NilSkillsStoredAsEmptyArray(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("id", "s1", "", "", "", `[]`, nil, "").
		WillReturnError(errors.New("boom"))

	err := repo.Upsert(context.Background(), &models.Profile{ID: "id", UserID: "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	require.NoError(t, mock.ExpectationsWereMet())
}
