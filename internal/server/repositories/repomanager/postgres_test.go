package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/jobboard/internal/server/migrations"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/profiles"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	if m := NewPostgresRepositoryManager(); m == nil {
		t.Fatal("NewPostgresRepositoryManager() nil")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	if j := m.Jobs(db); j == nil {
		t.Fatal("Jobs() nil")
	}
	if a := m.Applications(db); a == nil {
		t.Fatal("Applications() nil")
	}
	if p := m.Profiles(db); p == nil {
		t.Fatal("Profiles() nil")
	}

	if _, ok := m.Jobs(db).(*jobs.PostgresRepository); !ok {
		t.Fatal("Jobs() is not the postgres repository")
	}
	if _, ok := m.Applications(db).(*applications.PostgresRepository); !ok {
		t.Fatal("Applications() is not the postgres repository")
	}
	if _, ok := m.Profiles(db).(*profiles.PostgresRepository); !ok {
		t.Fatal("Profiles() is not the postgres repository")
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestEmbeddedSchema_DeclaresConstraintsReposRelyOn(t *testing.T) {
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	if err != nil || len(files) == 0 {
		t.Fatalf("no embedded migrations: %v", err)
	}

	var schema strings.Builder
	for _, f := range files {
		b, err := fs.ReadFile(migrations.Migrations, f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		schema.Write(b)
	}

	for _, name := range []string{applications.UniqueJobApplicant, profiles.UniqueUserID} {
		if !strings.Contains(schema.String(), "CONSTRAINT "+name+" UNIQUE") {
			t.Errorf("schema does not declare unique constraint %s", name)
		}
	}
	if !strings.Contains(schema.String(), "-- +goose Up") {
		t.Error("migration lacks a goose Up annotation")
	}
}
