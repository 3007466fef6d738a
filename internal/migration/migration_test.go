package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/salesops/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestGetCurrentVersionFreshDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}), SQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "not a migration",
	}), SQLite)

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(got))
	}

	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	for i, w := range want {
		if got[i].Version != w.version || got[i].Name != w.name {
			t.Errorf("migration %d: expected %d/%s, got %d/%s", i, w.version, w.name, got[i].Version, got[i].Name)
		}
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	files := mapFS(map[string]string{
		"001_init.sql": `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);`,
	})
	runner := NewRunner(db, files, SQLite)

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}

	files["002_posts.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);`)}

	var logged []string
	count, err = runner.ApplyMigrations(func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 more migration applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress to be logged")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("expected both tables to exist")
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (3rd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected a no-op run, got %d applied", count)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}), SQLite)

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_init.sql": `CREATE TABLE users (id INTEGER PRIMARY KEY);`,
	}), SQLite)

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "salesops init") {
		t.Errorf("expected an outdated-schema error, got %v", err)
	}

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion after migrating: %v", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 10"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Fatal("ValidateVersion should have failed with newer database version")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with newer database version")
	}
}

func TestGetLatestVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"001_init.sql":   `CREATE TABLE users (id INTEGER);`,
		"003_posts.sql":  `CREATE TABLE posts (id INTEGER);`,
		"002_update.sql": `ALTER TABLE users ADD COLUMN name TEXT;`,
	}), SQLite)

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected latest version 3, got %d", latest)
	}
}

func TestInvalidMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no underscore",
			files:   map[string]string{"001init.sql": `CREATE TABLE users (id INTEGER);`},
			wantErr: "expected NNN_name.sql",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": `CREATE TABLE users (id INTEGER);`},
			wantErr: "version must be at least 1",
		},
		{
			name:    "non numeric",
			files:   map[string]string{"abc_init.sql": `CREATE TABLE users (id INTEGER);`},
			wantErr: "invalid version number",
		},
		{
			name: "duplicate",
			files: map[string]string{
				"001_init.sql":  `CREATE TABLE users (id INTEGER);`,
				"001_other.sql": `CREATE TABLE posts (id INTEGER);`,
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), mapFS(tt.files), SQLite)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	db := setupTestDB(t)
	runner := NewRunner(db, sub, SQLite)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	for _, table := range []string{"profile", "activity"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing after migration", table)
		}
	}
}

func TestEmbeddedMigrationsMatch(t *testing.T) {
	versions := func(dir string) []int {
		sub, err := fs.Sub(migrations.FS, dir)
		if err != nil {
			t.Fatalf("fs.Sub(%s) failed: %v", dir, err)
		}
		ms, err := NewRunner(nil, sub, SQLite).ReadMigrationFiles()
		if err != nil {
			t.Fatalf("ReadMigrationFiles(%s) failed: %v", dir, err)
		}
		out := make([]int, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Version)
		}
		return out
	}

	sqliteVersions := versions("sqlite")
	postgresVersions := versions("postgres")
	if len(sqliteVersions) != len(postgresVersions) {
		t.Fatalf("backends disagree: sqlite %v, postgres %v", sqliteVersions, postgresVersions)
	}
	for i := range sqliteVersions {
		if sqliteVersions[i] != postgresVersions[i] {
			t.Errorf("backends disagree at %d: sqlite %v, postgres %v", i, sqliteVersions, postgresVersions)
		}
	}
}
