package shared

import (
	"errors"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("parseMigrationName", func(t *testing.T) {
		tt := []struct {
			name      string
			version   int
			direction string
			ok        bool
		}{
			{name: "0000_create_sync_runs_up.sql", version: 0, direction: "up", ok: true},
			{name: "0001_create_sync_reports_down.sql", version: 1, direction: "down", ok: true},
			{name: "README.md", ok: false},
			{name: "abc_up.sql", ok: false},
			{name: "0002_sideways.sql", ok: false},
		}

		for _, tc := range tt {
			version, direction, ok := parseMigrationName(tc.name)
			if ok != tc.ok || version != tc.version || direction != tc.direction {
				t.Errorf("parseMigrationName(%q) = (%d, %q, %v), want (%d, %q, %v)",
					tc.name, version, direction, ok, tc.version, tc.direction, tc.ok)
			}
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		script := `-- leading comment
CREATE TABLE a (id INTEGER); -- trailing
;
INSERT INTO a (id) VALUES (1);`

		got := splitStatements(script)
		if len(got) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
		}
		if got[0] != "CREATE TABLE a (id INTEGER)" {
			t.Errorf("unexpected first statement %q", got[0])
		}
	})

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if v, err := CurrentVersion(db); err != nil || v != -1 {
			t.Fatalf("expected version -1 before migrations, got %d (%v)", v, err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"sync_runs", "sync_reports"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if v, _ := CurrentVersion(db); v != 1 {
			t.Errorf("expected current version 1, got %d", v)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM sync_reports LIMIT 1"); err == nil {
			t.Error("sync_reports should be dropped after rollback")
		}

		if v, _ := CurrentVersion(db); v != 0 {
			t.Errorf("expected current version 0 after rollback, got %d", v)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback first migration: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("OpenDatabase", func(t *testing.T) {
		if _, err := OpenDatabase(DatabaseConfig{}); !errors.Is(err, ErrDatabaseDisabled) {
			t.Errorf("expected ErrDatabaseDisabled for empty path, got %v", err)
		}

		db, err := OpenDatabase(DatabaseConfig{Path: ":memory:", MaxOpenConns: 4})
		if err != nil {
			t.Fatalf("OpenDatabase() error = %v", err)
		}
		defer db.Close()

		if stats := db.Stats(); stats.MaxOpenConnections != 1 {
			t.Errorf("expected in-memory pool pinned to 1 connection, got %d", stats.MaxOpenConnections)
		}
	})
}
