package db_test

import (
	"context"
	"testing"

	assets "github.com/Fazalwahab12/shift-backend-sub002/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/db"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	conn, err := db.New(ctx, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, assets.Migrations); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	for _, table := range []string{"accounts", "applications", "interviews", "application_history", "company_blocks", "background_jobs", "background_jobs_dead"} {
		var n int
		q := `SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`
		if err := conn.QueryRow(ctx, q, table).Scan(&n); err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("table %s missing after migration", table)
		}
	}

	// applying again is a no-op
	if err := db.Migrate(ctx, conn, assets.Migrations); err != nil {
		t.Fatalf("Migrate rerun: %v", err)
	}

	var versions int
	if err := conn.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&versions); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if versions == 0 {
		t.Fatal("no migration versions recorded")
	}
}
