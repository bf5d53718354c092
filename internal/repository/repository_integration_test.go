//go:build integration

package repository

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/deppfellow/defect-service/internal/database"
	"github.com/deppfellow/defect-service/internal/model/defect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Run with: go test -tags=integration -timeout 180s ./internal/repository/...

// startPostgres runs a migrated postgres container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("defects"),
		postgres.WithUsername("defect"),
		postgres.WithPassword("defect"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	if err := database.MigrateDSN(ctx, &logger, connStr); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return connStr
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	connStr := startPostgres(t)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	seed := []string{
		`INSERT INTO users (id, auth_id, email, user_name) VALUES
			(7, 'user_seven', 'seven@example.com', 'Seven'),
			(42, 'user_fortytwo', 'ft@example.com', 'Forty Two')`,
		`INSERT INTO projects (id, project_name) VALUES (1, 'Alpha'), (2, 'Beta')`,
		`INSERT INTO defect_info (id, user_id, project_id, defect_name, defect_type, defect_level, defect_status) VALUES
			(5, 42, 1, 'Crash on save', 'Functional', 'Critical', 'Open'),
			(6, 42, 2, 'Typo in footer', 'UI', 'Low', 'Fixed'),
			(8, 7, 1, 'Slow search', 'Performance', 'Medium', 'Open')`,
	}
	for _, stmt := range seed {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	return pool
}

func TestRepositoriesWithRealPostgres(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	defects := NewDefectRepository(pool)
	users := NewUserRepository(pool)

	t.Run("get by id", func(t *testing.T) {
		d, err := defects.GetByID(ctx, 5)
		if err != nil || d == nil {
			t.Fatalf("GetByID(5) = %v, %v", d, err)
		}
		if d.ProjectName != "Alpha" || d.UserID != 42 {
			t.Errorf("unexpected defect: %+v", d)
		}

		missing, err := defects.GetByID(ctx, 999)
		if err != nil || missing != nil {
			t.Fatalf("GetByID(999) = %v, %v, want nil, nil", missing, err)
		}
	})

	t.Run("update appends comment", func(t *testing.T) {
		comment := "reproduced on build 12"
		status := defect.StatusInProgress
		ok, err := defects.UpdateByID(ctx, &defect.UpdateDefectRequest{ID: 5, DefectComment: &comment, DefectStatus: &status})
		if err != nil || !ok {
			t.Fatalf("UpdateByID = %v, %v", ok, err)
		}

		d, _ := defects.GetByID(ctx, 5)
		if d.DefectStatus != defect.StatusInProgress {
			t.Errorf("status = %q", d.DefectStatus)
		}
		if len(d.DefectComment) != 1 || d.DefectComment[0] != comment {
			t.Errorf("comments = %v", d.DefectComment)
		}

		ok, err = defects.UpdateByID(ctx, &defect.UpdateDefectRequest{ID: 999, DefectComment: &comment})
		if err != nil || ok {
			t.Fatalf("UpdateByID(999) = %v, %v, want false, nil", ok, err)
		}
	})

	t.Run("find by user", func(t *testing.T) {
		list, err := defects.FindByUserID(ctx, 42)
		if err != nil {
			t.Fatalf("FindByUserID: %v", err)
		}
		if len(list) != 2 || list[0].ID != 5 || list[1].ID != 6 {
			t.Fatalf("list = %+v", list)
		}
	})

	t.Run("query filters and sorts", func(t *testing.T) {
		list, err := defects.Query(ctx, &defect.QueryDefectRequest{UserID: 42, DefectName: "typo"})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(list) != 1 || list[0].ID != 6 {
			t.Fatalf("list = %+v", list)
		}

		list, err = defects.Query(ctx, &defect.QueryDefectRequest{
			UserID:    42,
			SortField: defect.SortByDefectLevel,
			SortOrder: "descend",
		})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(list) != 2 || list[0].DefectLevel != defect.LevelCritical {
			t.Fatalf("descending severity order = %+v", list)
		}
	})

	t.Run("users", func(t *testing.T) {
		u, err := users.GetByAuthID(ctx, "user_fortytwo")
		if err != nil || u == nil || u.ID != 42 {
			t.Fatalf("GetByAuthID = %+v, %v", u, err)
		}

		u, err = users.GetByID(ctx, 7)
		if err != nil || u == nil || u.Email != "seven@example.com" {
			t.Fatalf("GetByID = %+v, %v", u, err)
		}

		u, err = users.GetByAuthID(ctx, "nobody")
		if err != nil || u != nil {
			t.Fatalf("GetByAuthID(nobody) = %+v, %v", u, err)
		}
	})
}

func TestMigrateTo_DownAndUp(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	tableExists := func() bool {
		conn, err := pgx.Connect(ctx, connStr)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		defer conn.Close(ctx)

		var exists bool
		if err := conn.QueryRow(ctx, `SELECT to_regclass('public.defect_info') IS NOT NULL`).Scan(&exists); err != nil {
			t.Fatalf("query: %v", err)
		}
		return exists
	}

	if err := database.MigrateTo(ctx, &logger, connStr, 1); err != nil {
		t.Fatalf("MigrateTo(1): %v", err)
	}
	if tableExists() {
		t.Fatal("defect_info survived migrating down to version 1")
	}

	if err := database.MigrateTo(ctx, &logger, connStr, database.LatestVersion); err != nil {
		t.Fatalf("MigrateTo(latest): %v", err)
	}
	if !tableExists() {
		t.Fatal("defect_info missing after migrating back up")
	}

	if err := database.MigrateTo(ctx, &logger, connStr, 99); err == nil {
		t.Fatal("expected an error for an unknown version")
	}
}
