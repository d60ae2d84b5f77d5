// Command migrate manages the blog database schema: applying the embedded
// SQL migrations, rolling one back, running AutoMigrate, and reporting where
// a database stands relative to this build.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"blogicum/internal/config"
	"blogicum/internal/database"

	"gorm.io/gorm"
)

func main() {
	flag.Usage = func() {
		fmt.Println("usage: migrate <command>")
		fmt.Println()
		fmt.Println("commands:")
		fmt.Println("  up              apply pending SQL migrations")
		fmt.Println("  down <version>  roll back one applied migration")
		fmt.Println("  auto            run GORM AutoMigrate over the blog models")
		fmt.Println("  status          show applied, pending and missing schema state")
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		flag.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Schema changes are this command's whole job; never apply on connect.
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(args[0]) {
	case "up":
		return migrateUp(ctx, db)
	case "down":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		return migrateDown(ctx, db, args[1])
	case "auto":
		return autoMigrate(ctx, db, cfg)
	case "status":
		return printStatus(ctx, db, cfg)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func migrateUp(ctx context.Context, db *gorm.DB) error {
	if err := database.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("sql migrations failed: %w", err)
	}
	log.Println("sql migrations applied")
	return nil
}

func migrateDown(ctx context.Context, db *gorm.DB, arg string) error {
	version, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", arg, err)
	}
	if err := database.RollbackMigration(ctx, db, version); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	log.Printf("rolled back migration %d", version)
	return nil
}

func autoMigrate(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	cfg.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	log.Println("automigrate complete")
	return nil
}

func printStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}

	log.Printf("mode=%s env=%s run_sql=%t run_auto=%t",
		status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate)
	log.Printf("applied: %d migration(s)", len(status.AppliedVersions))
	for _, m := range status.PendingMigrations {
		log.Printf("pending: %s", m)
	}
	if len(status.MissingTables) > 0 {
		log.Printf("missing blog tables: %s", strings.Join(status.MissingTables, ", "))
	}
	return nil
}
