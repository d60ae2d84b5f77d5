package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"blogicum/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned SQL change to the blog schema. The up and down
// scripts are embedded at build time; versions are unique and applied in
// ascending order.
type Migration struct {
	Version    int    `json:"version"`
	Name       string `json:"name"`
	UpScript   string `json:"-"`
	DownScript string `json:"-"`
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// AppliedMigration is the ledger row recording that a migration ran.
type AppliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AppliedMigration) TableName() string {
	return "schema_migrations"
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var (
	registry    []Migration
	registryErr error
)

// Up-script filenames look like 000001_init_blog_schema.up.sql. Every up
// script must have a matching .down.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.up\.sql$`)

func init() {
	registry, registryErr = loadMigrations(migrationFS)
}

func loadMigrations(efs fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(efs, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var loaded []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		parts := migrationFilePattern.FindStringSubmatch(name)
		if parts == nil {
			return nil, fmt.Errorf("migration %q does not match NNNNNN_name.up.sql", name)
		}
		version, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("migration %q: bad version: %w", name, err)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d declared twice (%s, %s)", version, prev, name)
		}
		seen[version] = name

		up, err := fs.ReadFile(efs, "migrations/"+name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		downName := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		down, err := fs.ReadFile(efs, "migrations/"+downName)
		if err != nil {
			return nil, fmt.Errorf("migration %q has no down script: %w", name, err)
		}

		loaded = append(loaded, Migration{
			Version:    version,
			Name:       parts[2],
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Version < loaded[j].Version })
	return loaded, nil
}

// Migrations returns every embedded migration in apply order.
func Migrations() ([]Migration, error) {
	return registry, registryErr
}

func migrationByVersion(version int) (Migration, bool) {
	for _, m := range registry {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}

// AppliedVersions reads the migration ledger. A database that predates the
// ledger table reports no applied versions.
func AppliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	if !db.Migrator().HasTable(&AppliedMigration{}) {
		return nil, nil
	}
	var versions []int
	err := db.WithContext(ctx).
		Model(&AppliedMigration{}).
		Order("version ASC").
		Pluck("version", &versions).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return versions, nil
}

// RunMigrations applies every pending migration in order, recording each in
// the ledger. A ledger that names versions unknown to this build aborts the
// run: that database was migrated by newer code.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	all, err := Migrations()
	if err != nil {
		return err
	}
	return applyMigrations(ctx, db, all)
}

func applyMigrations(ctx context.Context, db *gorm.DB, all []Migration) error {
	if err := db.WithContext(ctx).AutoMigrate(&AppliedMigration{}); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if err := checkLedgerKnown(applied, all); err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range all {
		if done[m.Version] {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.String("migration", m.String()))
		if err := db.WithContext(ctx).Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("apply %s: %w", m, err)
		}
		record := AppliedMigration{Version: m.Version, Name: m.Name}
		if err := db.WithContext(ctx).Create(&record).Error; err != nil {
			return fmt.Errorf("record %s: %w", m, err)
		}
	}
	return nil
}

func checkLedgerKnown(applied []int, all []Migration) error {
	known := make(map[int]bool, len(all))
	for _, m := range all {
		known[m.Version] = true
	}

	var unknown []string
	for _, v := range applied {
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("schema_migrations lists versions this build does not know: %s", strings.Join(unknown, ", "))
}

// RollbackMigration runs the down script of one applied migration and drops
// its ledger row.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	if registryErr != nil {
		return registryErr
	}
	m, ok := migrationByVersion(version)
	if !ok {
		return fmt.Errorf("no migration with version %d", version)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	isApplied := false
	for _, v := range applied {
		if v == version {
			isApplied = true
			break
		}
	}
	if !isApplied {
		return fmt.Errorf("migration %s was never applied", m)
	}

	middleware.Logger.Info("Rolling back migration", slog.String("migration", m.String()))
	if err := db.WithContext(ctx).Exec(m.DownScript).Error; err != nil {
		return fmt.Errorf("roll back %s: %w", m, err)
	}
	if err := db.WithContext(ctx).Where("version = ?", version).Delete(&AppliedMigration{}).Error; err != nil {
		return fmt.Errorf("unrecord %s: %w", m, err)
	}
	return nil
}
