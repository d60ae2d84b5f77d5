package database

import (
	"testing"

	"blogicum/internal/config"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	err = configurePool(db, cfg)
	assert.NoError(t, err)

	_, err = db.DB()
	assert.NoError(t, err)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		env     string
		allow   bool
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{"hybrid in development", "hybrid", "development", false, true, true, false},
		{"hybrid in production", "hybrid", "production", false, true, false, false},
		{"sql anywhere", "sql", "production", false, true, false, false},
		{"auto in development", "auto", "development", false, false, true, false},
		{"auto in production refused", "auto", "production", false, false, false, true},
		{"auto in production allowed", "auto", "production", true, false, true, false},
		{"empty defaults to hybrid", "", "development", false, true, true, false},
		{"unknown mode", "sideways", "development", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Env:                           tt.env,
				DBSchemaMode:                  tt.mode,
				DBAutoMigrateAllowDestructive: tt.allow,
			}
			runSQL, runAuto, err := schemaPolicy(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}
