/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package database

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) SetLevel(LogLevel)                 {}
func (l *recordingLogger) Debug(string, ...interface{})      {}
func (l *recordingLogger) Info(string, ...interface{})       {}
func (l *recordingLogger) Error(string, ...interface{})      {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func connectMemory(t *testing.T) AbstractDatabaseManager {
	t.Helper()
	cfg := DefaultConnectionConfig()
	cfg.DBName = MemoryDBName
	dm := NewDatabaseManager(cfg)
	require.NoError(t, dm.Connect(context.Background()))
	t.Cleanup(func() { _ = dm.Disconnect() })
	return dm
}

func TestDatabaseManager_Memory(t *testing.T) {
	dm := connectMemory(t)
	ctx := context.Background()

	require.NoError(t, dm.Ping(ctx))
	require.NoError(t, dm.Connect(ctx))

	status := dm.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, dm.GetStats().MaxOpenConns)

	var fk int
	require.NoError(t, dm.GetDB().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestDatabaseManager_UnsupportedType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	err := NewDatabaseManager(cfg).Connect(context.Background())
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = NewDatabaseFactory().CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestSlowQueryHook(t *testing.T) {
	dm := connectMemory(t)
	logger := &recordingLogger{}
	var buf bytes.Buffer
	dm.GetDB().AddQueryHook(NewSlowQueryHook("ROSTER_TEST_SLOW_UNSET", time.Nanosecond, logger, &buf))

	_, err := dm.GetDB().ExecContext(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[SLOW]")
	assert.Equal(t, []string{"Database slow query detected"}, logger.warns)
}

func TestQueryHook_PrintsFailures(t *testing.T) {
	dm := connectMemory(t)
	var buf bytes.Buffer
	dm.GetDB().AddQueryHook(NewQueryHook("ROSTER_TEST_SQL_LOG_UNSET", true, false, &buf))
	ctx := context.Background()

	_, err := dm.GetDB().ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = dm.GetDB().ExecContext(ctx, "SELECT * FROM missing")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing")

	buf.Reset()
	EnableBunSqlSilent(true)
	defer EnableBunSqlSilent(false)
	_, _ = dm.GetDB().ExecContext(ctx, "SELECT * FROM missing")
	assert.Empty(t, buf.String())
}

func TestForeignKeyConstraint(t *testing.T) {
	fk := ForeignKeyConstraint{
		Table:           "members",
		Column:          "team_id",
		ReferenceTable:  "teams",
		ReferenceColumn: "id",
		OnDelete:        "SET NULL",
	}
	assert.Equal(t, "fk_members_team_id", fk.GenerateConstraintName())
	assert.Equal(t, "(team_id) REFERENCES teams (id) ON DELETE SET NULL", fk.ReferenceClause())
	assert.Equal(t,
		"ALTER TABLE members ADD CONSTRAINT fk_members_team_id FOREIGN KEY (team_id) REFERENCES teams (id) ON DELETE SET NULL",
		fk.GenerateSQL())
}

func TestForeignKeyConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign_keys.yaml")
	want := []ForeignKeyConstraint{{
		Table: "members", Column: "team_id", ReferenceTable: "teams", ReferenceColumn: "id",
		OnDelete: "CASCADE", ConstraintName: "fk_custom",
	}}
	require.NoError(t, ExportForeignKeyConfig(path, want))

	got, err := LoadForeignKeyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	fkm := NewForeignKeyManagerFromFile(&recordingLogger{}, path)
	require.Len(t, fkm.GetConstraintsByTable("members"), 1)
	assert.Equal(t, "fk_custom", fkm.ListAllConstraints()[0].ConstraintName)

	assert.Empty(t, fkm.ValidateConstraints())

	fallback := NewForeignKeyManagerFromFile(&recordingLogger{}, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, getForeignKeyConstraints(), fallback.ListAllConstraints())
}

func TestForeignKeyManager_ValidateConstraints(t *testing.T) {
	fkm := &ForeignKeyManager{constraints: []ForeignKeyConstraint{
		{Table: "members", Column: "team_id", ReferenceTable: "teams", ReferenceColumn: "id", OnDelete: "EXPLODE"},
		{Table: "members"},
	}}
	assert.Len(t, fkm.ValidateConstraints(), 4)
}

func TestFactory_OverrideFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := DefaultConnectionConfig()
	NewDatabaseFactory().overrideFromEnv(cfg)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryTime)
	assert.True(t, cfg.EnableQueryLog)
	assert.Equal(t, 100, cfg.MaxOpenConns)
}
