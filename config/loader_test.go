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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, "roster", cfg.Database.ConnectionConfig.DBName)
	assert.Equal(t, time.Hour, cfg.Database.ConnectionConfig.ConnMaxLifetime)
	assert.True(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
	assert.Equal(t, "local", cfg.Database.DataInitConfig.Environment)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
log:
  level: debug
  format: json
database:
  connection:
    type: postgres
    host: db.internal
    port: 5432
    slow_query_time: 500ms
  init:
    auto_init_on_startup: true
`), 0o600))
	t.Setenv("ROSTER_DATABASE_CONNECTION_DBNAME", "roster_test")
	t.Setenv("ROSTER_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres", cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, "db.internal", cfg.Database.ConnectionConfig.Host)
	assert.Equal(t, 5432, cfg.Database.ConnectionConfig.Port)
	assert.Equal(t, "roster_test", cfg.Database.ConnectionConfig.DBName)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.ConnectionConfig.SlowQueryTime)
	assert.True(t, cfg.Database.DataInitConfig.AutoInitOnStartup)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
