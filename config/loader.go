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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tomoncle/roster/database"
)

// EnvPrefix prefixes every environment override, e.g. ROSTER_SERVER_ADDR.
const EnvPrefix = "ROSTER"

// Load reads the YAML file at path over the built-in defaults. An empty
// path loads defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	db := database.DefaultConfig()
	conn := db.ConnectionConfig
	v.SetDefault("database.connection.type", conn.Type)
	v.SetDefault("database.connection.host", conn.Host)
	v.SetDefault("database.connection.port", conn.Port)
	v.SetDefault("database.connection.username", conn.Username)
	v.SetDefault("database.connection.password", conn.Password)
	v.SetDefault("database.connection.dbname", conn.DBName)
	v.SetDefault("database.connection.sslmode", conn.SSLMode)
	v.SetDefault("database.connection.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", conn.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", conn.WriteTimeout)
	v.SetDefault("database.connection.enable_reconnect", conn.EnableReconnect)
	v.SetDefault("database.connection.reconnect_interval", conn.ReconnectInterval)
	v.SetDefault("database.connection.max_reconnect_tries", conn.MaxReconnectTries)
	v.SetDefault("database.connection.health_check_interval", conn.HealthCheckInterval)
	v.SetDefault("database.connection.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("database.connection.slow_query_time", conn.SlowQueryTime)
	v.SetDefault("database.migrate.enable_migrate_on_startup", db.DataMigrateConfig.EnableMigrateOnStartup)
	v.SetDefault("database.migrate.enable_foreign_key", db.DataMigrateConfig.EnableForeignKey)
	v.SetDefault("database.migrate.foreign_key_file", db.DataMigrateConfig.ForeignKeyFile)
	v.SetDefault("database.init.auto_init_on_startup", db.DataInitConfig.AutoInitOnStartup)
	v.SetDefault("database.init.auto_init_on_migration", db.DataInitConfig.AutoInitOnMigration)
	v.SetDefault("database.init.filepath", db.DataInitConfig.Filepath)
	v.SetDefault("database.init.environment", db.DataInitConfig.Environment)
}
