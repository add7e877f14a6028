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
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/config"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/server"
	"github.com/tomoncle/roster/utils"
)

var (
	configFile string
	log        = utils.NewLogger("ROSTER")
)

var rootCmd = &cobra.Command{
	Use:           "roster",
	Short:         "Member search service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = database.CloseDB() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := roster.NewMemberService(db)
		initCfg := cfg.Database.DataInitConfig
		if initCfg.AutoInitOnStartup && initCfg.Environment == "local" {
			if err := svc.InitMembers(ctx); err != nil {
				return err
			}
		}

		router := server.NewRouter(cfg.Server.Mode, svc, database.GetDatabaseManager())
		return server.New(cfg.Server, router).Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and foreign keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		if _, err := database.InitDatabaseWithOptions(&cfg.Database, true); err != nil {
			return err
		}
		defer func() { _ = database.CloseDB() }()
		log.Info("Migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample members and run the SQL seed files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := database.InitDatabaseWithOptions(&cfg.Database, true)
		if err != nil {
			return err
		}
		defer func() { _ = database.CloseDB() }()

		ctx := cmd.Context()
		if err := roster.NewMemberService(db).InitMembers(ctx); err != nil {
			return err
		}
		results, err := database.InitData(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			log.WithFields(logrus.Fields{
				"file":     r.File,
				"duration": r.Duration.String(),
				"affected": r.RowsAffected,
			}).Info("SQL seed file executed")
		}
		return nil
	},
}

func setup() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	utils.ConfigureLogLevel(cfg.Log.Level)
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	return cfg, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
