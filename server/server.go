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

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tomoncle/roster/config"
	"github.com/tomoncle/roster/utils"
)

// NewRouter builds the gin engine with the member, health and metrics
// routes.
func NewRouter(mode string, members MemberSearcher, db HealthChecker) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), Metrics(), AccessLog(utils.NewLogger("HTTP")))

	h := NewHealthHandler(db)
	r.GET("/live", h.Liveness)
	r.GET("/health", h.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	NewMemberHandler(members).Register(r)
	return r
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	cfg    config.ServerConfig
	server *http.Server
}

func New(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := utils.NewLogger("HTTP")
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.cfg.Addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	log.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}
