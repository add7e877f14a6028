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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/roster/database"
)

// HealthChecker reports the state of the database and its pool.
// database.AbstractDatabaseManager satisfies it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *database.HealthStatus
	GetStats() *database.DBStats
}

type HealthHandler struct {
	db HealthChecker
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness responds OK if the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness reports the database health and pool statistics; 503 when the
// database is unhealthy or was never initialized.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not initialized"})
		return
	}
	status := h.db.HealthCheck(c.Request.Context())
	body := gin.H{"status": "ready", "database": status, "pool": h.db.GetStats()}
	if !status.Healthy {
		body["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
