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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/roster/types"
)

// ErrorPayload is the error envelope returned by the API.
type ErrorPayload struct {
	Error       string             `json:"error"`
	Message     string             `json:"message,omitempty"`
	FieldErrors []types.FieldError `json:"field_errors,omitempty"`
}

// MapError converts an error into an HTTP status and payload. Store errors
// are reported without their cause.
func MapError(err error) (int, ErrorPayload) {
	switch {
	case err == nil:
		return http.StatusOK, ErrorPayload{Error: "ok"}
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_argument",
			Message:     "one or more fields are invalid",
			FieldErrors: types.FieldErrors(err),
		}
	case errors.Is(err, types.ErrDataAccess):
		return http.StatusInternalServerError, ErrorPayload{
			Error:   "data_access_failure",
			Message: "the member store could not answer the query",
		}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
