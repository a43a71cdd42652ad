// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ginerr

import (
	"github.com/gin-gonic/gin"

	apierrors "rivaas.dev/envelope/errors"
)

// Install registers [Middleware] and answers unmatched routes and methods
// with the ResourceNotFound envelope.
func Install(engine *gin.Engine, f apierrors.Formatter) {
	engine.Use(Middleware(f))
	engine.NoRoute(NotFound(f))
	engine.NoMethod(NotFound(f))
}

// Middleware formats the last error collected in c.Errors once the rest of
// the chain has run, unless a response was already written.
func Middleware(f apierrors.Formatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Abort(c, f, c.Errors.Last().Err)
	}
}

// Abort formats err and writes the envelope, stopping the chain.
// A nil err writes the ResourceNotFound envelope.
func Abort(c *gin.Context, f apierrors.Formatter, err error) {
	resp := f.Format(c.Request, err)
	if resp.Empty() {
		c.Abort()
		return
	}

	for k, vals := range resp.Headers {
		for _, v := range vals {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Header("Content-Type", resp.ContentType)
	c.AbortWithStatusJSON(resp.Status, resp.Body)
}

// NotFound answers with the ResourceNotFound envelope.
func NotFound(f apierrors.Formatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		Abort(c, f, nil)
	}
}

// Handle adapts an error-returning handler. A returned error is formatted
// immediately rather than left for [Middleware].
func Handle(f apierrors.Formatter, fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			Abort(c, f, err)
		}
	}
}
