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


// Package ginerr renders error envelopes for gin engines.
//
// Handlers report failures with c.Error (or return them through [Handle]);
// [Middleware] formats the last one once the chain has run. [Install] also
// routes unmatched paths and methods to the ResourceNotFound envelope.
//
//	engine := gin.New()
//	ginerr.Install(engine, dispatcher)
//	engine.POST("/forms", func(c *gin.Context) {
//	    var form Form
//	    if err := ginerr.BindJSON(c, v, &form); err != nil {
//	        _ = c.Error(err)
//	        return
//	    }
//	    c.Status(http.StatusCreated)
//	})
package ginerr
