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


// Package sample is a small API on gin whose endpoints reproduce the
// failure modes the error envelope knows about: invalid bodies and
// collections, bodies nested deeper than the envelope can address, invalid
// and missing parameters, domain failures, system failures and unknown
// routes.
//
// It is wired to every other package of the module and serves as the
// process behind cmd/envelope-server.
package sample
