// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package fst implements the write path of a compact, self-describing
// binary object codec in unshared (acyclic) mode.
//
// Unshared mode assumes the value graph being written contains no shared
// sub-objects and no cycles, so the writer never tracks object identity.
// That makes it unsafe for graphs violating the assumption (shared
// sub-objects are duplicated, cycles recurse without bound) but removes
// all reference bookkeeping from the hot path.
//
// The intended usage pattern is one long-lived Registry shared by many
// Writer instances. A Registry is safe for concurrent use; a Writer is
// not and must be confined to one goroutine at a time. Writers are meant
// to be pooled and reset via ResetForReuse rather than reallocated; the
// threadsafe subpackage provides a ready-made pool.
package fst

import "errors"

// ErrClosedWriter indicates a write or reset on a permanently closed writer.
var ErrClosedWriter = errors.New("fst: writer is closed")

// ErrNotEnum indicates a value routed to the enum encoder whose type chain
// never reaches a registered enum type.
var ErrNotEnum = errors.New("fst: no enum ancestor")
