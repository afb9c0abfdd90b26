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

// Package threadsafe provides a pooled, thread-safe front end over
// fst.Writer using sync.Pool.
package threadsafe

import (
	"sync"

	fst "github.com/cmuramoto/fast-serialization"
)

// Pool hands out reset fst.Writer instances and is safe for concurrent
// use. All pooled writers share the registry given to New.
type Pool struct {
	pool sync.Pool
}

// New creates a writer pool on conf, or on the default registry when conf
// is nil. Pooled writers target their internal buffers; binding a shared
// sink here would interleave output from concurrent callers.
func New(conf *fst.Registry) *Pool {
	p := &Pool{}
	p.pool = sync.Pool{
		New: func() any {
			return fst.NewWriter(conf)
		},
	}
	return p
}

func (p *Pool) acquire() *fst.Writer {
	return p.pool.Get().(*fst.Writer)
}

func (p *Pool) release(w *fst.Writer) {
	// Closed writers cannot be reset; drop them instead of pooling.
	if w.ResetForReuse(nil) == nil {
		p.pool.Put(w)
	}
}

// Encode writes value for field on a pooled writer and returns the
// encoded bytes. The returned slice is a copy owned by the caller.
func (p *Pool) Encode(value any, field *fst.FieldContext) ([]byte, error) {
	w := p.acquire()
	defer p.release(w)
	if err := w.WriteValue(value, field); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
