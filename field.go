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

package fst

import "reflect"

// FieldContext is the static description of a write slot: the type the
// decoder statically expects there and, optionally, closed sets of legal
// concrete types and string values that enable index-based compact
// encoding. A FieldContext must not be mutated once handed to a writer.
type FieldContext struct {
	Name         string
	DeclaredType reflect.Type

	// PossibleTypes is an ordered, finite list of concrete types that may
	// legally appear at this slot. Empty means unbounded. A value whose
	// runtime type matches entry i (and differs from DeclaredType) is
	// encoded as the single tag byte i+1 instead of a class descriptor.
	PossibleTypes []reflect.Type

	// OneOf is an ordered, finite list of candidate string literals for
	// this slot. Empty means unbounded strings.
	OneOf []string
}

// NewFieldContext creates a field context with an open possible-types set
// and an open string set.
func NewFieldContext(name string, declared reflect.Type) *FieldContext {
	return &FieldContext{Name: name, DeclaredType: declared}
}

// openContext stands in when a caller writes a value with no slot metadata.
var openContext = &FieldContext{}

// elem derives the context array elements are written under: the declared
// type becomes the element type of the concrete array, the closed sets
// carry over unchanged.
func (f *FieldContext) elem(arrayType reflect.Type) *FieldContext {
	return &FieldContext{
		Name:          f.Name,
		DeclaredType:  arrayType.Elem(),
		PossibleTypes: f.PossibleTypes,
		OneOf:         f.OneOf,
	}
}
