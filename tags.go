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

// Tag is the discriminant byte preceding every encoded value. Named tags
// are negative; positive bytes 1..MaxPossibleTypes are reserved for
// indices into a field's possible-types set.
type Tag = int8

const (
	// OBJECT generic object, followed by a class descriptor (full or cached ref)
	OBJECT Tag = -1
	// TYPED object whose runtime type equals the field's declared type, no payload
	TYPED Tag = -2
	// NULL nil value, no payload
	NULL Tag = -3
	// STRING length-prefixed UTF-8 text
	STRING Tag = -4
	// ONE_OF index into the field's closed string set
	ONE_OF Tag = -5
	// BIG_INT compact-width int32
	BIG_INT Tag = -6
	// BIG_LONG compact-width int64
	BIG_LONG Tag = -7
	// BIG_BOOLEAN_FALSE boolean false, no payload
	BIG_BOOLEAN_FALSE Tag = -8
	// BIG_BOOLEAN_TRUE boolean true, no payload
	BIG_BOOLEAN_TRUE Tag = -9
	// ARRAY slice or array, followed by the array-encoder payload
	ARRAY Tag = -10
	// ENUM enum constant, followed by the enum type's class descriptor and ordinal
	ENUM Tag = -11
)

// MaxPossibleTypes is the number of possible-types entries addressable by
// a single positive tag byte. Entries beyond it fall back to OBJECT.
const MaxPossibleTypes = 127
