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

// writeArray encodes a slice or array value after its ARRAY tag: compact
// length, then elements. Common primitive element types take a tagless
// fast path; everything else re-enters the dispatch engine per element
// under the derived element context, so nested slices, enums and
// polymorphic elements encode like any other slot.
func (w *Writer) writeArray(rv reflect.Value, field *FieldContext) error {
	length := rv.Len()
	w.buf.WriteVarUint32(uint32(length))
	if rv.Kind() == reflect.Slice {
		switch v := rv.Interface().(type) {
		case []byte:
			w.buf.WriteBinary(v)
			return nil
		case []bool:
			for _, e := range v {
				w.buf.WriteBool(e)
			}
			return nil
		case []int32:
			for _, e := range v {
				w.buf.WriteVarint32(e)
			}
			return nil
		case []int64:
			for _, e := range v {
				w.buf.WriteVarint64(e)
			}
			return nil
		case []float64:
			for _, e := range v {
				w.buf.WriteFloat64(e)
			}
			return nil
		}
	}
	elemCtx := field.elem(rv.Type())
	for i := 0; i < length; i++ {
		if err := w.writeReflect(rv.Index(i), elemCtx); err != nil {
			return err
		}
	}
	return nil
}
