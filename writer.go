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

import (
	"fmt"
	"io"
	"reflect"
)

// Exact-match types for the boxed-primitive and string fast paths.
// Named types with these underlying kinds take the generic object path.
var (
	stringType = reflect.TypeOf("")
	boolType   = reflect.TypeOf(false)
	intType    = reflect.TypeOf(int(0))
	int32Type  = reflect.TypeOf(int32(0))
	int64Type  = reflect.TypeOf(int64(0))
)

// Writer encodes values onto one output stream in unshared mode.
//
// A Writer is NOT safe for concurrent use; confine each instance to one
// goroutine at a time and share the Registry instead. Writers are meant
// to be pooled: ResetForReuse restores a used instance to the state of a
// freshly constructed one, byte for byte.
type Writer struct {
	conf    *Registry
	buf     *ByteBuffer
	sink    io.Writer
	flushed int
	closed  bool

	// per-stream descriptor cache: class -> id assigned on first full emission
	classIDs    map[reflect.Type]uint32
	nextClassID uint32
}

// Option configures a Writer.
type Option func(*Writer)

// WithSink binds the writer to an external sink. Bytes accumulate in the
// internal buffer and reach the sink on Flush or Close.
func WithSink(sink io.Writer) Option {
	return func(w *Writer) { w.sink = sink }
}

// WithBuffer seeds the internal buffer with the given backing array.
func WithBuffer(buf []byte) Option {
	return func(w *Writer) { w.buf.ResetBytes(buf) }
}

// NewWriter creates a writer on conf, or on the default registry when
// conf is nil. Without options it writes to an internal growable buffer
// accessible through Bytes.
func NewWriter(conf *Registry, opts ...Option) *Writer {
	if conf == nil {
		conf = defaultRegistry
	}
	w := &Writer{
		conf:        conf,
		buf:         NewByteBuffer(nil),
		classIDs:    make(map[reflect.Type]uint32),
		nextClassID: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteValue encodes value for the slot described by field. A nil field
// means an open slot with no declared type and no closed sets.
//
// On error, bytes already emitted stay in the buffer/sink; there is no
// rollback.
func (w *Writer) WriteValue(value any, field *FieldContext) error {
	if w.closed {
		return ErrClosedWriter
	}
	if field == nil {
		field = openContext
	}
	return w.writeValue(value, field)
}

func (w *Writer) writeValue(value any, field *FieldContext) error {
	// The nil check precedes everything else: a nil has no runtime type.
	if value == nil {
		w.buf.WriteInt8(NULL)
		return nil
	}
	rv := reflect.ValueOf(value)
	return w.writeReflect(rv, field)
}

func (w *Writer) writeReflect(rv reflect.Value, field *FieldContext) error {
	for {
		switch rv.Kind() {
		case reflect.Ptr, reflect.Interface:
			if rv.IsNil() {
				w.buf.WriteInt8(NULL)
				return nil
			}
			rv = rv.Elem()
			continue
		case reflect.Slice, reflect.Map:
			if rv.IsNil() {
				w.buf.WriteInt8(NULL)
				return nil
			}
		}
		return w.dispatch(rv, field)
	}
}

// dispatch selects exactly one tag for a non-nil value; first match wins.
func (w *Writer) dispatch(rv reflect.Value, field *FieldContext) error {
	t := rv.Type()
	switch t {
	case stringType:
		return w.writeString(rv.String(), field)
	case int32Type:
		w.buf.WriteInt8(BIG_INT)
		w.buf.WriteVarint32(int32(rv.Int()))
		return nil
	case int64Type, intType:
		w.buf.WriteInt8(BIG_LONG)
		w.buf.WriteVarint64(rv.Int())
		return nil
	case boolType:
		if rv.Bool() {
			w.buf.WriteInt8(BIG_BOOLEAN_TRUE)
		} else {
			w.buf.WriteInt8(BIG_BOOLEAN_FALSE)
		}
		return nil
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		w.buf.WriteInt8(ARRAY)
		return w.writeArray(rv, field)
	}
	if w.conf.isEnum(field.DeclaredType) || w.conf.isEnum(t) {
		return w.writeEnum(rv, t)
	}

	desc, err := w.conf.resolve(field, t)
	if err != nil {
		return err
	}
	if err := w.writeObjectHeader(desc, field, t); err != nil {
		return err
	}
	if enc := desc.encoder; enc != nil {
		return enc.Encode(w, rv.Interface(), desc, field, w.Written())
	}
	return w.defaultWriteObject(rv, desc)
}

// writeString emits ONE_OF + index when the value appears in the field's
// closed string set, STRING + length-prefixed UTF-8 otherwise.
func (w *Writer) writeString(s string, field *FieldContext) error {
	for i, candidate := range field.OneOf {
		if candidate == s {
			w.buf.WriteInt8(ONE_OF)
			w.buf.WriteVarUint32(uint32(i))
			return nil
		}
	}
	w.buf.WriteInt8(STRING)
	writeStringUTF(w.buf, s)
	return nil
}

// writeEnum emits ENUM + the resolved enum type's class descriptor + the
// value's ordinal. The tag goes out before resolution, matching the
// no-rollback contract: a malformed enum chain fails after the tag byte.
func (w *Writer) writeEnum(rv reflect.Value, t reflect.Type) error {
	w.buf.WriteInt8(ENUM)
	info, err := w.conf.resolveEnum(t)
	if err != nil {
		return err
	}
	desc, err := w.conf.resolve(nil, info.type_)
	if err != nil {
		return err
	}
	if err := w.writeClass(desc); err != nil {
		return err
	}
	ord, ok := info.ordinalOf(rv.Convert(info.type_))
	if !ok {
		return fmt.Errorf("fst: value %v is not a member of enum %s", rv.Interface(), info.type_)
	}
	w.buf.WriteVarUint32(ord)
	return nil
}

// writeObjectHeader emits the minimal bytes a decoder needs to recover
// the concrete type of the generic object about to be written.
func (w *Writer) writeObjectHeader(desc *ClassDescriptor, field *FieldContext, t reflect.Type) error {
	if t == field.DeclaredType {
		// The decoder statically knows the type; one tag byte suffices.
		w.buf.WriteInt8(TYPED)
		return nil
	}
	possible := field.PossibleTypes
	n := len(possible)
	if n > MaxPossibleTypes {
		n = MaxPossibleTypes
	}
	for j := 0; j < n; j++ {
		if possible[j] == t {
			// Index 0 stays reserved so positive bytes never collide
			// with the named tags.
			w.buf.WriteInt8(Tag(j + 1))
			return nil
		}
	}
	w.buf.WriteInt8(OBJECT)
	return w.writeClass(desc)
}

// writeClass emits the class identity: a compact back-reference when the
// class was already written on this stream, the full name + hash and a
// fresh cache entry otherwise. Ids count from 1; 0 announces a full
// descriptor payload.
func (w *Writer) writeClass(desc *ClassDescriptor) error {
	if id, ok := w.classIDs[desc.Type]; ok {
		w.buf.WriteVarUint32(id)
		return nil
	}
	w.buf.WriteVarUint32(0)
	writeStringUTF(w.buf, desc.Name)
	w.buf.WriteInt64(int64(desc.nameHash))
	w.classIDs[desc.Type] = w.nextClassID
	w.nextClassID++
	return nil
}

// defaultWriteObject is the generic field-by-field encoder used when no
// custom encoder is registered for the class.
func (w *Writer) defaultWriteObject(rv reflect.Value, desc *ClassDescriptor) error {
	if rv.Kind() == reflect.Struct {
		for _, cf := range desc.fields {
			if err := w.writeReflect(rv.Field(cf.index), cf.ctx); err != nil {
				return err
			}
		}
		return nil
	}
	// Named primitive types carry their underlying value directly; the
	// header already identifies the concrete type.
	switch rv.Kind() {
	case reflect.Bool:
		w.buf.WriteBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.buf.WriteVarint64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.buf.WriteVarUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		w.buf.WriteFloat64(rv.Float())
	case reflect.String:
		writeStringUTF(w.buf, rv.String())
	default:
		return fmt.Errorf("fst: no encoder for %s (kind %s)", desc.Name, rv.Kind())
	}
	return nil
}

// Buffer returns the writer's underlying buffer. Custom encoders use it
// to emit their payload bytes.
func (w *Writer) Buffer() *ByteBuffer {
	return w.buf
}

// Written returns the total number of bytes produced on this stream,
// including bytes already flushed to the sink.
func (w *Writer) Written() int {
	return w.flushed + w.buf.WriterIndex()
}

// Bytes returns a copy of the unflushed buffer contents.
func (w *Writer) Bytes() []byte {
	return w.buf.GetByteSlice(0, w.buf.WriterIndex())
}

// Flush pushes buffered bytes to the bound sink, if any. Sink errors
// propagate unchanged; nothing is retried.
func (w *Writer) Flush() error {
	if w.sink == nil {
		return nil
	}
	n := w.buf.WriterIndex()
	if n == 0 {
		return nil
	}
	if _, err := w.sink.Write(w.buf.Slice(0, n)); err != nil {
		return err
	}
	w.flushed += n
	w.buf.Reset()
	return nil
}

// Close flushes and permanently closes the writer. A closed writer
// rejects all further writes and resets.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	return err
}

// ResetForReuse clears all per-stream state (descriptor cache, byte
// counters, buffer position) and rebinds the output to sink; a nil sink
// targets the internal buffer. A reused writer behaves byte-for-byte like
// a freshly constructed one.
func (w *Writer) ResetForReuse(sink io.Writer) error {
	if w.closed {
		return ErrClosedWriter
	}
	w.reset()
	w.sink = sink
	return nil
}

// ResetForReuseBytes resets like ResetForReuse but targets the internal
// buffer re-seeded with the given backing array.
func (w *Writer) ResetForReuseBytes(buf []byte) error {
	if w.closed {
		return ErrClosedWriter
	}
	w.reset()
	w.sink = nil
	w.buf.ResetBytes(buf)
	return nil
}

func (w *Writer) reset() {
	w.buf.Reset()
	w.flushed = 0
	clear(w.classIDs)
	w.nextClassID = 1
}
