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
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/spaolacci/murmur3"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int32
	Y int32
}

type circle struct {
	R int64
}

type shade struct {
	Color string `fst:"oneof=red|green|blue"`
}

type color int

const (
	red color = iota
	green
	blue
)

// alarmColor plays the role of a per-constant subtype of color: values
// are encoded with color's descriptor and ordinals.
type alarmColor color

var (
	pointType = reflect.TypeOf(point{})
	anyType   = reflect.TypeOf((*any)(nil)).Elem()
)

func tb(t Tag) byte { return byte(t) }

// appendFullClass appends the full descriptor payload writeClass emits on
// a cache miss.
func appendFullClass(exp *ByteBuffer, t reflect.Type) {
	exp.WriteVarUint32(0)
	name := typeName(t)
	writeStringUTF(exp, name)
	exp.WriteInt64(int64(murmur3.Sum64WithSeed([]byte(name), descriptorHashSeed)))
}

func expected(exp *ByteBuffer) []byte {
	return exp.GetByteSlice(0, exp.WriterIndex())
}

func TestNullShortCircuit(t *testing.T) {
	field := &FieldContext{
		DeclaredType:  pointType,
		PossibleTypes: []reflect.Type{pointType},
		OneOf:         []string{"red", "green"},
	}
	cases := map[string]any{
		"UntypedNil": nil,
		"NilPointer": (*point)(nil),
		"NilSlice":   []int32(nil),
		"NilMap":     map[string]int32(nil),
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(NewRegistry())
			require.NoError(t, w.WriteValue(value, field))
			require.Equal(t, []byte{tb(NULL)}, w.Bytes())
		})
	}
}

func TestTypedFastPath(t *testing.T) {
	w := NewWriter(NewRegistry())
	field := NewFieldContext("p", pointType)
	require.NoError(t, w.WriteValue(point{X: 1, Y: 2}, field))
	require.Equal(t, []byte{tb(TYPED), tb(BIG_INT), 1, tb(BIG_INT), 2}, w.Bytes())
}

func TestPossibleTypesIndex(t *testing.T) {
	field := &FieldContext{
		DeclaredType:  anyType,
		PossibleTypes: []reflect.Type{pointType, reflect.TypeOf(circle{})},
	}
	w := NewWriter(NewRegistry())
	require.NoError(t, w.WriteValue(circle{R: 7}, field))
	// index 1 encodes as tag byte 2; no class descriptor follows
	require.Equal(t, []byte{2, tb(BIG_LONG), 7}, w.Bytes())
}

func TestObjectDescriptorCache(t *testing.T) {
	w := NewWriter(NewRegistry())
	require.NoError(t, w.WriteValue(point{X: 1, Y: 2}, nil))
	require.NoError(t, w.WriteValue(point{X: 3, Y: 4}, nil))

	exp := NewByteBuffer(nil)
	exp.WriteInt8(OBJECT)
	appendFullClass(exp, pointType)
	exp.WriteInt8(BIG_INT)
	exp.WriteVarint32(1)
	exp.WriteInt8(BIG_INT)
	exp.WriteVarint32(2)
	// second occurrence: compact back-reference instead of the full payload
	exp.WriteInt8(OBJECT)
	exp.WriteVarUint32(1)
	exp.WriteInt8(BIG_INT)
	exp.WriteVarint32(3)
	exp.WriteInt8(BIG_INT)
	exp.WriteVarint32(4)
	require.Equal(t, expected(exp), w.Bytes())
}

func TestStringClosedSet(t *testing.T) {
	field := &FieldContext{OneOf: []string{"red", "green", "blue"}}

	t.Run("Member", func(t *testing.T) {
		w := NewWriter(NewRegistry())
		require.NoError(t, w.WriteValue("green", field))
		require.Equal(t, []byte{tb(ONE_OF), 1}, w.Bytes())
	})

	t.Run("NonMember", func(t *testing.T) {
		w := NewWriter(NewRegistry())
		require.NoError(t, w.WriteValue("yellow", field))
		require.Equal(t, []byte{tb(STRING), 6, 'y', 'e', 'l', 'l', 'o', 'w'}, w.Bytes())
	})

	t.Run("OpenSet", func(t *testing.T) {
		w := NewWriter(NewRegistry())
		require.NoError(t, w.WriteValue("red", nil))
		require.Equal(t, []byte{tb(STRING), 3, 'r', 'e', 'd'}, w.Bytes())
	})
}

func TestStructTagOneOf(t *testing.T) {
	w := NewWriter(NewRegistry())
	field := NewFieldContext("s", reflect.TypeOf(shade{}))
	require.NoError(t, w.WriteValue(shade{Color: "blue"}, field))
	require.Equal(t, []byte{tb(TYPED), tb(ONE_OF), 2}, w.Bytes())
}

func TestBoxedPrimitives(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  []byte
	}{
		{"Int32", int32(42), []byte{tb(BIG_INT), 42}},
		{"Int64", int64(5), []byte{tb(BIG_LONG), 5}},
		{"Int", int(7), []byte{tb(BIG_LONG), 7}},
		{"True", true, []byte{tb(BIG_BOOLEAN_TRUE)}},
		{"False", false, []byte{tb(BIG_BOOLEAN_FALSE)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWriter(NewRegistry())
			require.NoError(t, w.WriteValue(tc.value, nil))
			require.Equal(t, tc.want, w.Bytes())
		})
	}
}

func newColorRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, RegisterEnum(r, red, green, blue))
	require.NoError(t, RegisterEnumVariant[alarmColor, color](r))
	return r
}

func TestEnumOrdinal(t *testing.T) {
	r := newColorRegistry(t)
	w := NewWriter(r)
	field := NewFieldContext("c", reflect.TypeOf(red))
	require.NoError(t, w.WriteValue(green, field))

	exp := NewByteBuffer(nil)
	exp.WriteInt8(ENUM)
	appendFullClass(exp, reflect.TypeOf(red))
	exp.WriteVarUint32(1)
	require.Equal(t, expected(exp), w.Bytes())
}

func TestEnumVariantResolvesToAncestor(t *testing.T) {
	r := newColorRegistry(t)

	plain := NewWriter(r)
	require.NoError(t, plain.WriteValue(red, nil))

	variant := NewWriter(r)
	require.NoError(t, variant.WriteValue(alarmColor(red), nil))

	require.Equal(t, plain.Bytes(), variant.Bytes())
}

func TestEnumDescriptorCached(t *testing.T) {
	r := newColorRegistry(t)
	w := NewWriter(r)
	require.NoError(t, w.WriteValue(red, nil))
	require.NoError(t, w.WriteValue(blue, nil))

	exp := NewByteBuffer(nil)
	exp.WriteInt8(ENUM)
	appendFullClass(exp, reflect.TypeOf(red))
	exp.WriteVarUint32(0)
	exp.WriteInt8(ENUM)
	exp.WriteVarUint32(1)
	exp.WriteVarUint32(2)
	require.Equal(t, expected(exp), w.Bytes())
}

func TestEnumNoAncestorFailsFast(t *testing.T) {
	r := newColorRegistry(t)
	w := NewWriter(r)
	// The declared type forces the enum path, but the runtime type chains
	// to no registered enum.
	field := NewFieldContext("c", reflect.TypeOf(red))
	type notAColor int
	err := w.WriteValue(notAColor(1), field)
	require.ErrorIs(t, err, ErrNotEnum)
	// the tag goes out before resolution; no rollback
	require.Equal(t, []byte{tb(ENUM)}, w.Bytes())
}

func TestEnumUnknownMember(t *testing.T) {
	r := newColorRegistry(t)
	w := NewWriter(r)
	err := w.WriteValue(color(99), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a member")
}

func TestNamedPrimitiveDefaultEncoding(t *testing.T) {
	type level uint8
	w := NewWriter(NewRegistry())
	require.NoError(t, w.WriteValue(level(9), nil))

	exp := NewByteBuffer(nil)
	exp.WriteInt8(OBJECT)
	appendFullClass(exp, reflect.TypeOf(level(0)))
	exp.WriteVarUint64(9)
	require.Equal(t, expected(exp), w.Bytes())
}

func TestCustomEncoder(t *testing.T) {
	type blob struct{ payload []byte }
	r := NewRegistry()
	var gotWritten int
	r.RegisterEncoder(blob{}, EncoderFunc(func(w *Writer, value any, desc *ClassDescriptor, field *FieldContext, written int) error {
		gotWritten = written
		b := value.(blob)
		w.Buffer().WriteVarUint32(uint32(len(b.payload)))
		w.Buffer().WriteBinary(b.payload)
		return nil
	}))

	w := NewWriter(r)
	field := NewFieldContext("b", reflect.TypeOf(blob{}))
	require.NoError(t, w.WriteValue(blob{payload: []byte{0xDE, 0xAD}}, field))
	require.Equal(t, []byte{tb(TYPED), 2, 0xDE, 0xAD}, w.Bytes())
	require.Equal(t, 1, gotWritten) // header was one TYPED byte
}

func TestReuseIdempotence(t *testing.T) {
	r := newColorRegistry(t)
	sequence := func(w *Writer) {
		require.NoError(t, w.WriteValue(shade{Color: "green"}, nil))
		require.NoError(t, w.WriteValue(point{X: 1, Y: 2}, nil))
		require.NoError(t, w.WriteValue(point{X: 3, Y: 4}, nil))
		require.NoError(t, w.WriteValue(blue, nil))
	}

	reused := NewWriter(r)
	sequence(reused)
	require.NoError(t, reused.ResetForReuse(nil))
	require.Equal(t, 0, reused.Written())
	sequence(reused)

	fresh := NewWriter(r)
	sequence(fresh)

	require.Equal(t, fresh.Bytes(), reused.Bytes())
}

func TestResetForReuseBytes(t *testing.T) {
	w := NewWriter(NewRegistry())
	require.NoError(t, w.WriteValue(point{X: 9, Y: 9}, nil))
	require.NoError(t, w.ResetForReuseBytes(make([]byte, 0, 128)))
	require.NoError(t, w.WriteValue(int32(1), nil))
	require.Equal(t, []byte{tb(BIG_INT), 1}, w.Bytes())
	// the descriptor cache was cleared along with the buffer
	require.NoError(t, w.WriteValue(point{X: 1, Y: 1}, nil))
	require.Equal(t, byte(tb(OBJECT)), w.Bytes()[2])
	require.Equal(t, byte(0), w.Bytes()[3])
}

func TestClosedWriter(t *testing.T) {
	w := NewWriter(NewRegistry())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close()) // closing twice is harmless

	err := w.WriteValue(int32(1), nil)
	require.ErrorIs(t, err, ErrClosedWriter)
	require.Equal(t, 0, w.Written())

	require.ErrorIs(t, w.ResetForReuse(nil), ErrClosedWriter)
	require.ErrorIs(t, w.ResetForReuseBytes(nil), ErrClosedWriter)
}

type failingSink struct{ err error }

func (s failingSink) Write(p []byte) (int, error) { return 0, s.err }

func TestSink(t *testing.T) {
	t.Run("FlushAndClose", func(t *testing.T) {
		var sink bytes.Buffer
		w := NewWriter(NewRegistry(), WithSink(&sink))
		require.NoError(t, w.WriteValue(int32(42), nil))
		require.NoError(t, w.Flush())
		require.Equal(t, []byte{tb(BIG_INT), 42}, sink.Bytes())
		require.Equal(t, 2, w.Written())
		require.Empty(t, w.Bytes())

		require.NoError(t, w.WriteValue(true, nil))
		require.NoError(t, w.Close())
		require.Equal(t, []byte{tb(BIG_INT), 42, tb(BIG_BOOLEAN_TRUE)}, sink.Bytes())
	})

	t.Run("ErrorPropagates", func(t *testing.T) {
		sinkErr := errors.New("disk full")
		w := NewWriter(NewRegistry(), WithSink(failingSink{err: sinkErr}))
		require.NoError(t, w.WriteValue(int32(1), nil))
		require.ErrorIs(t, w.Flush(), sinkErr)
	})

	t.Run("Rebind", func(t *testing.T) {
		var first, second bytes.Buffer
		w := NewWriter(NewRegistry(), WithSink(&first))
		require.NoError(t, w.WriteValue(int32(1), nil))
		require.NoError(t, w.Flush())
		require.NoError(t, w.ResetForReuse(&second))
		require.NoError(t, w.WriteValue(int32(2), nil))
		require.NoError(t, w.Flush())
		require.Equal(t, []byte{tb(BIG_INT), 1}, first.Bytes())
		require.Equal(t, []byte{tb(BIG_INT), 2}, second.Bytes())
	})
}
