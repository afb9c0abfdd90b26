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
	"encoding/binary"
	"math"
)

const (
	MaxInt8  = 1<<7 - 1
	MinInt8  = -1 << 7
	MaxInt16 = 1<<15 - 1
	MinInt16 = -1 << 15
	MaxInt32 = 1<<31 - 1
	MinInt32 = -1 << 31
)

// ByteBuffer is a growable little-endian buffer with independent reader
// and writer indices. Compact ints are LEB128 of the value's unsigned bit
// pattern, so small non-negative values cost one byte.
type ByteBuffer struct {
	data        []byte
	writerIndex int
	readerIndex int
}

// NewByteBuffer creates a buffer backed by data, which may be nil.
func NewByteBuffer(data []byte) *ByteBuffer {
	return &ByteBuffer{data: data}
}

func (b *ByteBuffer) grow(n int) {
	need := b.writerIndex + n
	if need <= len(b.data) {
		return
	}
	size := 2 * need
	if size < 64 {
		size = 64
	}
	newData := make([]byte, size)
	copy(newData, b.data)
	b.data = newData
}

func (b *ByteBuffer) WriteByte_(v byte) {
	b.grow(1)
	b.data[b.writerIndex] = v
	b.writerIndex++
}

func (b *ByteBuffer) WriteBool(v bool) {
	if v {
		b.WriteByte_(1)
	} else {
		b.WriteByte_(0)
	}
}

func (b *ByteBuffer) WriteInt8(v int8) {
	b.WriteByte_(byte(v))
}

func (b *ByteBuffer) WriteInt16(v int16) {
	b.grow(2)
	binary.LittleEndian.PutUint16(b.data[b.writerIndex:], uint16(v))
	b.writerIndex += 2
}

func (b *ByteBuffer) WriteInt32(v int32) {
	b.grow(4)
	binary.LittleEndian.PutUint32(b.data[b.writerIndex:], uint32(v))
	b.writerIndex += 4
}

func (b *ByteBuffer) WriteInt64(v int64) {
	b.grow(8)
	binary.LittleEndian.PutUint64(b.data[b.writerIndex:], uint64(v))
	b.writerIndex += 8
}

func (b *ByteBuffer) WriteFloat64(v float64) {
	b.WriteInt64(int64(math.Float64bits(v)))
}

func (b *ByteBuffer) WriteBinary(v []byte) {
	b.grow(len(v))
	copy(b.data[b.writerIndex:], v)
	b.writerIndex += len(v)
}

// WriteVarUint32 writes v as LEB128 and returns the number of bytes written.
func (b *ByteBuffer) WriteVarUint32(v uint32) int8 {
	return b.WriteVarUint64(uint64(v))
}

// WriteVarUint64 writes v as LEB128 and returns the number of bytes written.
func (b *ByteBuffer) WriteVarUint64(v uint64) int8 {
	b.grow(10)
	var n int8
	for v >= 0x80 {
		b.data[b.writerIndex] = byte(v) | 0x80
		b.writerIndex++
		v >>= 7
		n++
	}
	b.data[b.writerIndex] = byte(v)
	b.writerIndex++
	return n + 1
}

// WriteVarint32 writes the unsigned bit pattern of v as LEB128 and returns
// the number of bytes written. Negative values always cost five bytes.
func (b *ByteBuffer) WriteVarint32(v int32) int8 {
	return b.WriteVarUint32(uint32(v))
}

// WriteVarint64 writes the unsigned bit pattern of v as LEB128.
// Negative values always cost ten bytes.
func (b *ByteBuffer) WriteVarint64(v int64) int8 {
	return b.WriteVarUint64(uint64(v))
}

func (b *ByteBuffer) ReadByte_() byte {
	v := b.data[b.readerIndex]
	b.readerIndex++
	return v
}

func (b *ByteBuffer) ReadBool() bool {
	return b.ReadByte_() != 0
}

func (b *ByteBuffer) ReadInt8() int8 {
	return int8(b.ReadByte_())
}

func (b *ByteBuffer) ReadInt16() int16 {
	v := binary.LittleEndian.Uint16(b.data[b.readerIndex:])
	b.readerIndex += 2
	return int16(v)
}

func (b *ByteBuffer) ReadInt32() int32 {
	v := binary.LittleEndian.Uint32(b.data[b.readerIndex:])
	b.readerIndex += 4
	return int32(v)
}

func (b *ByteBuffer) ReadInt64() int64 {
	v := binary.LittleEndian.Uint64(b.data[b.readerIndex:])
	b.readerIndex += 8
	return int64(v)
}

func (b *ByteBuffer) ReadFloat64() float64 {
	return math.Float64frombits(uint64(b.ReadInt64()))
}

func (b *ByteBuffer) ReadBinary(length int) []byte {
	v := b.data[b.readerIndex : b.readerIndex+length]
	b.readerIndex += length
	return v
}

func (b *ByteBuffer) ReadVarUint32() uint32 {
	return uint32(b.ReadVarUint64())
}

func (b *ByteBuffer) ReadVarUint64() uint64 {
	var v uint64
	var shift uint
	for {
		c := b.data[b.readerIndex]
		b.readerIndex++
		v |= uint64(c&0x7F) << shift
		if c < 0x80 {
			return v
		}
		shift += 7
	}
}

// ReadVaruint32 reads an LEB128 value as int32 bits.
func (b *ByteBuffer) ReadVaruint32() int32 {
	return int32(b.ReadVarUint32())
}

func (b *ByteBuffer) ReadVarint32() int32 {
	return int32(b.ReadVarUint32())
}

func (b *ByteBuffer) ReadVarint64() int64 {
	return int64(b.ReadVarUint64())
}

func (b *ByteBuffer) WriterIndex() int {
	return b.writerIndex
}

func (b *ByteBuffer) ReaderIndex() int {
	return b.readerIndex
}

// Reset rewinds both indices, keeping the backing array.
func (b *ByteBuffer) Reset() {
	b.writerIndex = 0
	b.readerIndex = 0
}

// ResetBytes rewinds both indices and replaces the backing array with data.
func (b *ByteBuffer) ResetBytes(data []byte) {
	b.data = data[:cap(data)]
	b.writerIndex = 0
	b.readerIndex = 0
}

// GetByteSlice returns a copy of the bytes in [start, end).
func (b *ByteBuffer) GetByteSlice(start, end int) []byte {
	out := make([]byte, end-start)
	copy(out, b.data[start:end])
	return out
}

// Slice returns a view of length bytes starting at start, without copying.
func (b *ByteBuffer) Slice(start, length int) []byte {
	return b.data[start : start+length]
}
