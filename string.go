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

import "unsafe"

// writeStringUTF writes the length-prefixed UTF-8 payload of s.
func writeStringUTF(buf *ByteBuffer, s string) {
	buf.WriteVarUint32(uint32(len(s)))
	if len(s) > 0 {
		buf.WriteBinary(unsafeGetBytes(s))
	}
}

// unsafeGetBytes views the bytes of s without copying. The result must
// not be written to or retained past the next buffer mutation.
func unsafeGetBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
