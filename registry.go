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
	"reflect"
	"strings"
	"sync"

	"github.com/spaolacci/murmur3"
)

// descriptorHashSeed is the murmur3 seed for class-name hashes on the wire.
const descriptorHashSeed = 47

// Encoder is a custom encoding routine registered for a concrete type.
// It runs after the object header has been written for the value; it must
// encode only the value's payload, never another tag for the value itself.
// written is the writer's total byte count at the time of the call.
type Encoder interface {
	Encode(w *Writer, value any, desc *ClassDescriptor, field *FieldContext, written int) error
}

// EncoderFunc adapts a plain function to the Encoder interface.
type EncoderFunc func(w *Writer, value any, desc *ClassDescriptor, field *FieldContext, written int) error

func (f EncoderFunc) Encode(w *Writer, value any, desc *ClassDescriptor, field *FieldContext, written int) error {
	return f(w, value, desc, field, written)
}

// ClassDescriptor carries the per-type metadata the write path needs:
// wire identity (name + hash), the optional custom encoder, and the
// precomputed field list the default encoder walks. Descriptors are built
// once per registry and shared; treat them as read-only.
type ClassDescriptor struct {
	Type     reflect.Type
	Name     string
	nameHash uint64
	encoder  Encoder
	fields   []classField
}

type classField struct {
	index int
	ctx   *FieldContext
}

// Encoder returns the registered custom encoder, or nil when the default
// field-by-field encoder applies.
func (d *ClassDescriptor) Encoder() Encoder {
	return d.encoder
}

// enumInfo maps an enum type's members to their declared ordinals.
type enumInfo struct {
	type_    reflect.Type
	ordinals map[any]uint32
}

func (e *enumInfo) ordinalOf(v reflect.Value) (uint32, bool) {
	ord, ok := e.ordinals[v.Interface()]
	return ord, ok
}

// Registry is the shared configuration object supplying class
// descriptors, custom encoders and enum metadata to writers.
//
// A Registry is safe for concurrent use: the intended pattern is one
// long-lived registry shared by many pooled writer instances across
// goroutines. Registrations should normally happen up front, before
// writers start; they are still safe afterwards, but a descriptor
// resolved before a registration does not pick it up.
type Registry struct {
	mu       sync.RWMutex
	classes  map[reflect.Type]*ClassDescriptor
	encoders map[reflect.Type]Encoder
	enums    map[reflect.Type]*enumInfo
	variants map[reflect.Type]reflect.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:  make(map[reflect.Type]*ClassDescriptor),
		encoders: make(map[reflect.Type]Encoder),
		enums:    make(map[reflect.Type]*enumInfo),
		variants: make(map[reflect.Type]reflect.Type),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by writers
// constructed without an explicit one.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterEncoder registers a custom encoder for the type of prototype.
// prototype can be a reflect.Type or an instance of the type; pointer
// prototypes register the pointee type.
func (r *Registry) RegisterEncoder(prototype any, enc Encoder) {
	t := typeOf(prototype)
	r.mu.Lock()
	r.encoders[t] = enc
	delete(r.classes, t) // force a descriptor rebuild with the new encoder
	r.mu.Unlock()
}

// RegisterEnum declares T an enum type with the given members. A member's
// ordinal is its position in the list; ordinals, not names, are the wire
// representation, so reordering members breaks old streams.
func RegisterEnum[T comparable](r *Registry, members ...T) error {
	t := reflect.TypeOf(members).Elem()
	if len(members) == 0 {
		return fmt.Errorf("fst: enum %s needs at least one member", t)
	}
	ordinals := make(map[any]uint32, len(members))
	for i, m := range members {
		if _, dup := ordinals[any(m)]; dup {
			return fmt.Errorf("fst: duplicate member %v in enum %s", m, t)
		}
		ordinals[any(m)] = uint32(i)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.enums[t]; ok {
		return fmt.Errorf("fst: enum %s already registered", t)
	}
	r.enums[t] = &enumInfo{type_: t, ordinals: ordinals}
	return nil
}

// RegisterEnumVariant links variant type V to its enum ancestor E. Values
// of type V are encoded as E with E's descriptor and ordinals. Links may
// chain: E itself can be a variant of another enum.
func RegisterEnumVariant[V, E any](r *Registry) error {
	v := reflect.TypeOf((*V)(nil)).Elem()
	e := reflect.TypeOf((*E)(nil)).Elem()
	if !v.ConvertibleTo(e) {
		return fmt.Errorf("fst: enum variant %s is not convertible to %s", v, e)
	}
	r.mu.Lock()
	r.variants[v] = e
	r.mu.Unlock()
	return nil
}

// isEnum reports whether t is a registered enum or chains to one.
func (r *Registry) isEnum(t reflect.Type) bool {
	if t == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := t; ; {
		if _, ok := r.enums[c]; ok {
			return true
		}
		parent, ok := r.variants[c]
		if !ok {
			return false
		}
		c = parent
	}
}

// resolveEnum finds the nearest registered enum ancestor of t by walking
// variant links upward. A chain that ends without reaching an enum is a
// hard error: the writer cannot determine ordinal or type information for
// such a value and must not guess.
func (r *Registry) resolveEnum(t reflect.Type) (*enumInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := t; ; {
		if info, ok := r.enums[c]; ok {
			return info, nil
		}
		parent, ok := r.variants[c]
		if !ok {
			return nil, fmt.Errorf("fst: can't handle enum value of type %s: %w", t, ErrNotEnum)
		}
		c = parent
	}
}

// resolve returns the class descriptor for runtime type t at the given
// field slot, building and caching it on first use.
func (r *Registry) resolve(field *FieldContext, t reflect.Type) (*ClassDescriptor, error) {
	r.mu.RLock()
	d, ok := r.classes[t]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}
	return r.buildDescriptor(t)
}

func (r *Registry) buildDescriptor(t reflect.Type) (*ClassDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.classes[t]; ok {
		return d, nil
	}
	name := typeName(t)
	d := &ClassDescriptor{
		Type:     t,
		Name:     name,
		nameHash: murmur3.Sum64WithSeed([]byte(name), descriptorHashSeed),
		encoder:  r.encoders[t],
	}
	if t.Kind() == reflect.Struct {
		fields, err := structFields(t)
		if err != nil {
			return nil, err
		}
		d.fields = fields
	}
	r.classes[t] = d
	return d, nil
}

// structFields precomputes the exported, non-skipped fields of t together
// with their field contexts, so the default encoder never parses struct
// tags on the hot path.
func structFields(t reflect.Type) ([]classField, error) {
	var out []classField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("fst")
		if tag == "-" {
			continue
		}
		ctx := NewFieldContext(sf.Name, sf.Type)
		if tag != "" {
			if err := applyFieldTag(ctx, tag); err != nil {
				return nil, fmt.Errorf("fst: field %s.%s: %w", t, sf.Name, err)
			}
		}
		out = append(out, classField{index: i, ctx: ctx})
	}
	return out, nil
}

func applyFieldTag(ctx *FieldContext, tag string) error {
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "":
		case strings.HasPrefix(part, "oneof="):
			ctx.OneOf = strings.Split(strings.TrimPrefix(part, "oneof="), "|")
		default:
			return fmt.Errorf("unknown tag option %q", part)
		}
	}
	return nil
}

// typeName is the wire identity of a type. Named types use the fully
// qualified package path; unnamed types fall back to their syntax.
func typeName(t reflect.Type) string {
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}

func typeOf(prototype any) reflect.Type {
	if t, ok := prototype.(reflect.Type); ok {
		return t
	}
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
