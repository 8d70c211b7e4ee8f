// Package model converts rows between their storage form (SCREAMING_SNAKE_CASE
// columns, driver values) and their application form (camelCase keys, coerced
// values), driven by a declarative Schema.
//
// A Schema lists fields in order. Each field carries a Type, which pairs the
// coercion applied when reading (Entity) with the one applied when writing (DB):
//
//	var Task = model.Schema{
//	    model.F("taskId", model.Number),
//	    model.F("status", model.Enum("Pending", "In Progress", "Completed")),
//	    model.F("createdAt", model.Date),
//	}
package model

import "sort"

// Record is a row in either form. An absent key means "not set"; a key
// holding nil means null.
type Record map[string]any

// Kind tags a Coercion.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindDate
	KindJSON
	KindArray
	KindEnum
	KindEntity
	KindComputed
	KindTransient
	KindLiteral
)

var kindNames = [...]string{
	KindNone:      "none",
	KindNumber:    "number",
	KindString:    "string",
	KindBoolean:   "boolean",
	KindDate:      "date",
	KindJSON:      "json",
	KindArray:     "array",
	KindEnum:      "enum",
	KindEntity:    "entity",
	KindComputed:  "computed",
	KindTransient: "transient",
	KindLiteral:   "literal",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ComputeFunc derives a field from the whole record. parent is the enclosing
// record for nested entities and nil at the root. Returning Unset leaves the
// field out; an error (or a panic) sets it to nil.
type ComputeFunc func(rec, parent Record) (any, error)

type unsetMarker struct{}

// Unset is returned by a ComputeFunc to leave its field out of the record.
var Unset any = unsetMarker{}

type enumPair struct {
	key   string
	value any
}

// Coercion is one direction of a field's conversion rule.
type Coercion struct {
	Kind Kind

	enum       []enumPair
	positional bool
	schema     Schema
	compute    ComputeFunc
	literal    string
}

// Schema returns the nested schema of an entity coercion.
func (c Coercion) Schema() Schema { return c.schema }

// Type pairs the read-side (Entity) and write-side (DB) coercions of a field.
type Type struct {
	Entity Coercion
	DB     Coercion
}

// Field is a named Type.
type Field struct {
	Name string
	Type
}

// F builds a Field.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Schema is an ordered list of fields.
type Schema []Field

// Lookup returns the field declared under name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names lists the declared field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Extend returns a copy of s with fields appended. A field whose name is
// already declared replaces the earlier declaration in place.
func (s Schema) Extend(fields ...Field) Schema {
	out := make(Schema, len(s), len(s)+len(fields))
	copy(out, s)
	for _, f := range fields {
		replaced := false
		for i := range out {
			if out[i].Name == f.Name {
				out[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return out
}

func same(k Kind) Type {
	return Type{Entity: Coercion{Kind: k}, DB: Coercion{Kind: k}}
}

var (
	Number    = same(KindNumber)
	String    = same(KindString)
	Boolean   = same(KindBoolean)
	Date      = same(KindDate)
	JSON      = same(KindJSON)
	Transient = same(KindTransient)

	// Array reads a comma separated column as []string and joins it back on write.
	Array = Type{Entity: Coercion{Kind: KindArray}, DB: Coercion{Kind: KindString}}
)

// Enum declares a closed set of names stored verbatim. Legacy positional
// values ("0", "1", ...) are mapped to the name at that position in both
// directions.
func Enum(values ...string) Type {
	pairs := make([]enumPair, len(values))
	for i, v := range values {
		pairs[i] = enumPair{key: v, value: v}
	}
	c := Coercion{Kind: KindEnum, enum: pairs, positional: true}
	return Type{Entity: c, DB: c}
}

// EnumMap declares application names mapped to arbitrary storage values.
func EnumMap(m map[string]any) Type {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]enumPair, len(keys))
	for i, k := range keys {
		pairs[i] = enumPair{key: k, value: m[k]}
	}
	c := Coercion{Kind: KindEnum, enum: pairs}
	return Type{Entity: c, DB: c}
}

// Entity declares a nested record. It is stored as JSON text in a single
// column at the root and kept as a structure inside other entities.
func Entity(s Schema) Type {
	c := Coercion{Kind: KindEntity, schema: s}
	return Type{Entity: c, DB: c}
}

// Computed declares a read-only field derived on read and never written.
func Computed(fn ComputeFunc) Type {
	return Type{Entity: ComputedRule(fn)}
}

// Literal forces the field to s in both directions.
func Literal(s string) Type {
	c := LiteralRule(s)
	return Type{Entity: c, DB: c}
}

// ComputedRule is a single-direction computed coercion, used to build
// custom Types such as a value derived at write time.
func ComputedRule(fn ComputeFunc) Coercion {
	return Coercion{Kind: KindComputed, compute: fn}
}

// LiteralRule is a single-direction literal coercion.
func LiteralRule(s string) Coercion {
	return Coercion{Kind: KindLiteral, literal: s}
}
