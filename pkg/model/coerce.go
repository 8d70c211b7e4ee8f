package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// isoLayout is the application form of a Date field.
const isoLayout = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToApplication coerces the declared fields of a storage-named record into
// their application form. The record is modified in place and returned.
// Undeclared keys are left as they are.
func ToApplication(rec Record, s Schema) Record {
	return toApplication(rec, s, true, nil)
}

// ToApplicationAll applies ToApplication to each record.
func ToApplicationAll(recs []Record, s Schema) []Record {
	for i := range recs {
		recs[i] = ToApplication(recs[i], s)
	}
	return recs
}

// ToStorage returns a projected deep copy of rec with every declared field
// coerced into its storage form. Keys keep application naming; see
// ToStorageKeys.
func ToStorage(rec Record, s Schema) Record {
	return toStorage(rec, s, true)
}

// ToStorageAll applies ToStorage to each record.
func ToStorageAll(recs []Record, s Schema) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = ToStorage(r, s)
	}
	return out
}

func toApplication(rec Record, s Schema, isRoot bool, parent Record) Record {
	if rec == nil {
		return nil
	}
	for _, f := range s {
		c := f.Entity
		if c.Kind == KindNone {
			continue
		}

		v, present := rec[f.Name]
		if present {
			v, present = applicationValue(c, v, isRoot, rec)
		}

		switch c.Kind {
		case KindComputed:
			v, present = invoke(c.compute, rec, parent)
		case KindLiteral:
			v, present = c.literal, true
		}

		if present {
			rec[f.Name] = v
		} else {
			delete(rec, f.Name)
		}
	}
	return rec
}

func applicationValue(c Coercion, v any, isRoot bool, rec Record) (any, bool) {
	switch c.Kind {
	case KindBoolean:
		if v == nil {
			return nil, true
		}
		return truthy(v), true

	case KindArray:
		if s, ok := asText(v); ok && s != "" {
			return strings.Split(s, ","), true
		}
		return []string{}, true

	case KindNumber:
		if n, ok := parseInteger(v); ok {
			return n, true
		}
		return nil, true

	case KindDate:
		if t, ok := parseDate(v); ok {
			return t.UTC().Format(isoLayout), true
		}
		return nil, true

	case KindJSON:
		if !truthy(v) {
			return nil, true
		}
		s, ok := asText(v)
		if !ok {
			return v, true
		}
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, true
		}
		return out, true

	case KindString:
		if v == nil {
			return nil, true
		}
		return textOf(v), true

	case KindEntity:
		if !truthy(v) {
			return v, true
		}
		var nested Record
		var ok bool
		if isRoot {
			nested, ok = asRecord(v)
		} else {
			nested, ok = v.(Record)
			if !ok {
				var m map[string]any
				m, ok = v.(map[string]any)
				nested = Record(m)
			}
		}
		if !ok {
			return nil, true
		}
		return convertNested(nested, c.schema, rec)

	case KindEnum:
		if key, ok := c.reverse(v); ok {
			return key, true
		}
		return nil, false
	}
	return v, true
}

func convertNested(nested Record, s Schema, parent Record) (out any, present bool) {
	defer func() {
		if r := recover(); r != nil {
			out, present = nil, true
		}
	}()
	return toApplication(nested, s, false, parent), true
}

func toStorage(rec Record, s Schema, isRoot bool) Record {
	if rec == nil {
		return nil
	}
	out := Project(deepCopy(rec).(Record), s)

	for _, f := range s {
		c := f.DB
		if c.Kind == KindNone {
			if f.Entity.Kind == KindComputed {
				delete(out, f.Name)
			}
			continue
		}

		v, present := out[f.Name]
		if present {
			v, present = storageValue(c, v, isRoot)
		}
		if c.Kind == KindComputed {
			v, present = invoke(c.compute, out, nil)
		}

		if present {
			out[f.Name] = v
		} else {
			delete(out, f.Name)
		}
	}
	return out
}

func storageValue(c Coercion, v any, isRoot bool) (any, bool) {
	switch c.Kind {
	case KindBoolean:
		if v == nil {
			return nil, true
		}
		return truthy(v), true

	case KindNumber:
		if n, ok := parseInteger(v); ok {
			return n, true
		}
		return nil, true

	case KindDate:
		if t, ok := parseDate(v); ok {
			return t.UTC(), true
		}
		return nil, true

	case KindJSON:
		if !truthy(v) {
			return v, true
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, true
		}
		return string(b), true

	case KindString:
		switch a := v.(type) {
		case []string:
			return strings.Join(a, ","), true
		case []any:
			parts := make([]string, len(a))
			for i, p := range a {
				if p != nil {
					parts[i] = textOf(p)
				}
			}
			return strings.Join(parts, ","), true
		}
		return v, true

	case KindEntity:
		if !truthy(v) {
			return v, true
		}
		nested, ok := asRecord(v)
		if !ok {
			return nil, true
		}
		converted := toStorage(nested, c.schema, false)
		if !isRoot {
			return converted, true
		}
		b, err := json.Marshal(converted)
		if err != nil {
			return nil, true
		}
		return string(b), true

	case KindEnum:
		return c.forward(v), true

	case KindTransient:
		return nil, false

	case KindLiteral:
		return c.literal, true
	}
	return v, true
}

func invoke(fn ComputeFunc, rec, parent Record) (out any, present bool) {
	if fn == nil {
		return nil, true
	}
	defer func() {
		if r := recover(); r != nil {
			out, present = nil, true
		}
	}()

	v, err := fn(rec, parent)
	if err != nil {
		return nil, true
	}
	if v == Unset {
		return nil, false
	}
	return v, true
}

func (c Coercion) reverse(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, p := range c.enum {
		if textOf(p.value) == textOf(v) {
			return p.key, true
		}
	}
	if i, ok := c.position(v); ok {
		return c.enum[i].key, true
	}
	return "", false
}

func (c Coercion) forward(v any) any {
	if s, ok := asText(v); ok {
		for _, p := range c.enum {
			if p.key == s {
				return p.value
			}
		}
	}
	if i, ok := c.position(v); ok {
		return c.enum[i].value
	}
	return v
}

func (c Coercion) position(v any) (int, bool) {
	if !c.positional {
		return 0, false
	}
	var n int64
	switch x := v.(type) {
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	case []byte:
		i, err := strconv.ParseInt(string(x), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		i, ok := parseInteger(v)
		if !ok {
			return 0, false
		}
		n = i
	}
	if n < 0 || n >= int64(len(c.enum)) {
		return 0, false
	}
	return int(n), true
}

// truthy follows the usual dynamic-language notion of truth: nil, false,
// zero, NaN and the empty string are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	case json.Number:
		return x != "" && x != "0"
	}
	return true
}

// parseInteger reads the leading integer of v the way parseInt does:
// "42px" is 42, "abc" is not a number.
func parseInteger(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float32:
		return floatInteger(float64(x))
	case float64:
		return floatInteger(x)
	case string:
		return leadingInteger(x)
	case []byte:
		return leadingInteger(string(x))
	case json.Number:
		return leadingInteger(string(x))
	}
	return 0, false
}

func floatInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

func leadingInteger(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		return parseDateText(x)
	case []byte:
		return parseDateText(string(x))
	case nil, bool:
		return time.Time{}, false
	}
	if ms, ok := parseInteger(v); ok {
		return time.UnixMilli(ms), true
	}
	return time.Time{}, false
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.UTC().Format(isoLayout)
	case []string:
		return strings.Join(x, ",")
	case fmt.Stringer:
		return x.String()
	}
	if n, ok := parseInteger(v); ok {
		return strconv.FormatInt(n, 10)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

// asRecord accepts a record, a plain map or JSON object text.
func asRecord(v any) (Record, bool) {
	switch x := v.(type) {
	case Record:
		return x, true
	case map[string]any:
		return Record(x), true
	case string, []byte:
		s, _ := asText(x)
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
			return nil, false
		}
		return Record(m), true
	}
	return nil, false
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case Record:
		out := make(Record, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	case []byte:
		return append([]byte(nil), x...)
	}
	return v
}
