package model

import (
	"strings"
	"unicode"
)

// ToApplicationKeys renames every top-level key from storage to application
// convention: PROJECT_ID becomes projectId. Values are not touched.
func ToApplicationKeys(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		out[ApplicationName(k)] = v
	}
	return out
}

// ToStorageKeys renames every top-level key from application to storage
// convention: projectId becomes PROJECT_ID.
func ToStorageKeys(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		out[StorageName(k)] = v
	}
	return out
}

// ToApplicationKeysAll applies ToApplicationKeys to each record.
func ToApplicationKeysAll(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = ToApplicationKeys(r)
	}
	return out
}

// ToStorageKeysAll applies ToStorageKeys to each record.
func ToStorageKeysAll(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = ToStorageKeys(r)
	}
	return out
}

// ApplicationName lower-cases key and turns every "_x" into "X". An
// underscore followed by another underscore or the end of the key is dropped.
func ApplicationName(key string) string {
	lower := []rune(strings.ToLower(key))

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(lower); i++ {
		r := lower[i]
		if r != '_' {
			b.WriteRune(r)
			continue
		}
		if i+1 < len(lower) && lower[i+1] != '_' {
			b.WriteRune(unicode.ToUpper(lower[i+1]))
			i++
		}
	}
	return b.String()
}

// StorageName puts an underscore before every run of upper-case letters and
// digits, then upper-cases the key.
func StorageName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)

	inRun := false
	for _, r := range key {
		upperOrDigit := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if upperOrDigit && !inRun {
			b.WriteByte('_')
		}
		inRun = upperOrDigit
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
