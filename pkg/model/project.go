package model

// Project returns a new record holding only the keys s declares. Nested
// entities are projected against their own schema; absent keys stay absent.
func Project(rec Record, s Schema) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(s))
	for _, f := range s {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		if f.Entity.Kind == KindEntity && v != nil {
			if nested, isRec := asRecord(v); isRec {
				out[f.Name] = Project(nested, f.Entity.schema)
				continue
			}
		}
		out[f.Name] = v
	}
	return out
}

// ProjectAll applies Project to each record.
func ProjectAll(recs []Record, s Schema) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = Project(r, s)
	}
	return out
}
