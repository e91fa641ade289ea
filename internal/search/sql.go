package search

import (
	"fmt"
	"strings"
)

// columns maps each field family to the SQL expression it filters on.
// Table aliases: p = patients, r = patient_records.
var columns = map[Field]string{
	FieldName:        "p.name",
	FieldDocument:    "p.document",
	FieldRecordYear:  "EXTRACT(YEAR FROM r.date)",
	FieldRecordMonth: "EXTRACT(MONTH FROM r.date)",
	FieldRecordDay:   "EXTRACT(DAY FROM r.date)",
}

// likeEscaper neutralizes LIKE metacharacters so a substring token matches
// literally. Backslash is the default ILIKE escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where folds predicates into a single OR'd SQL condition with numbered
// placeholders starting at startArg, returning the condition and its
// arguments. With no predicates it returns an empty condition, meaning the
// whole collection matches.
func Where(preds []Predicate, startArg int) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, pred := range preds {
		n := startArg + len(args)
		value := pred.Value
		switch pred.Op {
		case OpContains:
			parts = append(parts, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", columns[pred.Field], n))
			if s, ok := value.(string); ok {
				value = likeEscaper.Replace(s)
			}
		case OpEquals:
			parts = append(parts, fmt.Sprintf("%s = $%d", columns[pred.Field], n))
		default:
			continue
		}
		args = append(args, value)
	}

	return "(" + strings.Join(parts, " OR ") + ")", args
}
