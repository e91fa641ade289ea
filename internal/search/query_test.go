package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"maria", []string{"maria"}},
		{"maria,", []string{"maria"}},
		{"maria.", []string{"maria"}},
		{"maria,. perez", []string{"maria", "perez"}},
		{"  maria   2021  jan ", []string{"maria", "2021", "jan"}},
		{",.,.", nil},
		{"a,b", []string{"a,b"}}, // only trailing punctuation is stripped
	}
	for _, tc := range cases {
		got := Tokenize(tc.query)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func fields(preds []Predicate) map[Field]any {
	out := make(map[Field]any)
	for _, p := range preds {
		out[p.Field] = p.Value
	}
	return out
}

func TestMatchTokenYear(t *testing.T) {
	preds := MatchToken("2021")
	got := fields(preds)

	if got[FieldRecordYear] != 2021 {
		t.Errorf("expected year=2021, got %v", got[FieldRecordYear])
	}
	// 2021 > 12, so no month; four digits, so no day
	if _, ok := got[FieldRecordMonth]; ok {
		t.Error("unexpected month predicate for 2021")
	}
	if _, ok := got[FieldRecordDay]; ok {
		t.Error("unexpected day predicate for 2021")
	}
	// substring interpretations always hold
	if got[FieldName] != "2021" || got[FieldDocument] != "2021" {
		t.Errorf("expected substring predicates for 2021, got %v", got)
	}
}

func TestMatchTokenMonthName(t *testing.T) {
	for _, token := range []string{"jan", "Jan", "January"} {
		got := fields(MatchToken(token))
		if got[FieldRecordMonth] != 1 {
			t.Errorf("MatchToken(%q): expected month=1, got %v", token, got[FieldRecordMonth])
		}
	}

	// case-sensitive table: unknown spellings yield no month predicate
	for _, token := range []string{"JAN", "january", "janvier"} {
		got := fields(MatchToken(token))
		if _, ok := got[FieldRecordMonth]; ok {
			t.Errorf("MatchToken(%q): unexpected month predicate", token)
		}
	}

	got := fields(MatchToken("sept"))
	if got[FieldRecordMonth] != 9 {
		t.Errorf("expected month=9 for sept, got %v", got[FieldRecordMonth])
	}
}

func TestMatchTokenDay(t *testing.T) {
	got := fields(MatchToken("15"))
	if got[FieldRecordDay] != 15 {
		t.Errorf("expected day=15, got %v", got[FieldRecordDay])
	}
	if _, ok := got[FieldRecordMonth]; ok {
		t.Error("unexpected month predicate for 15 (>12)")
	}

	// numeric tokens above 31 match neither day nor month
	got = fields(MatchToken("99"))
	if _, ok := got[FieldRecordDay]; ok {
		t.Error("unexpected day predicate for 99")
	}
	if _, ok := got[FieldRecordMonth]; ok {
		t.Error("unexpected month predicate for 99")
	}
}

func TestMatchTokenAmbiguousDate(t *testing.T) {
	// "08" is both a valid month and a valid day; both predicates are kept.
	got := fields(MatchToken("08"))
	if got[FieldRecordMonth] != 8 {
		t.Errorf("expected month=8, got %v", got[FieldRecordMonth])
	}
	if got[FieldRecordDay] != 8 {
		t.Errorf("expected day=8, got %v", got[FieldRecordDay])
	}
}

func TestMatchTokenPlainString(t *testing.T) {
	preds := MatchToken("maria")
	if len(preds) != 2 {
		t.Fatalf("expected 2 predicates for maria, got %d: %v", len(preds), preds)
	}
	got := fields(preds)
	if got[FieldName] != "maria" || got[FieldDocument] != "maria" {
		t.Errorf("expected name/document substring predicates, got %v", got)
	}
}

func TestMatchTokenZeroDateParts(t *testing.T) {
	for _, token := range []string{"0", "00", "0000"} {
		got := fields(MatchToken(token))
		for _, f := range []Field{FieldRecordYear, FieldRecordMonth, FieldRecordDay} {
			if _, ok := got[f]; ok {
				t.Errorf("MatchToken(%q): unexpected %s predicate", token, f)
			}
		}
	}
}

func TestParseQueryEmpty(t *testing.T) {
	if preds := ParseQuery(""); preds != nil {
		t.Errorf("expected no predicates for empty query, got %v", preds)
	}
	if preds := ParseQuery(",.  ,."); preds != nil {
		t.Errorf("expected no predicates for punctuation query, got %v", preds)
	}
}

func TestParseQueryMultiToken(t *testing.T) {
	preds := ParseQuery("maria 2021 jan")
	// maria: 2 substring; 2021: 2 substring + year; jan: 2 substring + month
	if len(preds) != 8 {
		t.Fatalf("expected 8 predicates, got %d: %v", len(preds), preds)
	}
}

func TestParseQueryOrderIndependent(t *testing.T) {
	a := ParseQuery("maria 2021 jan")
	b := ParseQuery("jan maria 2021")

	count := func(preds []Predicate) map[Predicate]int {
		m := make(map[Predicate]int)
		for _, p := range preds {
			m[p]++
		}
		return m
	}
	if !reflect.DeepEqual(count(a), count(b)) {
		t.Errorf("predicate multisets differ:\n%v\n%v", a, b)
	}
}

func TestParseQueryNeverPanics(t *testing.T) {
	queries := []string{
		"", " ", "....", "13", "32", "0x1f", "maría ñoño", "' OR 1=1 --",
		"2021-01-15", "Jan.", "sept,", "999999999999999999999", "\t\n",
	}
	for _, q := range queries {
		// any panic fails the test
		_ = ParseQuery(q)
	}
}
