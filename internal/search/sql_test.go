package search

import (
	"strings"
	"testing"
)

func TestWhereEmpty(t *testing.T) {
	cond, args := Where(nil, 1)
	if cond != "" || args != nil {
		t.Errorf("expected empty condition, got %q %v", cond, args)
	}
}

func TestWhereSingleSubstring(t *testing.T) {
	cond, args := Where([]Predicate{{FieldName, OpContains, "maria"}}, 1)
	want := "(p.name ILIKE '%' || $1 || '%')"
	if cond != want {
		t.Errorf("cond = %q, want %q", cond, want)
	}
	if len(args) != 1 || args[0] != "maria" {
		t.Errorf("args = %v", args)
	}
}

func TestWhereCombinesWithOr(t *testing.T) {
	preds := ParseQuery("maria 2021")
	cond, args := Where(preds, 1)

	if got := strings.Count(cond, " OR "); got != len(preds)-1 {
		t.Errorf("expected %d ORs, got %d in %q", len(preds)-1, got, cond)
	}
	if len(args) != len(preds) {
		t.Errorf("expected %d args, got %d", len(preds), len(args))
	}
	if !strings.Contains(cond, "EXTRACT(YEAR FROM r.date) = $") {
		t.Errorf("missing year condition in %q", cond)
	}
	// placeholders are numbered sequentially from startArg
	for i := range args {
		ph := "$" + string(rune('1'+i))
		if !strings.Contains(cond, ph) {
			t.Errorf("missing placeholder %s in %q", ph, cond)
		}
	}
}

func TestWhereEscapesLikeWildcards(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c\d`, `c\\d`},
		{"maria", "maria"},
	}
	for _, tc := range cases {
		_, args := Where([]Predicate{{FieldName, OpContains, tc.value}}, 1)
		if len(args) != 1 || args[0] != tc.want {
			t.Errorf("Where(%q) args = %v, want [%q]", tc.value, args, tc.want)
		}
	}
}

func TestWhereStartArgOffset(t *testing.T) {
	cond, _ := Where([]Predicate{{FieldRecordDay, OpEquals, 15}}, 3)
	want := "(EXTRACT(DAY FROM r.date) = $3)"
	if cond != want {
		t.Errorf("cond = %q, want %q", cond, want)
	}
}
