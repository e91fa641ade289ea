// Package search turns free-text patient queries into field predicates.
//
// Every whitespace-delimited token is tried against each field family
// independently: a token can be a fragment of a name or document number, a
// four-digit year, a month (numeric or English name), or a day of month.
// Whatever interpretations hold produce predicates; the rest are skipped
// silently. The caller folds all predicates into one OR filter, so no query
// ever fails to parse.
package search

import (
	"strconv"
	"strings"
)

// months maps every accepted English month spelling to its 1-based number.
// The lookup is case-sensitive: only these exact spellings count.
var months = map[string]int{
	"Jan": 1, "January": 1, "jan": 1,
	"Feb": 2, "February": 2, "feb": 2,
	"Mar": 3, "March": 3, "mar": 3,
	"Apr": 4, "April": 4, "apr": 4,
	"May": 5, "may": 5,
	"Jun": 6, "June": 6, "jun": 6,
	"Jul": 7, "July": 7, "jul": 7,
	"Aug": 8, "August": 8, "aug": 8,
	"Sep": 9, "Sept": 9, "September": 9, "sep": 9, "sept": 9,
	"Oct": 10, "October": 10, "oct": 10,
	"Nov": 11, "November": 11, "nov": 11,
	"Dec": 12, "December": 12, "dec": 12,
}

// Tokenize splits a raw query into tokens: whitespace-delimited, trailing
// '.' and ',' stripped, empties dropped. An empty query yields no tokens.
func Tokenize(query string) []string {
	var tokens []string
	for _, piece := range strings.Fields(query) {
		piece = strings.TrimRight(piece, ".,")
		if piece != "" {
			tokens = append(tokens, piece)
		}
	}
	return tokens
}

// matchSubstring always succeeds; the token itself is the match value.
func matchSubstring(token string) (any, bool) {
	return token, true
}

// matchYear accepts exactly four digits forming a positive year.
func matchYear(token string) (any, bool) {
	if len(token) != 4 {
		return nil, false
	}
	year, err := strconv.Atoi(token)
	if err != nil || year < 1 {
		return nil, false
	}
	return year, true
}

// matchMonth accepts an English month name from the fixed table, or a one-
// or two-digit number in 1..12. Numbers above 12 are rejected.
func matchMonth(token string) (any, bool) {
	if m, ok := months[token]; ok {
		return m, true
	}
	if len(token) > 2 {
		return nil, false
	}
	month, err := strconv.Atoi(token)
	if err != nil || month < 1 || month > 12 {
		return nil, false
	}
	return month, true
}

// matchDay accepts a one- or two-digit number in 1..31.
func matchDay(token string) (any, bool) {
	if len(token) > 2 {
		return nil, false
	}
	day, err := strconv.Atoi(token)
	if err != nil || day < 1 || day > 31 {
		return nil, false
	}
	return day, true
}

// matchers enumerates the field families and their token interpreters.
// The mapping is fixed at definition time; each entry is attempted for every
// token without short-circuiting on earlier successes.
var matchers = []struct {
	field Field
	op    Op
	match func(token string) (any, bool)
}{
	{FieldName, OpContains, matchSubstring},
	{FieldDocument, OpContains, matchSubstring},
	{FieldRecordYear, OpEquals, matchYear},
	{FieldRecordMonth, OpEquals, matchMonth},
	{FieldRecordDay, OpEquals, matchDay},
}

// MatchToken produces every predicate a single token supports, at most one
// per field family. A token that supports none (never the case in practice,
// since the substring interpretations always hold) yields an empty slice.
func MatchToken(token string) []Predicate {
	var preds []Predicate
	for _, m := range matchers {
		value, ok := m.match(token)
		if !ok {
			continue
		}
		preds = append(preds, Predicate{Field: m.field, Op: m.op, Value: value})
	}
	return preds
}

// ParseQuery tokenizes a raw query and returns all predicates from all
// tokens, in token order. An empty or all-punctuation query returns nil,
// which callers treat as "no filter".
func ParseQuery(query string) []Predicate {
	var preds []Predicate
	for _, token := range Tokenize(query) {
		preds = append(preds, MatchToken(token)...)
	}
	return preds
}
