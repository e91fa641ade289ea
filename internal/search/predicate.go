package search

// Field identifies the field family a predicate applies to.
type Field int

const (
	// FieldName matches against the patient name.
	FieldName Field = iota

	// FieldDocument matches against the patient identity document number.
	FieldDocument

	// FieldRecordYear matches against the year of an appointment record date.
	FieldRecordYear

	// FieldRecordMonth matches against the month of an appointment record date.
	FieldRecordMonth

	// FieldRecordDay matches against the day of an appointment record date.
	FieldRecordDay
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldDocument:
		return "document"
	case FieldRecordYear:
		return "record_year"
	case FieldRecordMonth:
		return "record_month"
	case FieldRecordDay:
		return "record_day"
	default:
		return "unknown"
	}
}

// Op is the comparison operator of a predicate.
type Op int

const (
	// OpContains is a case-insensitive substring match. Value is a string.
	OpContains Op = iota

	// OpEquals is an exact match on a date component. Value is an int.
	OpEquals
)

func (o Op) String() string {
	switch o {
	case OpContains:
		return "contains"
	case OpEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// Predicate is a single field-comparison condition. Predicates produced for
// one query are always combined with logical OR, so their order never
// affects the result set.
type Predicate struct {
	Field Field
	Op    Op
	Value any
}
