package entry

import "github.com/xolan/voicesheet/internal/timeutil"

// Field identifies one of the recognized timesheet fields
type Field int

const (
	FieldDate Field = iota
	FieldDay
	FieldStartTime
	FieldEndTime
	FieldTimeElapsed
	FieldTask

	fieldCount
)

// MinFields is how many recognized fields a record needs before it becomes an entry.
// Tolerating one missing field is a policy carried over from the extraction
// format: the model most often drops Time Elapsed, which can be derived.
const MinFields = 5

// FieldFromKey maps an extraction key to its field.
// Keys are matched exactly and case-sensitively.
func FieldFromKey(key string) (Field, bool) {
	for i, column := range Columns {
		if column == key {
			return Field(i), true
		}
	}
	return 0, false
}

// String returns the column name for the field
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "Unknown"
	}
	return Columns[f]
}

// Builder accumulates the fields of one record before it is promoted to an Entry
type Builder struct {
	values [fieldCount]string
	set    [fieldCount]bool
}

// Set records a value for the field, replacing any earlier one
func (b *Builder) Set(f Field, value string) {
	if f < 0 || f >= fieldCount {
		return
	}
	b.values[f] = value
	b.set[f] = true
}

// Has reports whether the field has been set
func (b *Builder) Has(f Field) bool {
	return f >= 0 && f < fieldCount && b.set[f]
}

// Count returns the number of distinct fields set
func (b *Builder) Count() int {
	n := 0
	for _, ok := range b.set {
		if ok {
			n++
		}
	}
	return n
}

// Valid reports whether enough fields are set to build an entry
func (b *Builder) Valid() bool {
	return b.Count() >= MinFields
}

// Reset clears all fields
func (b *Builder) Reset() {
	*b = Builder{}
}

// Build promotes the builder to an Entry. It returns false if fewer than
// MinFields fields are set. A missing Time Elapsed is derived from the
// start and end times; any other missing field is left empty.
func (b *Builder) Build() (Entry, bool) {
	if !b.Valid() {
		return Entry{}, false
	}

	e := FromRow(b.values[:])
	if !b.set[FieldTimeElapsed] {
		e.TimeElapsed = timeutil.ElapsedOrNA(e.StartTime, e.EndTime)
	}
	return e, true
}
