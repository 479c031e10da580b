// Package media defines the capture-date metadata shape shared by the
// metadata providers and the organizer.
package media

// Metadata field names as the providers report them.
const (
	FieldDateTimeOriginal = "DateTimeOriginal"
	FieldCreateDate       = "CreateDate"
	FieldMediaCreateDate  = "MediaCreateDate"
)

// Dates carries the raw capture-date values read from a single file, exactly
// as the source reported them. An empty string means the field was absent or
// unusable.
type Dates struct {
	DateTimeOriginal string
	CreateDate       string
	MediaCreateDate  string
}

// Field pairs a metadata field name with its raw value.
type Field struct {
	Name  string
	Value string
}

// InPriorityOrder returns the fields in resolution order. An explicit capture
// timestamp beats the container creation stamps.
func (d Dates) InPriorityOrder() []Field {
	return []Field{
		{Name: FieldDateTimeOriginal, Value: d.DateTimeOriginal},
		{Name: FieldCreateDate, Value: d.CreateDate},
		{Name: FieldMediaCreateDate, Value: d.MediaCreateDate},
	}
}

// IsZero reports whether no field carries a value.
func (d Dates) IsZero() bool {
	return d == Dates{}
}
