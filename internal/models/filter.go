package models

// FieldType is the declared value type of a filterable field
type FieldType string

const (
	FieldString      FieldType = "string"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldStringArray FieldType = "string_array"
)

// Comparator relates a field to a value inside a filter clause
type Comparator string

const (
	CmpILike          Comparator = "ilike"
	CmpLike           Comparator = "like"
	CmpEqual          Comparator = "=="
	CmpNotEqual       Comparator = "!="
	CmpGreater        Comparator = ">"
	CmpGreaterOrEqual Comparator = ">="
	CmpLess           Comparator = "<"
	CmpLessOrEqual    Comparator = "<="
	CmpIsNull         Comparator = "is_null"
	CmpIsNotNull      Comparator = "is_not_null"
	CmpOverlap        Comparator = "&&" // array overlap
	CmpContains       Comparator = "@>" // array contains
	CmpContainedBy    Comparator = "<@" // array is contained by
)

// IsNullTest reports whether the comparator takes no value
func (c Comparator) IsNullTest() bool {
	return c == CmpIsNull || c == CmpIsNotNull
}

// IsLike reports whether the comparator is a substring match whose value
// is wildcarded before it goes on the wire
func (c Comparator) IsLike() bool {
	return c == CmpLike || c == CmpILike
}

// FilterClause is one field/comparator/value predicate.
// Value is a string, a number, a bool, a []string or nil.
type FilterClause struct {
	Field      string     `json:"field" yaml:"field"`
	Comparator Comparator `json:"comparator" yaml:"comparator"`
	Value      any        `json:"value" yaml:"value"`
}

// Clone returns a copy of the clause that shares no slices with the original
func (f FilterClause) Clone() FilterClause {
	if arr, ok := f.Value.([]string); ok {
		cp := make([]string, len(arr))
		copy(cp, arr)
		f.Value = cp
	}
	return f
}

// FieldDescriptor is static metadata about one filterable attribute of an entity
type FieldDescriptor struct {
	Name     string
	Type     FieldType
	Label    string
	Abbr     string   // short column header, e.g. "HP"
	Resource Resource // resource used for type-ahead suggestions
	Icon     string
}

// FieldSet is the ordered list of filterable fields of an entity type
type FieldSet []FieldDescriptor

// Lookup finds a field by name
func (fs FieldSet) Lookup(name string) (FieldDescriptor, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Names returns the field names in declaration order
func (fs FieldSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Label returns the display label of a field, falling back to its name
func (fs FieldSet) Label(name string) string {
	if f, ok := fs.Lookup(name); ok && f.Label != "" {
		return f.Label
	}
	return name
}
