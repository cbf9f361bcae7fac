package schema

// FieldType enumerates the value types a memory-entry field can hold.
type FieldType int

const (
	// String is a UTF-8 text field.
	String FieldType = iota
	// Float is a 64-bit floating point field. Timestamps are Floats
	// holding epoch seconds.
	Float
	// Int is a 64-bit integer field.
	Int
	// Bool is a boolean field.
	Bool
	// StringList is an ordered list of strings.
	StringList
	// Map is an open string-keyed object.
	Map
	// Vector is a fixed-length float32 sequence; its length is pinned to
	// the owning schema's dimension.
	Vector
)

// String returns the human-readable name of the field type.
func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case StringList:
		return "string_list"
	case Map:
		return "map"
	case Vector:
		return "vector"
	default:
		return "unknown"
	}
}

// Field describes one named, typed, optionally-defaulted attribute of a
// memory entry.
type Field struct {
	// Name is the field identifier as it appears in records and predicates.
	Name string

	// Type constrains the values the field accepts.
	Type FieldType

	// Required fields must be present and non-nil in every validated record.
	Required bool

	// Default, if non-nil, is filled in by the record preparer when the
	// field is absent.
	Default interface{}
}

// Names of the fields generated by Synthesize and of the canonical
// memory-entry attributes every base shape must declare.
const (
	FieldID                    = "id"
	FieldVector                = "vector"
	FieldTimestampCreated      = "timestamp_created"
	FieldTimestampLastAccessed = "timestamp_last_accessed"

	FieldContent         = "content"
	FieldTypeName        = "type"
	FieldSource          = "source"
	FieldImportanceScore = "importance_score"
	FieldTags            = "tags"
	FieldMetadata        = "metadata"
	FieldRelatedMemories = "related_memories"
)

// Base returns the canonical memory-entry shape: the optional domain
// fields every collection schema extends. Callers may append their own
// fields to the returned slice before passing it to a collection Config.
func Base() []Field {
	return []Field{
		{Name: FieldContent, Type: String},
		{Name: FieldTypeName, Type: String},
		{Name: FieldSource, Type: String},
		{Name: FieldImportanceScore, Type: Float},
		{Name: FieldTags, Type: StringList},
		{Name: FieldMetadata, Type: Map},
		{Name: FieldRelatedMemories, Type: StringList},
	}
}
