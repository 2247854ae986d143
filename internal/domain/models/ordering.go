package models

// Kind names of the ordered entities.
const (
	KindChapter = "chapter"
	KindModule  = "module"
	KindVideo   = "video"
)

// EntityKind describes how one kind of ordered entity is stored and addressed.
//
// OrdinalBase is the ordinal given to the first entity of a collection. Chapters
// are 1-based while modules and videos are 0-based; the value lives here so that
// every caller reads it from one place.
type EntityKind struct {
	Name           string `yaml:"name" json:"name"`
	Table          string `yaml:"table" json:"table"`
	ParentColumn   string `yaml:"parent_column" json:"parent_column"`
	IDsField       string `yaml:"ids_field" json:"ids_field"`
	ParentField    string `yaml:"parent_field,omitempty" json:"parent_field,omitempty"`
	ParentRequired bool   `yaml:"parent_required" json:"parent_required"`
	OrdinalBase    int    `yaml:"ordinal_base" json:"ordinal_base"`
}

// OrdinalAt returns the ordinal for the entity at the 0-indexed position.
func (k *EntityKind) OrdinalAt(position int) int {
	return k.OrdinalBase + position
}

// ReorderRequest is the caller-supplied total order over one parent collection.
type ReorderRequest struct {
	IDs      []string
	ParentID string
}

// OrdinalAssignment is one (entity, new ordinal) pair of a reorder.
type OrdinalAssignment struct {
	ID    string
	Order int
}

// AssignOrdinals ranks ids in the given order using the kind's ordinal base.
func AssignOrdinals(kind *EntityKind, ids []string) []OrdinalAssignment {
	assignments := make([]OrdinalAssignment, len(ids))
	for i, id := range ids {
		assignments[i] = OrdinalAssignment{ID: id, Order: kind.OrdinalAt(i)}
	}
	return assignments
}
