package testutil

// FixedRunID returns the same run id on every call, making reports from
// repeated runs byte-identical.
type FixedRunID struct {
	id string
}

// NewFixedRunID returns a generator for id, or "test-run-default" when id
// is empty.
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunID) Generate() string {
	return g.id
}
