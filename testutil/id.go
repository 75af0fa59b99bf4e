package testutil

import "github.com/bruth/a11y/id"

// IDGen wraps another id.ID but remembers the next ID that will be
// generated in order to make assertions.
type IDGen struct {
	gen id.ID
	id  string
}

// New implements the id.ID interface.
func (s *IDGen) New() string {
	id := s.id
	s.id = s.gen.New()
	return id
}

// Next returns the ID the following call to New will return.
func (s *IDGen) Next() string {
	return s.id
}

func NewIDGen(gen id.ID) *IDGen {
	return &IDGen{
		gen: gen,
		id:  gen.New(),
	}
}
