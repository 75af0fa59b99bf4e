package analytics

// Code identifies a braille translation code, such as Unified English
// Braille grade 2.
type Code string

const (
	CodeUnknown  Code = ""
	CodeEnUEB1   Code = "EN_UEB_1"
	CodeEnUEB2   Code = "EN_UEB_2"
	CodeEnNABCC  Code = "EN_NABCC"
	CodeEnComp6  Code = "EN_COMP6"
	CodeEsGrade1 Code = "SPANISH"
	CodeFrGrade1 Code = "FRENCH"
	CodeDeGrade1 Code = "GERMAN"
)

var knownCodes = map[Code]struct{}{
	CodeEnUEB1:   {},
	CodeEnUEB2:   {},
	CodeEnNABCC:  {},
	CodeEnComp6:  {},
	CodeEsGrade1: {},
	CodeFrGrade1: {},
	CodeDeGrade1: {},
}

// Valid reports whether c is a known code.
func (c Code) Valid() bool {
	_, ok := knownCodes[c]
	return ok
}

// label is used for metric labels and records; unknown codes collapse to
// "unknown" to bound label cardinality.
func (c Code) label() string {
	if !c.Valid() {
		return "unknown"
	}
	return string(c)
}
