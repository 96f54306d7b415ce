package legacy

// Document is a decoded legacy measurement configuration.
type Document struct {
	Families []Family
}

// Family is one legacy measurement family. Code comes from the mapping key.
type Family struct {
	Code string
	// Standard is the code of the reference unit, nil when not declared.
	Standard *string
	Units    []Unit
	// Line is the 1-based line of the family key in the source file.
	Line int
}

// HasStandard reports whether the family declares a standard unit.
func (f Family) HasStandard() bool {
	return f.Standard != nil
}

// Unit is one legacy unit. Code comes from the mapping key.
type Unit struct {
	Code string
	// Symbol is nil when the unit does not declare one.
	Symbol  *string
	Convert []Operation
	// Undefined is set when the unit code is declared with no value.
	Undefined bool
	Line      int
}

// Operation is one {operator: operand} step of a convert chain.
type Operation struct {
	Operator string
	Operand  Operand
	Line     int
}

// Operand keeps an operand as written: its resolved YAML tag ("!!int",
// "!!float", "!!str", ...) and raw scalar text.
type Operand struct {
	Tag string
	Raw string
}

// FamilyCodes returns the family codes in document order.
func (d *Document) FamilyCodes() []string {
	codes := make([]string, 0, len(d.Families))
	for _, f := range d.Families {
		codes = append(codes, f.Code)
	}

	return codes
}
