package measure

import (
	"fmt"
	"slices"

	"measurement-migrator/internal/diagnostic"
	"measurement-migrator/internal/legacy"
	"measurement-migrator/internal/match"
)

// MalformedInputError is returned when legacy data cannot be mapped.
type MalformedInputError = legacy.MalformedInputError

// Mapper converts legacy families into PIM measurement families.
type Mapper struct {
	// LabelLocale is the locale of the generated labels. Empty disables labels.
	LabelLocale string
	sink        diagnostic.Sink
}

// NewMapper returns a Mapper reporting skipped families to sink.
func NewMapper(labelLocale string, sink diagnostic.Sink) *Mapper {
	if sink == nil {
		sink = diagnostic.Discard
	}

	return &Mapper{LabelLocale: labelLocale, sink: sink}
}

// Map converts every family in order. Families without a standard unit are
// skipped with a warning. Any malformed family or unit aborts the whole
// mapping with a *MalformedInputError; no partial result is returned.
func (m *Mapper) Map(families []legacy.Family) ([]Family, error) {
	out := make([]Family, 0, len(families))
	seen := make(map[string]int, len(families))

	for _, lf := range families {
		if lf.Code == "" {
			return nil, &MalformedInputError{Line: lf.Line, Reason: "family code is empty"}
		}

		if line, dup := seen[lf.Code]; dup {
			return nil, &MalformedInputError{
				Family: lf.Code,
				Line:   lf.Line,
				Reason: fmt.Sprintf("family code is declared twice (first at line %d)", line),
			}
		}

		seen[lf.Code] = lf.Line

		if !lf.HasStandard() {
			m.sink.Warn(fmt.Sprintf(
				`No standard key provided for measurement family "%s" (mandatory). This measurement family will be skipped`,
				lf.Code))

			continue
		}

		fam, err := m.MapFamily(lf)
		if err != nil {
			return nil, err
		}

		out = append(out, fam)
	}

	return out, nil
}

// MapFamily converts one family that declares a standard unit.
func (m *Mapper) MapFamily(lf legacy.Family) (Family, error) {
	if !lf.HasStandard() {
		return Family{}, &MalformedInputError{Family: lf.Code, Line: lf.Line, Reason: "standard unit is missing"}
	}

	fam := Family{
		Code:             lf.Code,
		Labels:           m.labels(lf.Code),
		StandardUnitCode: *lf.Standard,
		Units:            make(Units, 0, len(lf.Units)),
	}

	seen := make(map[string]struct{}, len(lf.Units))

	for _, lu := range lf.Units {
		if _, dup := seen[lu.Code]; dup {
			return Family{}, &MalformedInputError{
				Family: lf.Code,
				Unit:   lu.Code,
				Line:   lu.Line,
				Reason: "unit code is declared twice",
			}
		}

		seen[lu.Code] = struct{}{}

		unit, err := m.MapUnit(lu)
		if err != nil {
			if mErr, ok := err.(*MalformedInputError); ok {
				mErr.Family = lf.Code
			}

			return Family{}, err
		}

		fam.Units = append(fam.Units, unit)
	}

	m.checkStandardUnit(fam)

	return fam, nil
}

// checkStandardUnit warns when the standard unit is not among the declared
// units. The family is still sent; the PIM decides whether it is valid.
func (m *Mapper) checkStandardUnit(fam Family) {
	codes := fam.Units.Codes()
	if len(codes) == 0 || slices.Contains(codes, fam.StandardUnitCode) {
		return
	}

	msg := fmt.Sprintf(`Standard unit "%s" of measurement family "%s" is not one of its units`, fam.StandardUnitCode, fam.Code)

	if suggestion, ok := match.Suggest(fam.StandardUnitCode, codes, match.DefaultMinScore); ok {
		msg += fmt.Sprintf(` (did you mean "%s"?)`, suggestion)
	}

	m.sink.Warn(msg)
}

// MapUnit converts one unit. Symbol and convert_from_standard are only set
// when the legacy unit declares them.
func (m *Mapper) MapUnit(lu legacy.Unit) (Unit, error) {
	if lu.Code == "" {
		return Unit{}, &MalformedInputError{Line: lu.Line, Reason: "unit code is empty"}
	}

	if lu.Undefined {
		return Unit{}, &MalformedInputError{Unit: lu.Code, Line: lu.Line, Reason: "unit is declared without a definition"}
	}

	unit := Unit{
		Code:   lu.Code,
		Labels: m.labels(lu.Code),
	}

	if lu.Symbol != nil {
		sym := *lu.Symbol
		unit.Symbol = &sym
	}

	if len(lu.Convert) > 0 {
		unit.ConvertFromStandard = make([]Operation, 0, len(lu.Convert))
	}

	for _, op := range lu.Convert {
		if op.Operator == "" {
			return Unit{}, &MalformedInputError{Unit: lu.Code, Line: op.Line, Reason: "convert operator is empty"}
		}

		value, err := FormatOperand(op.Operand)
		if err != nil {
			return Unit{}, &MalformedInputError{
				Unit:   lu.Code,
				Line:   op.Line,
				Reason: fmt.Sprintf("convert %q: %v", op.Operator, err),
			}
		}

		unit.ConvertFromStandard = append(unit.ConvertFromStandard, Operation{
			Operator: op.Operator,
			Value:    value,
		})
	}

	return unit, nil
}

func (m *Mapper) labels(code string) Labels {
	if m.LabelLocale == "" {
		return nil
	}

	return Labels{m.LabelLocale: code}
}
