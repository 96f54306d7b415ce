package measure

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Family is the PIM measurement family resource.
type Family struct {
	Code             string `json:"code"`
	Labels           Labels `json:"labels,omitempty"`
	StandardUnitCode string `json:"standard_unit_code"`
	Units            Units  `json:"units"`
}

// Unit is one unit of a measurement family.
type Unit struct {
	Code                string      `json:"code"`
	Labels              Labels      `json:"labels,omitempty"`
	ConvertFromStandard []Operation `json:"convert_from_standard,omitempty"`
	Symbol              *string     `json:"symbol,omitempty"`
}

// Operation is one step of a conversion chain. Value is a canonical decimal.
type Operation struct {
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Labels maps a locale code to a label.
type Labels map[string]string

// Units is an ordered list of units that encodes as a JSON object keyed by
// unit code, in list order.
type Units []Unit

// Codes returns the unit codes in order.
func (u Units) Codes() []string {
	codes := make([]string, 0, len(u))
	for _, unit := range u {
		codes = append(codes, unit.Code)
	}

	return codes
}

// MarshalJSON implements json.Marshaler. A nil list encodes as {}.
func (u Units) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, unit := range u {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(unit.Code)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode unit code %q", unit.Code)
		}

		val, err := json.Marshal(unit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode unit %q", unit.Code)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
