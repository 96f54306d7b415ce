package legacy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
measures_config:
  Length:
    standard: METER
    units:
      MILLIMETER:
        convert: [{mul: 0.001}]
        symbol: mm
      METER:
        convert: [{mul: 1}]
        symbol: m
      INCH:
        convert:
          - mul: 254
          - div: 10000
        symbol: in
  Temperature:
    standard: KELVIN
    units:
      CELSIUS:
        convert: [{add: 273.15}]
        symbol: "°C"
      KELVIN:
        symbol: K
  NoStandard:
    units:
      FOO:
        symbol: f
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, []string{"Length", "Temperature", "NoStandard"}, doc.FamilyCodes())

	length := doc.Families[0]
	require.True(t, length.HasStandard())
	assert.Equal(t, "METER", *length.Standard)
	assert.Equal(t, 3, length.Line)

	require.Len(t, length.Units, 3)
	assert.Equal(t, "MILLIMETER", length.Units[0].Code)
	assert.Equal(t, "METER", length.Units[1].Code)
	assert.Equal(t, "INCH", length.Units[2].Code)

	mm := length.Units[0]
	require.NotNil(t, mm.Symbol)
	assert.Equal(t, "mm", *mm.Symbol)
	require.Len(t, mm.Convert, 1)
	assert.Equal(t, "mul", mm.Convert[0].Operator)
	assert.Equal(t, Operand{Tag: "!!float", Raw: "0.001"}, mm.Convert[0].Operand)

	inch := length.Units[2]
	require.Len(t, inch.Convert, 2)
	assert.Equal(t, "mul", inch.Convert[0].Operator)
	assert.Equal(t, Operand{Tag: "!!int", Raw: "254"}, inch.Convert[0].Operand)
	assert.Equal(t, "div", inch.Convert[1].Operator)

	kelvin := doc.Families[1].Units[1]
	assert.Empty(t, kelvin.Convert)
	assert.Equal(t, "K", *kelvin.Symbol)

	assert.False(t, doc.Families[2].HasStandard())
}

func TestParseKeepsOperatorOrderInsideOneEntry(t *testing.T) {
	doc, err := Parse([]byte(`
measures_config:
  Volume:
    standard: LITER
    units:
      PINT:
        convert: [{mul: 473, div: 1000, sub: 0}]
`))
	require.NoError(t, err)

	conv := doc.Families[0].Units[0].Convert
	require.Len(t, conv, 3)
	assert.Equal(t, "mul", conv[0].Operator)
	assert.Equal(t, "div", conv[1].Operator)
	assert.Equal(t, "sub", conv[2].Operator)
}

func TestParseCoercesScalarKeysAndValues(t *testing.T) {
	doc, err := Parse([]byte(`
measures_config:
  100:
    standard: 1
    units:
      1:
        symbol: 2
`))
	require.NoError(t, err)

	fam := doc.Families[0]
	assert.Equal(t, "100", fam.Code)
	assert.Equal(t, "1", *fam.Standard)
	assert.Equal(t, "1", fam.Units[0].Code)
	assert.Equal(t, "2", *fam.Units[0].Symbol)
}

func TestParseNullsAndAliases(t *testing.T) {
	doc, err := Parse([]byte(`
measures_config:
  Empty: ~
  Alias:
    standard: &std GRAM
    units:
      GRAM: &gram
        symbol: g
        convert: [{mul: 1}]
      OTHER: *gram
      UNDEF:
  Ref:
    standard: *std
    units: ~
`))
	require.NoError(t, err)
	require.Len(t, doc.Families, 3)

	assert.Equal(t, "Empty", doc.Families[0].Code)
	assert.False(t, doc.Families[0].HasStandard())
	assert.Empty(t, doc.Families[0].Units)

	units := doc.Families[1].Units
	require.Len(t, units, 3)
	assert.Equal(t, "g", *units[1].Symbol)
	assert.Len(t, units[1].Convert, 1)
	assert.True(t, units[2].Undefined)

	assert.Equal(t, "GRAM", *doc.Families[2].Standard)
	assert.Empty(t, doc.Families[2].Units)
}

func TestParseNullRoot(t *testing.T) {
	doc, err := Parse([]byte("measures_config: ~\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Families)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		family string
		unit   string
		reason string
	}{
		{
			name:   "root is a sequence",
			yaml:   "- a\n- b\n",
			reason: "document must be a mapping",
		},
		{
			name:   "missing root key",
			yaml:   "other: {}\n",
			reason: `missing "measures_config" key`,
		},
		{
			name:   "families is a list",
			yaml:   "measures_config: [a, b]\n",
			reason: "must be a mapping of family codes",
		},
		{
			name:   "family is a scalar",
			yaml:   "measures_config:\n  Length: meter\n",
			family: "Length",
			reason: "family definition must be a mapping",
		},
		{
			name:   "units is a list",
			yaml:   "measures_config:\n  Length:\n    standard: M\n    units: [M]\n",
			family: "Length",
			reason: "units must be a mapping",
		},
		{
			name:   "unit is a list",
			yaml:   "measures_config:\n  Length:\n    units:\n      M: [1]\n",
			family: "Length",
			unit:   "M",
			reason: "unit definition must be a mapping",
		},
		{
			name:   "convert is a mapping",
			yaml:   "measures_config:\n  Length:\n    units:\n      M:\n        convert: {mul: 1}\n",
			family: "Length",
			unit:   "M",
			reason: "convert must be a sequence",
		},
		{
			name:   "convert entry is a scalar",
			yaml:   "measures_config:\n  Length:\n    units:\n      M:\n        convert: [mul]\n",
			family: "Length",
			unit:   "M",
			reason: "convert entry must be a mapping",
		},
		{
			name:   "operand is a list",
			yaml:   "measures_config:\n  Length:\n    units:\n      M:\n        convert: [{mul: [1]}]\n",
			family: "Length",
			unit:   "M",
			reason: "must be scalars",
		},
		{
			name:   "standard is a mapping",
			yaml:   "measures_config:\n  Length:\n    standard: {a: b}\n",
			family: "Length",
			reason: "standard must be a scalar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var mErr *MalformedInputError
			require.True(t, errors.As(err, &mErr), "expected MalformedInputError, got %v", err)
			assert.Equal(t, tt.family, mErr.Family)
			assert.Equal(t, tt.unit, mErr.Unit)
			assert.Contains(t, mErr.Reason, tt.reason)
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("measures_config: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse measurement YAML")

	_, err = Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measure.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Families, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read measurement file")
}

func TestMalformedInputErrorMessage(t *testing.T) {
	err := &MalformedInputError{Family: "Length", Unit: "M", Line: 4, Reason: "boom"}
	assert.Equal(t, `malformed measurement configuration at family "Length", unit "M" (line 4): boom`, err.Error())

	err = &MalformedInputError{Reason: "boom"}
	assert.Equal(t, "malformed measurement configuration: boom", err.Error())
}
