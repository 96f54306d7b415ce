package measure

import (
	"encoding/json"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"measurement-migrator/internal/diagnostic"
	"measurement-migrator/internal/legacy"
)

const mapperYAML = `
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
  NoStandard:
    units:
      FOO:
        symbol: f
  Bare:
    standard: ITEM
`

func parse(t *testing.T, src string) *legacy.Document {
	t.Helper()

	doc, err := legacy.Parse([]byte(src))
	require.NoError(t, err)

	return doc
}

func TestMap(t *testing.T) {
	var diags diagnostic.Diagnostics

	doc := parse(t, mapperYAML)

	families, err := NewMapper("en_US", &diags).Map(doc.Families)
	require.NoError(t, err)
	require.Len(t, families, 2, spew.Sdump(families))

	length := families[0]
	assert.Equal(t, "Length", length.Code)
	assert.Equal(t, Labels{"en_US": "Length"}, length.Labels)
	assert.Equal(t, "METER", length.StandardUnitCode)
	assert.Equal(t, []string{"MILLIMETER", "METER", "INCH"}, length.Units.Codes())

	mm := length.Units[0]
	require.NotNil(t, mm.Symbol)
	assert.Equal(t, "mm", *mm.Symbol)
	assert.Equal(t, Labels{"en_US": "MILLIMETER"}, mm.Labels)
	assert.Equal(t, []Operation{{Operator: "mul", Value: "0.001"}}, mm.ConvertFromStandard)

	inch := length.Units[2]
	assert.Nil(t, inch.Symbol)
	assert.Equal(t, []Operation{
		{Operator: "mul", Value: "254"},
		{Operator: "div", Value: "10000"},
	}, inch.ConvertFromStandard)

	bare := families[1]
	assert.Equal(t, "Bare", bare.Code)
	assert.Equal(t, "ITEM", bare.StandardUnitCode)
	assert.NotNil(t, bare.Units)
	assert.Empty(t, bare.Units)

	require.Len(t, diags.Warnings(), 1)
	assert.Equal(t,
		`No standard key provided for measurement family "NoStandard" (mandatory). This measurement family will be skipped`,
		diags.Warnings()[0].Message)
	assert.False(t, diags.HasErrors())
}

func TestMapSkipsEveryFamilyWithoutStandard(t *testing.T) {
	var diags diagnostic.Diagnostics

	doc := parse(t, `
measures_config:
  A: {units: {X: {symbol: x}}}
  B: ~
  C: {standard: C1}
  D: {}
`)

	families, err := NewMapper("", &diags).Map(doc.Families)
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "C", families[0].Code)
	assert.Len(t, diags.Warnings(), 3)

	for _, f := range families {
		assert.NotEmpty(t, f.StandardUnitCode)
	}
}

func TestMapWithoutLabelLocale(t *testing.T) {
	doc := parse(t, mapperYAML)

	families, err := NewMapper("", nil).Map(doc.Families)
	require.NoError(t, err)

	assert.Nil(t, families[0].Labels)
	assert.Nil(t, families[0].Units[0].Labels)
}

func TestMapIsDeterministic(t *testing.T) {
	doc := parse(t, mapperYAML)
	m := NewMapper("en_US", nil)

	first, err := m.Map(doc.Families)
	require.NoError(t, err)

	second, err := m.Map(doc.Families)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)

	b, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
}

func TestMapPreservesConvertLengthAndOrder(t *testing.T) {
	doc := parse(t, `
measures_config:
  Temperature:
    standard: KELVIN
    units:
      FAHRENHEIT:
        convert:
          - sub: 32
          - div: 1.8
          - add: 273.15
`)

	families, err := NewMapper("en_US", nil).Map(doc.Families)
	require.NoError(t, err)

	src := doc.Families[0].Units[0].Convert
	dst := families[0].Units[0].ConvertFromStandard
	require.Len(t, dst, len(src))

	for i := range src {
		assert.Equal(t, src[i].Operator, dst[i].Operator)
	}

	assert.Equal(t, []string{"32", "1.8", "273.15"}, []string{dst[0].Value, dst[1].Value, dst[2].Value})
}

func TestMapMalformed(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		family string
		unit   string
		reason string
	}{
		{
			name:   "unit without definition",
			yaml:   "measures_config:\n  Length:\n    standard: M\n    units:\n      M:\n",
			family: "Length",
			unit:   "M",
			reason: "without a definition",
		},
		{
			name:   "non numeric operand",
			yaml:   "measures_config:\n  Length:\n    standard: M\n    units:\n      M: {convert: [{mul: abc}]}\n",
			family: "Length",
			unit:   "M",
			reason: `convert "mul"`,
		},
		{
			name:   "duplicate unit",
			yaml:   "measures_config:\n  Length:\n    standard: M\n    units:\n      M: {symbol: m}\n      M: {symbol: m2}\n",
			family: "Length",
			unit:   "M",
			reason: "declared twice",
		},
		{
			name:   "duplicate family",
			yaml:   "measures_config:\n  Length: {standard: M}\n  Length: {standard: M}\n",
			family: "Length",
			reason: "declared twice",
		},
		{
			name:   "empty operator",
			yaml:   "measures_config:\n  Length:\n    standard: M\n    units:\n      M: {convert: [{'': 1}]}\n",
			family: "Length",
			unit:   "M",
			reason: "operator is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.yaml)

			families, err := NewMapper("en_US", nil).Map(doc.Families)
			require.Error(t, err)
			assert.Nil(t, families)

			var mErr *MalformedInputError
			require.True(t, errors.As(err, &mErr), "got %v", err)
			assert.Equal(t, tt.family, mErr.Family)
			assert.Equal(t, tt.unit, mErr.Unit)
			assert.Contains(t, mErr.Reason, tt.reason)
		})
	}
}

func TestMapFamilyRequiresStandard(t *testing.T) {
	_, err := NewMapper("", nil).MapFamily(legacy.Family{Code: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard unit is missing")
}

func TestMapEmpty(t *testing.T) {
	families, err := NewMapper("en_US", nil).Map(nil)
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestMapWarnsOnUndeclaredStandardUnit(t *testing.T) {
	var diags diagnostic.Diagnostics

	doc := parse(t, `
measures_config:
  Length:
    standard: METERS
    units:
      MILLIMETER: {convert: [{mul: 0.001}]}
      METER: {convert: [{mul: 1}]}
  Weight:
    standard: GRAM
    units:
      TON: {convert: [{mul: 1000000}]}
`)

	families, err := NewMapper("en_US", &diags).Map(doc.Families)
	require.NoError(t, err)
	require.Len(t, families, 2)
	assert.Equal(t, "METERS", families[0].StandardUnitCode)

	assert.Equal(t, []string{
		`Standard unit "METERS" of measurement family "Length" is not one of its units (did you mean "METER"?)`,
		`Standard unit "GRAM" of measurement family "Weight" is not one of its units`,
	}, diags.Messages())
}
