package measure

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"measurement-migrator/internal/legacy"
)

// maxFractionDigits caps the fractional part of a rendered float.
const maxFractionDigits = 35

// FormatOperand renders a legacy convert operand as a canonical decimal.
// The operand's source text is used, so integers keep every digit and
// decimals keep their declared precision up to 35 fractional digits.
func FormatOperand(op legacy.Operand) (string, error) {
	switch op.Tag {
	case "!!int":
		return formatIntLiteral(op.Raw, 0)
	case "!!float", "!!str":
		return formatDecimalLiteral(op.Raw)
	default:
		return "", errors.Errorf("operand %q is not a number", op.Raw)
	}
}

// FormatNumber renders an integer or floating point value as a canonical
// decimal: FormatNumber(2) is "2", FormatNumber(1.5) is "1.5" and
// FormatNumber(3.0) is "3".
func FormatNumber(v interface{}) (string, error) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(cast.ToInt64(n), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(cast.ToUint64(n), 10), nil
	case *big.Int:
		return n.String(), nil
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return FormatFloat(n)
	default:
		return "", errors.Errorf("unsupported number type %T", v)
	}
}

// FormatFloat renders f with the shortest digits that round-trip, in plain
// notation, with at most 35 fractional digits and no trailing zeros.
func FormatFloat(f float64) (string, error) {
	return formatFloat(f, 64)
}

func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", errors.Errorf("operand %v is not a finite number", f)
	}

	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > maxFractionDigits {
		s = strconv.FormatFloat(f, 'f', maxFractionDigits, bitSize)
	}

	return trimFraction(s), nil
}

// formatIntLiteral parses an integer of any width. With base 0 it accepts
// the spellings YAML resolves as ints (sign, 0x/0o/0b prefixes, underscores).
func formatIntLiteral(raw string, base int) (string, error) {
	n, ok := new(big.Int).SetString(raw, base)
	if !ok {
		return "", errors.Errorf("invalid integer operand %q", raw)
	}

	return n.String(), nil
}

// formatDecimalLiteral renders a decimal literal such as "0.001", "2.0" or
// "1e-3" exactly, rounding past 35 fractional digits.
func formatDecimalLiteral(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if s, err := formatIntLiteral(raw, 10); err == nil {
		return s, nil
	}

	if strings.ContainsRune(raw, '/') {
		return "", errors.Errorf("operand %q is not a number", raw)
	}

	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return "", errors.Errorf("operand %q is not a finite number", raw)
	}

	return trimFraction(r.FloatString(maxFractionDigits)), nil
}

func trimFraction(s string) string {
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}

	if s == "-0" {
		s = "0"
	}

	return s
}
