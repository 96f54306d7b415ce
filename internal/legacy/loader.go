package legacy

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RootKey is the top-level key holding the family definitions.
const RootKey = "measures_config"

// LoadFile loads and parses a legacy measurement file from the given path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read measurement file %s", path)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load measurement file %s", path)
	}

	return doc, nil
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node

	err := yaml.Unmarshal(data, &root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse measurement YAML")
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("measurement YAML is empty")
	}

	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, malformed("", "", top.Line, "document must be a mapping, got %s", kindName(top))
	}

	cfg := lookup(top, RootKey)
	if cfg == nil {
		return nil, malformed("", "", top.Line, "missing %q key", RootKey)
	}

	families, err := parseFamilies(cfg)
	if err != nil {
		return nil, err
	}

	return &Document{Families: families}, nil
}

func parseFamilies(node *yaml.Node) ([]Family, error) {
	if isNull(node) {
		return nil, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, malformed("", "", node.Line, "%s must be a mapping of family codes, got %s", RootKey, kindName(node))
	}

	families := make([]Family, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := resolve(node.Content[i]), resolve(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, malformed("", "", key.Line, "family code must be a scalar, got %s", kindName(key))
		}

		fam, err := parseFamily(key.Value, key.Line, val)
		if err != nil {
			return nil, err
		}

		families = append(families, fam)
	}

	return families, nil
}

func parseFamily(code string, line int, node *yaml.Node) (Family, error) {
	fam := Family{Code: code, Line: line}

	if isNull(node) {
		return fam, nil
	}

	if node.Kind != yaml.MappingNode {
		return fam, malformed(code, "", node.Line, "family definition must be a mapping, got %s", kindName(node))
	}

	if std := lookup(node, "standard"); std != nil && !isNull(std) {
		if std.Kind != yaml.ScalarNode {
			return fam, malformed(code, "", std.Line, "standard must be a scalar, got %s", kindName(std))
		}

		v := std.Value
		fam.Standard = &v
	}

	units := lookup(node, "units")
	if units == nil || isNull(units) {
		return fam, nil
	}

	if units.Kind != yaml.MappingNode {
		return fam, malformed(code, "", units.Line, "units must be a mapping of unit codes, got %s", kindName(units))
	}

	for i := 0; i+1 < len(units.Content); i += 2 {
		key, val := resolve(units.Content[i]), resolve(units.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fam, malformed(code, "", key.Line, "unit code must be a scalar, got %s", kindName(key))
		}

		unit, err := parseUnit(code, key.Value, key.Line, val)
		if err != nil {
			return fam, err
		}

		fam.Units = append(fam.Units, unit)
	}

	return fam, nil
}

func parseUnit(family, code string, line int, node *yaml.Node) (Unit, error) {
	unit := Unit{Code: code, Line: line}

	if isNull(node) {
		unit.Undefined = true
		return unit, nil
	}

	if node.Kind != yaml.MappingNode {
		return unit, malformed(family, code, node.Line, "unit definition must be a mapping, got %s", kindName(node))
	}

	if sym := lookup(node, "symbol"); sym != nil && !isNull(sym) {
		if sym.Kind != yaml.ScalarNode {
			return unit, malformed(family, code, sym.Line, "symbol must be a scalar, got %s", kindName(sym))
		}

		v := sym.Value
		unit.Symbol = &v
	}

	conv := lookup(node, "convert")
	if conv == nil || isNull(conv) {
		return unit, nil
	}

	if conv.Kind != yaml.SequenceNode {
		return unit, malformed(family, code, conv.Line, "convert must be a sequence, got %s", kindName(conv))
	}

	for _, item := range conv.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode {
			return unit, malformed(family, code, item.Line, "convert entry must be a mapping like {mul: 1000}, got %s", kindName(item))
		}

		// The legacy format allows several operators in one entry; their
		// order in the entry is kept.
		for i := 0; i+1 < len(item.Content); i += 2 {
			op, operand := resolve(item.Content[i]), resolve(item.Content[i+1])
			if op.Kind != yaml.ScalarNode || operand.Kind != yaml.ScalarNode {
				return unit, malformed(family, code, op.Line, "convert operator and operand must be scalars")
			}

			unit.Convert = append(unit.Convert, Operation{
				Operator: op.Value,
				Operand:  Operand{Tag: operand.ShortTag(), Raw: operand.Value},
				Line:     op.Line,
			})
		}
	}

	return unit, nil
}

// lookup returns the value node for key in a mapping node, or nil.
func lookup(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := resolve(node.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return resolve(node.Content[i+1])
		}
	}

	return nil
}

// resolve follows aliases to their anchored node.
func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
