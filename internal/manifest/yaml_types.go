package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML records where the directive text starts. The column is
// moved past an opening quote.
func (d *Directive) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a directive string, got %v", node.Line, kindName(node.Kind))
	}

	d.Text = node.Value
	d.Line = node.Line
	d.Column = node.Column

	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		d.Column++
	}

	return nil
}

// MarshalYAML writes the directive as a plain string.
func (d Directive) MarshalYAML() (any, error) {
	return d.Text, nil
}

// UnmarshalYAML decodes a provider and records its position.
func (p *Provider) UnmarshalYAML(node *yaml.Node) error {
	type plain Provider

	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}

	p.line, p.column = node.Line, node.Column

	return nil
}

// UnmarshalYAML decodes a field and records its position.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	type plain Field

	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}

	f.line, f.column = node.Line, node.Column

	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
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
		return "unknown"
	}
}
