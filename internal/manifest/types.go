package manifest

// Version is the manifest format version written by this package.
const Version = "1"

// File is the root of a manifest.
type File struct {
	Version   string     `yaml:"version"`
	Package   string     `yaml:"package"`
	Path      string     `yaml:"path,omitempty"`
	Dir       string     `yaml:"dir,omitempty"`
	Imports   []Import   `yaml:"imports,omitempty"`
	Providers []Provider `yaml:"providers"`

	// Filename is the file the manifest was loaded from.
	Filename string `yaml:"-"`
}

// Import makes a package available to the types and functions the
// directives name. Name defaults to the last element of the path.
type Import struct {
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
}

// Provider describes one annotated type.
type Provider struct {
	Type       string      `yaml:"type"`
	Name       string      `yaml:"name,omitempty"`
	TypeParams []TypeParam `yaml:"type_params,omitempty"`
	Provide    Directive   `yaml:"provide"`
	Fields     []Field     `yaml:"fields,omitempty"`

	line, column int
}

// TypeParam is a type parameter of the annotated type.
type TypeParam struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint"`
}

// Field is a struct field of the annotated type, in declaration order.
type Field struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Depend Directive `yaml:"depend,omitempty"`

	line, column int
}

// Directive is a provide or depend directive and where its text starts in
// the manifest.
type Directive struct {
	Text   string
	Line   int
	Column int
}

// IsZero reports whether no directive was written.
func (d Directive) IsZero() bool {
	return d.Text == ""
}
