package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"text/template"

	"provider-generator/internal/common"
	"provider-generator/internal/plan"
)

// Header starts every generated file.
const Header = "// Code generated by provider-generator. DO NOT EDIT."

// DefaultFilename is the name of the generated file in each package.
const DefaultFilename = "provider_gen.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Filename is the name of the file generated in each package.
	Filename string
	// GenerateComments enables doc comments on generated providers.
	GenerateComments bool
	// DebugUnformatted writes output that fails to format next to the
	// intended file, for inspection.
	DebugUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:         DefaultFilename,
		GenerateComments: true,
		DebugUnformatted: true,
	}
}

// Generator renders generation plans to Go source.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Filename == "" {
		config.Filename = DefaultFilename
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the package directory the file belongs to.
	Dir string
	// Filename is the name of the file (e.g., "provider_gen.go").
	Filename string
	// PkgPath is the import path of the package.
	PkgPath string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the full path of the file.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders one file per plan. Plans without providers produce no
// file.
func (g *Generator) Generate(plans []*plan.GenerationPlan) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for _, p := range plans {
		if len(p.Providers) == 0 {
			continue
		}

		file, err := g.GeneratePackage(p)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", p.PkgPath, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// GeneratePackage renders the generated file of one package.
func (g *Generator) GeneratePackage(p *plan.GenerationPlan) (*GeneratedFile, error) {
	data := g.buildTemplateData(p)

	var buf bytes.Buffer
	if err := providerTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	file := &GeneratedFile{
		Dir:      p.Dir,
		Filename: g.config.Filename,
		PkgPath:  p.PkgPath,
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.DebugUnformatted {
			_ = writeDebugUnformatted(p.Dir, file.Filename, buf.Bytes())
		}

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w", err)
	}

	file.Content = formatted

	return file, nil
}

type templateData struct {
	Header    string
	Package   string
	Imports   []importSpec
	Providers []providerData
	Comments  bool
}

type importSpec struct {
	Alias string
	Path  string
}

type providerData struct {
	plan.ProviderPlan

	Params string
	Args   string
}

func (g *Generator) buildTemplateData(p *plan.GenerationPlan) *templateData {
	data := &templateData{
		Header:   Header,
		Package:  p.Package,
		Comments: g.config.GenerateComments,
	}

	for _, imp := range p.Imports {
		spec := importSpec{Path: imp.Path}
		if imp.Alias != common.PkgAlias(imp.Path) {
			spec.Alias = imp.Alias
		}

		data.Imports = append(data.Imports, spec)
	}

	for _, pp := range p.Providers {
		data.Providers = append(data.Providers, providerData{
			ProviderPlan: pp,
			Params:       pp.TypeParamList(),
			Args:         pp.TypeArgs(),
		})
	}

	return data
}

var providerTemplate = template.Must(template.New("provider").Parse(`{{.Header}}

package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}{{$comments := .Comments}}{{range .Providers}}
{{if $comments}}// {{.Name}} provides {{.Interface}} built from {{.SelfType}}.
{{if .Resolvers}}// Each field resolves one dependency from the module:
//
{{range .Resolvers}}//   - {{.Field}} provides {{.Lookup}}
{{end}}{{end}}{{end}}type {{.Name}}{{.Params}} struct {
{{range .Resolvers}}	{{.Field}} {{.Param}}
{{end}}}
{{if $comments}}
// Provide builds the value from the dependencies module resolves.
{{end}}func (p {{.Name}}{{.Args}}) Provide(module {{.Module.Name}}) {{.Interface}} {
{{range .Stmts}}{{.}}
{{end}}return {{.Return}}
}
{{end}}`))
