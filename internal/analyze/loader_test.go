package analyze

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-generator/internal/diagnostic"
)

func loadTestdata(t *testing.T, dir string) (*Result, *PackageInfo) {
	t.Helper()

	analyzer := NewAnalyzer(Config{GeneratedFilename: "provider_gen.go"})
	result, err := analyzer.LoadPackages(context.Background(), "./testdata/"+dir)
	require.NoError(t, err)
	require.Len(t, result.Packages, 1)

	return result, result.Packages[0]
}

func findType(pkg *PackageInfo, name string) *TypeInfo {
	for _, t := range pkg.Types {
		if t.ID.Name == name {
			return t
		}
	}

	return nil
}

// column returns the 1-based column of needle on the first line of file
// containing marker.
func column(t *testing.T, file, marker, needle string) (int, int) {
	t.Helper()

	b, err := os.ReadFile(file)
	require.NoError(t, err)

	for i, line := range strings.Split(string(b), "\n") {
		if strings.Contains(line, marker) {
			return i + 1, strings.Index(line, needle) + 1
		}
	}

	t.Fatalf("%q not found in %s", marker, file)

	return 0, 0
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer(Config{})
	result, err := analyzer.LoadPackages(context.Background(),
		"provider-generator/examples/service", "provider-generator/examples/basic")
	require.NoError(t, err)
	require.Len(t, result.Packages, 2)

	paths := []string{result.Packages[0].Path, result.Packages[1].Path}
	assert.ElementsMatch(t, []string{
		"provider-generator/examples/service",
		"provider-generator/examples/basic",
	}, paths)
	assert.Positive(t, result.Annotated())
}

func TestAnalyzer_AnnotatedTypes(t *testing.T) {
	result, pkg := loadTestdata(t, "bad")

	assert.Equal(t, "bad", pkg.Name)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(pkg.Dir), "testdata/bad"))

	names := []string{}
	for _, typ := range pkg.Types {
		names = append(names, typ.ID.Name)
	}

	assert.Equal(t, []string{"Tagged", "Grouped"}, names)
	assert.Equal(t, 2, result.Annotated())
}

func TestAnalyzer_Diagnostics(t *testing.T) {
	result, _ := loadTestdata(t, "bad")

	got := map[string]string{}
	for _, d := range result.Diagnostics.Errors {
		got[d.Type] = d.Code
	}

	assert.Equal(t, map[string]string{
		"NotAStruct": diagnostic.CodeNotStruct,
		"Embedded":   diagnostic.CodeUnnamedField,
		"Blank":      diagnostic.CodeUnnamedField,
		"Twice":      diagnostic.CodeDuplicateDirective,
	}, got)
	assert.Empty(t, result.Diagnostics.Warnings)
}

func TestAnalyzer_TypeDetails(t *testing.T) {
	_, pkg := loadTestdata(t, "bad")

	tagged := findType(pkg, "Tagged")
	require.NotNil(t, tagged)

	assert.Equal(t, TypeID{PkgPath: "provider-generator/internal/analyze/testdata/bad", Name: "Tagged"}, tagged.ID)
	assert.Equal(t, "provide(self, async)", tagged.Directive.Text)
	assert.Equal(t, []TypeParam{{Name: "T", Constraint: "any"}, {Name: "K", Constraint: "comparable"}}, tagged.TypeParams)
	assert.Equal(t, []Import{{Name: "time", Path: "time"}, {Name: "yaml", Path: "gopkg.in/yaml.v3"}}, tagged.Imports)

	path, ok := tagged.ImportPath("yaml")
	assert.True(t, ok)
	assert.Equal(t, "gopkg.in/yaml.v3", path)

	type row struct{ name, typ, depend string }

	rows := []row{}
	for _, f := range tagged.Fields {
		rows = append(rows, row{f.Name, f.Type, f.Depend.Text})
	}

	assert.Equal(t, []row{
		{"a", "int", "depend(default)"},
		{"b", "int", "depend(default)"},
		{"c", "time.Duration", "depend(await)"},
		{"node", "yaml.Node", ""},
		{"plain", "T", ""},
		{"keys", "map[K]T", "depend(default)"},
	}, rows)

	assert.Equal(t, "c", tagged.Fields[2].Tag.Get("json"))
}

func TestAnalyzer_Positions(t *testing.T) {
	_, pkg := loadTestdata(t, "bad")
	tagged := findType(pkg, "Tagged")
	require.NotNil(t, tagged)

	line, col := column(t, tagged.File, "//inject:provide(self, async)", "provide")
	assert.Equal(t, line, tagged.Directive.Pos.Line)
	assert.Equal(t, col, tagged.Directive.Pos.Column)

	line, col = column(t, tagged.File, "time.Duration", "depend(await)")
	assert.Equal(t, line, tagged.Fields[2].Depend.Pos.Line)
	assert.Equal(t, col, tagged.Fields[2].Depend.Pos.Column)

	line, col = column(t, tagged.File, "keys", "\"inject")
	assert.Equal(t, line, tagged.Fields[5].Depend.Pos.Line)
	assert.Equal(t, col, tagged.Fields[5].Depend.Pos.Column, "interpreted tags point at the literal")
}

func TestAnalyzer_StaleGeneratedFile(t *testing.T) {
	result, pkg := loadTestdata(t, "stale")

	require.Len(t, pkg.Types, 1, "directives in the generated file are ignored")
	assert.Equal(t, "Config", pkg.Types[0].ID.Name)

	require.NotEmpty(t, result.Diagnostics.Warnings)
	assert.Equal(t, diagnostic.CodeLoad, result.Diagnostics.Warnings[0].Code)
	assert.Contains(t, result.Diagnostics.Warnings[0].Pos.Filename, "provider_gen.go")
}

func TestAnalyzer_LoadError(t *testing.T) {
	_, err := NewAnalyzer(Config{}).LoadPackages(context.Background(), "./testdata/does-not-exist")
	require.Error(t, err)
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: "provider-generator/examples/service", Name: "ServiceImpl"}
	assert.Equal(t, "provider-generator/examples/service.ServiceImpl", id.String())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestParsePos(t *testing.T) {
	assert.Equal(t, "/a/b.go", parsePos("/a/b.go:3:7").Filename)
	assert.Equal(t, 3, parsePos("/a/b.go:3:7").Line)
	assert.Equal(t, 7, parsePos("/a/b.go:3:7").Column)
	assert.Equal(t, "-", parsePos("-").Filename)
}
