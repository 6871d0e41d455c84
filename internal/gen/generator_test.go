package gen

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-generator/internal/analyze"
	"provider-generator/internal/plan"
)

func scenarioPlan(t *testing.T, dir string) *plan.GenerationPlan {
	t.Helper()

	pkg := &analyze.PackageInfo{
		Path: "example.com/app/service",
		Name: "service",
		Dir:  dir,
		Types: []*analyze.TypeInfo{
			{
				ID:         analyze.TypeID{PkgPath: "example.com/app/service", Name: "ServiceImpl"},
				TypeParams: []analyze.TypeParam{{Name: "Ctx", Constraint: "Context"}},
				Directive:  analyze.Annotation{Text: "provide(Service, box, fallible(error = Error), async)"},
				Fields: []analyze.FieldInfo{
					{Name: "ctx", Type: "Ctx", Depend: analyze.Annotation{Text: "depend(await, try(error = Error))"}},
					{Name: "repo", Type: "Repository[Ctx]"},
					{Name: "someString", Type: "string", Depend: analyze.Annotation{Text: "depend(default)"}},
				},
			},
			{
				ID:        analyze.TypeID{PkgPath: "example.com/app/service", Name: "Counter"},
				Directive: analyze.Annotation{Text: "provide(self)"},
				Fields: []analyze.FieldInfo{
					{Name: "n", Type: "int", Depend: analyze.Annotation{Text: "depend(default)"}},
				},
			},
		},
	}

	gp := plan.NewPlanner(plan.DefaultConfig()).Plan(pkg)
	require.False(t, gp.HasErrors(), gp.Diagnostics.Error())

	return gp
}

func TestGenerator_GeneratePackage(t *testing.T) {
	gp := scenarioPlan(t, t.TempDir())

	file, err := NewGenerator(DefaultGeneratorConfig()).GeneratePackage(gp)
	require.NoError(t, err)

	assert.Equal(t, DefaultFilename, file.Filename)
	assert.Equal(t, filepath.Join(gp.Dir, DefaultFilename), file.Path())

	code := string(file.Content)

	assert.True(t, strings.HasPrefix(code, Header+"\n\npackage service\n"))
	assert.Contains(t, code, "import (\n\t\"provider-generator/provide\"\n)\n")

	assert.Contains(t, code, "type ServiceImplProvider[M provide.Sync, Ctx Context, "+
		"R0 provide.HasProvider[M, provide.Deferred[provide.Result[Ctx, Error]]], "+
		"R1 provide.HasProvider[M, Repository[Ctx]]] struct {\n"+
		"\tCtx  R0\n"+
		"\tRepo R1\n"+
		"}\n")
	assert.Contains(t, code, "func (p ServiceImplProvider[M, Ctx, R0, R1]) Provide(module M) "+
		"provide.Deferred[provide.Result[*Service, Error]] {\n"+
		"\treturn provide.Async[provide.Result[*Service, Error]](func() provide.Result[*Service, Error] {\n"+
		"\t\tctxResult := p.Ctx.Provide(module).Await()\n"+
		"\t\tif ctxResult.IsErr() {\n"+
		"\t\t\treturn provide.Err[*Service, Error](ctxResult.UnwrapErr())\n"+
		"\t\t}\n"+
		"\t\tvar ctx Ctx = ctxResult.Unwrap()\n"+
		"\t\tvar repo Repository[Ctx] = p.Repo.Provide(module)\n"+
		"\t\tvar someString string\n")
	assert.Contains(t, code, "//   - Ctx provides provide.Deferred[provide.Result[Ctx, Error]]\n")

	assert.Contains(t, code, "type CounterProvider[M any] struct {\n}\n")
	assert.Contains(t, code, "func (p CounterProvider[M]) Provide(module M) Counter {\n"+
		"\tvar n int\n"+
		"\treturn Counter{\n"+
		"\t\tn: n,\n"+
		"\t}\n"+
		"}\n")

	_, err = parser.ParseFile(token.NewFileSet(), file.Filename, file.Content, parser.ParseComments)
	require.NoError(t, err)
}

func TestGenerator_NoComments(t *testing.T) {
	gp := scenarioPlan(t, t.TempDir())

	cfg := DefaultGeneratorConfig()
	cfg.GenerateComments = false

	file, err := NewGenerator(cfg).GeneratePackage(gp)
	require.NoError(t, err)
	assert.NotContains(t, string(file.Content), "// ServiceImplProvider")
	assert.NotContains(t, string(file.Content), "// Provide builds")
}

func TestGenerator_Generate_SkipsEmptyPlans(t *testing.T) {
	gp := scenarioPlan(t, t.TempDir())
	empty := &plan.GenerationPlan{Package: "empty", PkgPath: "example.com/empty"}

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate([]*plan.GenerationPlan{empty, gp})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "example.com/app/service", files[0].PkgPath)
}

func TestGenerator_ImportAliases(t *testing.T) {
	gp := &plan.GenerationPlan{
		Package: "clock",
		Imports: []plan.Import{
			{Alias: "opt", Path: "example.com/lib/optional"},
			{Alias: "provide", Path: plan.DefaultRuntimePath},
			{Alias: "yaml", Path: "gopkg.in/yaml.v3"},
		},
		Providers: []plan.ProviderPlan{{
			Name:       "ClockProvider",
			SelfType:   "Clock",
			Interface:  "opt.Option[Clock]",
			Module:     plan.TypeParam{Name: "M", Constraint: "any"},
			TypeParams: []plan.TypeParam{{Name: "M", Constraint: "provide.Sync"}},
			Return:     "opt.Some(Clock{})",
		}},
	}

	file, err := NewGenerator(DefaultGeneratorConfig()).GeneratePackage(gp)
	require.NoError(t, err)

	code := string(file.Content)
	assert.Contains(t, code, "\topt \"example.com/lib/optional\"\n")
	assert.Contains(t, code, "\t\"provider-generator/provide\"\n")
	assert.Contains(t, code, "\tyaml \"gopkg.in/yaml.v3\"\n")
}

func TestGenerator_UnformattableOutput(t *testing.T) {
	dir := t.TempDir()
	gp := &plan.GenerationPlan{
		Package: "broken",
		Dir:     dir,
		Providers: []plan.ProviderPlan{{
			Name:       "BrokenProvider",
			Interface:  "Broken",
			Module:     plan.TypeParam{Name: "M", Constraint: "any"},
			TypeParams: []plan.TypeParam{{Name: "M", Constraint: "any"}},
			Return:     "Broken{(",
		}},
	}

	file, err := NewGenerator(DefaultGeneratorConfig()).GeneratePackage(gp)
	require.Error(t, err)
	require.NotNil(t, file)
	assert.Contains(t, string(file.Content), "return Broken{(")

	sidecar, readErr := os.ReadFile(filepath.Join(dir, "provider_gen.unformatted.go"))
	require.NoError(t, readErr)
	assert.True(t, strings.HasPrefix(string(sidecar), "//go:build ignore\n"))
}

func TestWriteFiles(t *testing.T) {
	root := t.TempDir()
	files := []GeneratedFile{
		{Dir: filepath.Join(root, "a"), Filename: DefaultFilename, Content: []byte("package a\n")},
		{Dir: filepath.Join(root, "b", "c"), Filename: DefaultFilename, Content: []byte("package c\n")},
	}

	require.NoError(t, WriteFiles(context.Background(), files))

	for _, f := range files {
		b, err := os.ReadFile(f.Path())
		require.NoError(t, err)
		assert.Equal(t, f.Content, b)

		info, err := os.Stat(f.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
	}
}

func TestWriteFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WriteFiles(ctx, []GeneratedFile{{Dir: t.TempDir(), Filename: "x.go"}})
	require.ErrorIs(t, err, context.Canceled)
}
