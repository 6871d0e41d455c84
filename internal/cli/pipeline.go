package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"provider-generator/internal/analyze"
	"provider-generator/internal/config"
	"provider-generator/internal/diagnostic"
	"provider-generator/internal/gen"
	"provider-generator/internal/logger"
	"provider-generator/internal/manifest"
	"provider-generator/internal/plan"
)

// ErrStale is returned by check when a generated file is missing or out of
// date.
var ErrStale = errors.New("generated files are out of date")

// pipeline runs the analyze, plan and generate stages for one
// configuration.
type pipeline struct {
	cfg *config.Config
	log logger.Logger
}

// run is the outcome of the analyze and plan stages.
type run struct {
	Result      *analyze.Result
	Plans       []*plan.GenerationPlan
	Diagnostics diagnostic.Diagnostics
}

// Providers counts the planned providers.
func (r *run) Providers() int {
	n := 0
	for _, p := range r.Plans {
		n += len(p.Providers)
	}

	return n
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg := configFromContext(ctx)

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return &pipeline{cfg: cfg, log: logger.FromContext(ctx)}, nil
}

// analyze loads the annotated types from source or from the manifest.
func (p *pipeline) analyze(ctx context.Context) (*analyze.Result, error) {
	if p.cfg.Manifest != "" {
		return p.fromManifest()
	}

	a := analyze.NewAnalyzer(analyze.Config{
		Dir:               p.cfg.Dir,
		BuildTags:         p.cfg.BuildTags,
		GeneratedFilename: p.cfg.Output,
	})

	result, err := a.LoadPackages(ctx, p.cfg.Patterns...)
	if err != nil {
		return nil, err
	}

	result.Packages = p.filter(result.Packages)

	p.log.Debug("Packages analyzed", "packages", len(result.Packages), "annotated", result.Annotated())

	return result, nil
}

func (p *pipeline) manifestPath() string {
	if filepath.IsAbs(p.cfg.Manifest) {
		return p.cfg.Manifest
	}

	return filepath.Join(p.cfg.Dir, p.cfg.Manifest)
}

func (p *pipeline) fromManifest() (*analyze.Result, error) {
	f, err := manifest.LoadFile(p.manifestPath())
	if err != nil {
		return nil, err
	}

	result := &analyze.Result{Diagnostics: manifest.Validate(f, nil)}
	if !result.Diagnostics.HasErrors() {
		result.Packages = []*analyze.PackageInfo{manifest.ToAnalysis(f)}
	}

	return result, nil
}

// filter drops the packages matched by an exclude pattern. Patterns are
// matched against the package directory relative to Dir and against the
// import path.
func (p *pipeline) filter(pkgs []*analyze.PackageInfo) []*analyze.PackageInfo {
	if len(p.cfg.Exclude) == 0 {
		return pkgs
	}

	base, err := filepath.Abs(p.cfg.Dir)
	if err != nil {
		base = p.cfg.Dir
	}

	kept := pkgs[:0]
	for _, pkg := range pkgs {
		if p.excluded(base, pkg) {
			p.log.Debug("Skipping excluded package", "package", pkg.Path)
			continue
		}

		kept = append(kept, pkg)
	}

	return kept
}

func (p *pipeline) excluded(base string, pkg *analyze.PackageInfo) bool {
	rel, err := filepath.Rel(base, pkg.Dir)
	if err != nil {
		rel = pkg.Dir
	}

	rel = filepath.ToSlash(rel)

	for _, pattern := range p.cfg.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}

		if ok, err := doublestar.Match(pattern, pkg.Path); err == nil && ok {
			return true
		}
	}

	return false
}

// plan runs the analyze and plan stages.
func (p *pipeline) plan(ctx context.Context) (*run, error) {
	result, err := p.analyze(ctx)
	if err != nil {
		return nil, err
	}

	r := &run{
		Result: result,
		Plans:  plan.NewPlanner(p.cfg.PlanConfig()).PlanAll(result),
	}

	r.Diagnostics.Merge(result.Diagnostics)
	for _, gp := range r.Plans {
		r.Diagnostics.Merge(gp.Diagnostics)
	}

	return r, nil
}

// failed reports whether diagnostics stop the run. Strict mode promotes
// warnings.
func (p *pipeline) failed(d diagnostic.Diagnostics) bool {
	return d.HasErrors() || (p.cfg.Strict && len(d.Warnings) > 0)
}

// render plans and renders, refusing to render when diagnostics fail the run.
func (p *pipeline) render(ctx context.Context, w io.Writer) (*run, []gen.GeneratedFile, error) {
	r, err := p.plan(ctx)
	if err != nil {
		return nil, nil, err
	}

	report(w, r.Diagnostics)

	if p.failed(r.Diagnostics) {
		return r, nil, ErrDiagnostics
	}

	files, err := gen.NewGenerator(p.cfg.GeneratorConfig()).Generate(r.Plans)
	if err != nil {
		return r, nil, err
	}

	return r, files, nil
}

// generate renders and writes, or prints in dry-run mode.
func (p *pipeline) generate(ctx context.Context, out, errOut io.Writer) error {
	r, files, err := p.render(ctx, errOut)
	if err != nil {
		return err
	}

	if p.cfg.DryRun {
		for _, f := range files {
			fmt.Fprintf(out, "// ==> %s\n%s", f.Path(), f.Content)
		}

		return nil
	}

	if err := gen.WriteFiles(ctx, files); err != nil {
		return err
	}

	p.log.Info("Generated providers", "providers", r.Providers(), "files", len(files))

	return nil
}

// stale lists the generated files whose content differs from disk.
func stale(files []gen.GeneratedFile) ([]string, error) {
	var out []string

	for _, f := range files {
		existing, err := os.ReadFile(f.Path())
		if errors.Is(err, os.ErrNotExist) {
			out = append(out, f.Path())
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Path(), err)
		}

		if !bytes.Equal(existing, f.Content) {
			out = append(out, f.Path())
		}
	}

	return out, nil
}

// report prints diagnostics one per line, ordered by position.
func report(w io.Writer, d diagnostic.Diagnostics) {
	for _, diag := range d.All() {
		fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag)
	}
}
