package plan

import (
	"strconv"
	"strings"

	"provider-generator/internal/analyze"
	"provider-generator/internal/common"
	"provider-generator/internal/compose"
	"provider-generator/internal/diagnostic"
)

// Planner turns analyzed packages into generation plans.
type Planner struct {
	config Config
}

// NewPlanner creates a new Planner.
func NewPlanner(config Config) *Planner {
	return &Planner{config: config}
}

// PlanAll plans every package of an analysis result. Packages without
// annotated types are skipped.
func (p *Planner) PlanAll(result *analyze.Result) []*GenerationPlan {
	plans := make([]*GenerationPlan, 0, len(result.Packages))
	for _, pkg := range result.Packages {
		if len(pkg.Types) == 0 {
			continue
		}

		plans = append(plans, p.Plan(pkg))
	}

	return plans
}

// Plan builds the generation plan of one package. A type whose directives
// are malformed is reported and left out; the others are still planned.
func (p *Planner) Plan(pkg *analyze.PackageInfo) *GenerationPlan {
	gp := &GenerationPlan{
		Package: pkg.Name,
		PkgPath: pkg.Path,
		Dir:     pkg.Dir,
	}

	imports := newImportSet()

	var parsed []parsedType

	for _, t := range pkg.Types {
		pt, diags := parseType(t)
		if !diags.HasErrors() {
			diags.Merge(imports.resolve(pt))
		}

		gp.Diagnostics.Merge(diags)

		if diags.HasErrors() {
			continue
		}

		parsed = append(parsed, pt)
	}

	alias := imports.runtimeAlias(p.config.RuntimeAlias, p.config.RuntimePath, typeParamNames(parsed))
	usesRuntime := false

	for _, pt := range parsed {
		provider, used, diags := p.planProvider(pt, alias)
		gp.Diagnostics.Merge(diags)

		if diags.HasErrors() {
			continue
		}

		usesRuntime = usesRuntime || used
		gp.Providers = append(gp.Providers, provider)
	}

	if usesRuntime {
		// alias is free for the runtime path by construction
		_ = imports.add(alias, p.config.RuntimePath)
	}

	gp.Imports = imports.list()

	return gp
}

// planProvider composes the provider of one type. It reports whether the
// provider refers to the runtime package.
func (p *Planner) planProvider(pt parsedType, rt string) (ProviderPlan, bool, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	t := pt.info
	texts := sourceTexts(pt)

	names := common.NewNamer("p", "module", rt)
	for _, imp := range t.Imports {
		names.Reserve(imp.Name)
	}

	for _, id := range identifiers(texts) {
		names.Reserve(id)
	}

	names.Reserve(t.ID.Name)

	own := make([]string, 0, len(t.TypeParams))
	for _, tp := range t.TypeParams {
		names.Reserve(tp.Name)
		own = append(own, tp.Name)
	}

	comp := compose.New(rt, names)

	self := t.ID.Name
	if len(own) > 0 {
		self += "[" + strings.Join(own, ", ") + "]"
	}

	target := self
	if !pt.spec.Target.Self {
		target = pt.spec.Target.Type
	}

	provider := ProviderPlan{
		Name:      t.ProviderName,
		Source:    t.ID,
		Spec:      pt.spec,
		SelfType:  self,
		Interface: comp.Interface(target, pt.spec.Options),
		Module:    TypeParam{Name: names.Fresh("M")},
	}

	if provider.Name == "" {
		provider.Name = t.ID.Name + p.config.ProviderSuffix
	}

	scope := comp.BindingScope(target, pt.spec.Options)
	fields := common.NewNamer("Provide")

	var (
		body   []string
		keys   []string
		locals []string
	)

	for _, f := range pt.fields {
		local := names.Fresh(f.Name)

		var query string

		if lookup, ok := comp.LookupType(f.Type, f.Options); ok {
			r := Resolver{
				Field:  fields.Fresh(common.Exported(f.Name)),
				Param:  names.Fresh("R" + strconv.Itoa(len(provider.Resolvers))),
				Lookup: lookup,
				For:    f.Name,
			}

			provider.Resolvers = append(provider.Resolvers, r)
			provider.Bounds = append(provider.Bounds, Bound{Field: f.Name, Lookup: lookup})
			query = "p." + r.Field + ".Provide(module)"
		}

		expr, err := comp.FieldValue(local, query, f.Options, scope)
		if err != nil {
			addParseError(&diags, err, f.Pos, f.Name)
			continue
		}

		b := Binding{Field: f.Name, Name: local, Type: f.Type, Stmts: expr.Stmts}
		if !expr.Zero {
			b.Value = expr.Value
		}

		provider.Bindings = append(provider.Bindings, b)
		provider.NeedsSync = provider.NeedsSync || f.Awaits()

		body = append(body, b.Stmts...)
		body = append(body, b.decl())
		keys = append(keys, f.Name)
		locals = append(locals, local)
	}

	if diags.HasErrors() {
		return provider, false, diags.WithType(t.ID.Name)
	}

	construct := compose.Construct(self, pt.spec.Target, keys, locals)
	ret := comp.Provide(target, compose.Expr{Stmts: body, Value: construct}, pt.spec.Options)
	provider.Stmts = ret.Stmts
	provider.Return = ret.Value

	provider.Module.Constraint = "any"
	if provider.NeedsSync {
		provider.Module.Constraint = comp.Runtime("Sync")
	}

	provider.TypeParams = append(provider.TypeParams, provider.Module)
	for _, tp := range t.TypeParams {
		provider.TypeParams = append(provider.TypeParams, TypeParam{Name: tp.Name, Constraint: tp.Constraint})
	}

	for _, r := range provider.Resolvers {
		provider.TypeParams = append(provider.TypeParams, TypeParam{
			Name:       r.Param,
			Constraint: comp.Runtime("HasProvider") + "[" + provider.Module.Name + ", " + r.Lookup + "]",
		})
	}

	return provider, comp.UsesRuntime(), diags
}

// decl renders the variable declaration of the binding.
func (b Binding) decl() string {
	if b.Value == "" {
		return "var " + b.Name + " " + b.Type
	}

	return "var " + b.Name + " " + b.Type + " = " + b.Value
}
