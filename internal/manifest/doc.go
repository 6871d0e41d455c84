// Package manifest provides the YAML front-end: the provide and depend
// directives of a package written down in a file instead of in the source.
//
// A manifest describes one package:
//
//	version: "1"
//	package: service
//	path: example.com/app/service
//	dir: .
//	imports:
//	  - path: example.com/app/errs
//	providers:
//	  - type: ServiceImpl
//	    type_params:
//	      - name: Ctx
//	        constraint: Context
//	    provide: provide(Service, box, fallible(error = errs.Error), async)
//	    fields:
//	      - name: ctx
//	        type: Ctx
//	        depend: depend(await, try(error = errs.Error))
//	      - name: repo
//	        type: Repository[Ctx]
//
// Directive strings use the same grammar as the source annotations and are
// located by line and column within the manifest for diagnostics.
package manifest
