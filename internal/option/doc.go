// Package option defines the provide/depend annotation grammar and its parser.
//
// A type opts into generation with a directive on its declaration, and each
// field may refine how its dependency is looked up:
//
//	//inject:provide(Service, box, fallible(error = Error), async)
//	type ServiceImpl[Ctx Context] struct {
//		ctx  Ctx `inject:"depend(await, try(error = Error))"`
//		repo Repository[Ctx]
//	}
//
// # Grammar
//
//	provide     = "provide" "(" target { "," typeOption } [ "," ] ")" .
//	target      = "self" | Type .
//	typeOption  = "box" | "arc" | "shared" | "async" | fallible | wrap .
//	fallible    = "fallible" "(" "error" "=" Type ")" .
//	depend      = "depend" "(" [ fieldOption { "," fieldOption } [ "," ] ] ")" .
//	fieldOption = "try" "(" "error" "=" Type ")" | "await" | "default" | wrap .
//	wrap        = "wrap" "(" Type ")" "with" FuncPath .
//
// Option lists keep their declared order, which is significant, and may
// repeat an option. A tag may hold several depend groups; they are
// concatenated in order.
package option
