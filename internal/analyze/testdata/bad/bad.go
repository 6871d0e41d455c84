package bad

import (
	"time"

	yaml "gopkg.in/yaml.v3"
)

//inject:provide(self)
type NotAStruct int

type Base struct{}

//inject:provide(self)
type Embedded struct {
	Base
	ok int
}

//inject:provide(self)
type Blank struct {
	_ int
}

//inject:provide(self)
//inject:provide(self, box)
type Twice struct{}

// Tagged is a valid annotated type.
//
//inject:provide(self, async)
type Tagged[T any, K comparable] struct {
	a, b  int           `inject:"depend(default)"`
	c     time.Duration `json:"c" inject:"depend(await)"`
	node  yaml.Node
	plain T
	keys  map[K]T "inject:\"depend(default)\""
}

type (
	// Grouped sits in a group declaration.
	//
	//inject:provide(self)
	Grouped struct{}

	Ignored struct{}
)
