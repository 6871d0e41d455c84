package stale

//inject:provide(self)
type Config struct {
	name string
}
