package context

type Key string

const (
	Claims Key = "claims"
	Brand  Key = "brand"
	Tenant Key = "tenant"
	Params Key = "params"
)
