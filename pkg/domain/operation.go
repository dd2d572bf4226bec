package domain

// Operation enumerates the gateway operations subject to access control and
// auditing. OpAdmin covers the endpoint/log management surface.
type Operation string

const (
	OpRetrieve Operation = "retrieve"
	OpQuery    Operation = "query"
	OpStore    Operation = "store"
	OpAdmin    Operation = "admin"
)

// ProxyOperations lists the operations that are proxied to a remote endpoint
// and therefore audited.
func ProxyOperations() []Operation {
	return []Operation{OpRetrieve, OpQuery, OpStore}
}
