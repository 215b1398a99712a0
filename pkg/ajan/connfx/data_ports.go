package connfx

// ConnectionCapability describes the data-access shapes a connection
// supports, independent of its ConnectionBehavior (stateful/streaming/etc).
type ConnectionCapability string

const (
	// ConnectionCapabilityKeyValue represents key-value storage behavior.
	ConnectionCapabilityKeyValue ConnectionCapability = "key-value"

	// ConnectionCapabilityDocument represents document storage behavior.
	ConnectionCapabilityDocument ConnectionCapability = "document"

	// ConnectionCapabilityRelational represents relational database behavior.
	ConnectionCapabilityRelational ConnectionCapability = "relational"

	// ConnectionCapabilityTransactional represents transactional behavior.
	ConnectionCapabilityTransactional ConnectionCapability = "transactional"

	// ConnectionCapabilityCache represents caching behavior with expiration support.
	ConnectionCapabilityCache ConnectionCapability = "cache"

	// ConnectionCapabilityQueue represents message queue behavior.
	ConnectionCapabilityQueue ConnectionCapability = "queue"
)
