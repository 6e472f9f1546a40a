package gateway

import (
	"errors"
	"sync/atomic"
)

// ErrUnknownService is returned when a request names a service outside
// the routing table. No routing cursor is touched in that case.
var ErrUnknownService = errors.New("service not found")

// Pool is a named, ordered set of interchangeable endpoints. The cursor
// is shared by every routing decision into the pool; one atomic
// fetch-add per decision keeps the rotation fair under concurrency.
type Pool struct {
	nodes  []string
	cursor atomic.Uint64
}

// NewPool creates a pool over the given base URLs. The node list is
// immutable after creation.
func NewPool(nodes []string) *Pool {
	return &Pool{nodes: nodes}
}

// Next returns the next node in round-robin order and advances the
// cursor. After N calls on a pool of size K the cursor sits at
// (initial+N) mod K regardless of how the forwarded calls fare.
func (p *Pool) Next() string {
	i := p.cursor.Add(1) - 1
	return p.nodes[i%uint64(len(p.nodes))]
}

// Size returns the number of nodes in the pool.
func (p *Pool) Size() int {
	return len(p.nodes)
}

// RoutingTable maps logical service names to endpoints: the core
// services resolve statically, while order/payment/notification share
// one load-balanced transaction pool.
type RoutingTable struct {
	static     map[string]string
	replicated map[string]bool
	pool       *Pool
}

// NewRoutingTable builds the process-wide routing table. coreURL backs
// the static routes; transactionNodes form the replicated pool.
func NewRoutingTable(coreURL string, transactionNodes []string) *RoutingTable {
	return &RoutingTable{
		static: map[string]string{
			"auth":  coreURL,
			"admin": coreURL,
			"hotel": coreURL,
		},
		replicated: map[string]bool{
			"order":        true,
			"payment":      true,
			"notification": true,
		},
		pool: NewPool(transactionNodes),
	}
}

// Resolve returns the full upstream URL for a service and sub-path.
// Resolving a replicated service advances the pool cursor; unknown
// services fail before any cursor movement.
func (t *RoutingTable) Resolve(service, path string) (string, error) {
	if t.replicated[service] {
		if t.pool.Size() == 0 {
			return "", ErrUnknownService
		}
		return t.pool.Next() + "/" + service + "/" + path, nil
	}
	if base, ok := t.static[service]; ok {
		return base + "/" + service + "/" + path, nil
	}
	return "", ErrUnknownService
}
