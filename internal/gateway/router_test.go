package gateway

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolNext_RoundRobin(t *testing.T) {
	nodes := []string{"http://node-a", "http://node-b", "http://node-c"}
	pool := NewPool(nodes)

	for i := 0; i < 10; i++ {
		got := pool.Next()
		assert.Equal(t, nodes[i%len(nodes)], got, "call %d", i)
	}
}

func TestPoolNext_SingleNode(t *testing.T) {
	pool := NewPool([]string{"http://only"})

	for i := 0; i < 5; i++ {
		assert.Equal(t, "http://only", pool.Next())
	}
}

func TestPoolNext_ConcurrentFairness(t *testing.T) {
	const (
		workers  = 8
		perWork  = 250
		poolSize = 4
	)

	nodes := make([]string, poolSize)
	for i := range nodes {
		nodes[i] = fmt.Sprintf("http://node-%d", i)
	}
	pool := NewPool(nodes)

	counts := make([]map[string]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := make(map[string]int)
			for i := 0; i < perWork; i++ {
				local[pool.Next()]++
			}
			counts[w] = local
		}(w)
	}
	wg.Wait()

	total := make(map[string]int)
	for _, local := range counts {
		for node, n := range local {
			total[node] += n
		}
	}

	// workers*perWork is divisible by poolSize, so a fair rotation
	// hands every node exactly the same share.
	want := workers * perWork / poolSize
	for _, node := range nodes {
		assert.Equal(t, want, total[node], "node %s", node)
	}
}

func TestResolve_StaticRoutes(t *testing.T) {
	table := NewRoutingTable("http://core:5002", []string{"http://tx-1"})

	tests := []struct {
		service string
		path    string
		want    string
	}{
		{"auth", "login", "http://core:5002/auth/login"},
		{"admin", "add_hotel", "http://core:5002/admin/add_hotel"},
		{"hotel", "list", "http://core:5002/hotel/list"},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			got, err := table.Resolve(tt.service, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_ReplicatedServicesShareOneCursor(t *testing.T) {
	nodes := []string{"http://tx-1", "http://tx-2", "http://tx-3"}
	table := NewRoutingTable("http://core:5002", nodes)

	// Interleaved services still advance the same rotation.
	calls := []struct {
		service string
		path    string
	}{
		{"order", "create"},
		{"payment", "process"},
		{"notification", "send_bill"},
		{"order", "create"},
	}

	for i, call := range calls {
		got, err := table.Resolve(call.service, call.path)
		require.NoError(t, err)
		want := nodes[i%len(nodes)] + "/" + call.service + "/" + call.path
		assert.Equal(t, want, got, "call %d", i)
	}
}

func TestResolve_StaticRouteDoesNotAdvanceCursor(t *testing.T) {
	nodes := []string{"http://tx-1", "http://tx-2"}
	table := NewRoutingTable("http://core:5002", nodes)

	first, err := table.Resolve("order", "create")
	require.NoError(t, err)
	assert.Equal(t, "http://tx-1/order/create", first)

	_, err = table.Resolve("hotel", "list")
	require.NoError(t, err)

	second, err := table.Resolve("order", "create")
	require.NoError(t, err)
	assert.Equal(t, "http://tx-2/order/create", second)
}

func TestResolve_UnknownServiceLeavesCursorUntouched(t *testing.T) {
	nodes := []string{"http://tx-1", "http://tx-2"}
	table := NewRoutingTable("http://core:5002", nodes)

	_, err := table.Resolve("inventory", "list")
	assert.ErrorIs(t, err, ErrUnknownService)

	got, err := table.Resolve("payment", "process")
	require.NoError(t, err)
	assert.Equal(t, "http://tx-1/payment/process", got)
}
