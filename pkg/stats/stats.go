package stats

import (
	"math"

	"github.com/kdwils/stargazer/pkg/types"
)

// ResourceStats holds the counters derived from one walk over a resource
// tree. TotalResources counts relatives recursively (the nodes reachable
// below the argument sequence); the per-kind counters and flags consider
// every visited node, the argument sequence included.
type ResourceStats struct {
	TotalResources    int
	TotalServices     int
	TotalPods         int
	Ingresses         int
	HTTPRoutes        int
	HealthyPods       int
	HasExternalRoutes bool
}

// CollectionStats couples ResourceStats with the set of namespaces the
// collection spans, in first-seen order.
type CollectionStats struct {
	ResourceStats
	Namespaces []string
}

// ComputeResourceStats walks nodes and every descendant exactly once and
// tallies them. The walk uses an explicit stack so arbitrarily deep trees
// cannot exhaust the call stack; it is linear in total node count.
func ComputeResourceStats(nodes []types.ResourceNode) ResourceStats {
	var s ResourceStats

	stack := make([]*types.ResourceNode, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, &nodes[i])
	}

	visited := 0
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		switch node.Kind {
		case types.KindService:
			s.TotalServices++
		case types.KindPod:
			s.TotalPods++
			if node.PhaseValue() == types.PodPhaseRunning {
				s.HealthyPods++
			}
		case types.KindIngress:
			s.Ingresses++
			s.HasExternalRoutes = true
		case types.KindHTTPRoute:
			s.HTTPRoutes++
			s.HasExternalRoutes = true
		case types.KindNamespace:
		}

		for i := len(node.Relatives) - 1; i >= 0; i-- {
			stack = append(stack, &node.Relatives[i])
		}
	}

	// totalResources counts relatives recursively, not the roots themselves
	s.TotalResources = visited - len(nodes)
	return s
}

// CalculateNamespaceStats reduces over the namespace's relatives and
// attaches the single-element namespace set.
func CalculateNamespaceStats(namespace types.ResourceNode) CollectionStats {
	return CollectionStats{
		ResourceStats: ComputeResourceStats(namespace.Relatives),
		Namespaces:    []string{namespace.Name},
	}
}

// CalculateResourceCollectionStats reduces over an arbitrary resource
// collection. The namespace set is collected from the namespace already
// stamped onto each top-level resource; children are not scanned.
func CalculateResourceCollectionStats(resources []types.ResourceNode) CollectionStats {
	cs := CollectionStats{
		ResourceStats: ComputeResourceStats(resources),
	}

	seen := make(map[string]bool, len(resources))
	for _, r := range resources {
		ns := r.NamespaceName()
		if ns == "" || seen[ns] {
			continue
		}
		seen[ns] = true
		cs.Namespaces = append(cs.Namespaces, ns)
	}
	return cs
}

// CalculateHealthPercentage returns the rounded percentage of healthy out
// of total, 0 when total is zero. Rounding is half-up so fractional cases
// are deterministic.
func CalculateHealthPercentage(healthy, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(healthy) / float64(total)))
}
