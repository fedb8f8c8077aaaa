package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdwils/stargazer/pkg/types"
)

func TestComputeResourceStats_CountsRelativesRecursively(t *testing.T) {
	// roots [A{B, C{D}}] -> 3 relatives (B, C, D)
	roots := []types.ResourceNode{
		{
			Kind: types.KindNamespace,
			Name: "A",
			Relatives: []types.ResourceNode{
				{Kind: types.KindService, Name: "B"},
				{
					Kind: types.KindService,
					Name: "C",
					Relatives: []types.ResourceNode{
						{Kind: types.KindPod, Name: "D"},
					},
				},
			},
		},
	}

	s := ComputeResourceStats(roots)
	assert.Equal(t, 3, s.TotalResources)
	assert.Equal(t, 2, s.TotalServices)
	assert.Equal(t, 1, s.TotalPods)
}

func TestComputeResourceStats_Kinds(t *testing.T) {
	nodes := []types.ResourceNode{
		{
			Kind: types.KindIngress,
			Name: "ing",
			Relatives: []types.ResourceNode{
				{
					Kind: types.KindService,
					Name: "svc",
					Relatives: []types.ResourceNode{
						{Kind: types.KindPod, Name: "p1", Phase: types.StrPtr("Running")},
						{Kind: types.KindPod, Name: "p2", Phase: types.StrPtr("Pending")},
						{Kind: types.KindPod, Name: "p3"},
					},
				},
			},
		},
		{Kind: types.KindHTTPRoute, Name: "route"},
	}

	s := ComputeResourceStats(nodes)
	assert.Equal(t, 4, s.TotalResources)
	assert.Equal(t, 1, s.TotalServices)
	assert.Equal(t, 3, s.TotalPods)
	assert.Equal(t, 1, s.Ingresses)
	assert.Equal(t, 1, s.HTTPRoutes)
	assert.True(t, s.HasExternalRoutes)
}

func TestComputeResourceStats_HealthyPodsExactPhase(t *testing.T) {
	tests := []struct {
		name    string
		phase   *string
		healthy int
	}{
		{name: "running", phase: types.StrPtr("Running"), healthy: 1},
		{name: "lowercase not healthy", phase: types.StrPtr("running"), healthy: 0},
		{name: "pending not healthy", phase: types.StrPtr("Pending"), healthy: 0},
		{name: "absent phase not healthy", phase: nil, healthy: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := []types.ResourceNode{
				{Kind: types.KindPod, Name: "p", Phase: tt.phase},
			}
			s := ComputeResourceStats(nodes)
			assert.Equal(t, tt.healthy, s.HealthyPods)
			assert.Equal(t, 1, s.TotalPods)
		})
	}
}

func TestComputeResourceStats_Empty(t *testing.T) {
	s := ComputeResourceStats(nil)
	assert.Equal(t, 0, s.TotalResources)
	assert.False(t, s.HasExternalRoutes)
}

func TestComputeResourceStats_DeepTree(t *testing.T) {
	// a 10k-deep chain must not blow the stack
	node := types.ResourceNode{Kind: types.KindPod, Name: "leaf", Phase: types.StrPtr("Running")}
	for i := 0; i < 10000; i++ {
		node = types.ResourceNode{
			Kind:      types.KindService,
			Name:      "svc",
			Relatives: []types.ResourceNode{node},
		}
	}

	s := ComputeResourceStats([]types.ResourceNode{node})
	assert.Equal(t, 10000, s.TotalResources)
	assert.Equal(t, 1, s.HealthyPods)
}

func TestCalculateNamespaceStats(t *testing.T) {
	ns := types.ResourceNode{
		Kind: types.KindNamespace,
		Name: "ns1",
		Relatives: []types.ResourceNode{
			{
				Kind: types.KindService,
				Name: "svc",
				Relatives: []types.ResourceNode{
					{Kind: types.KindPod, Name: "p", Phase: types.StrPtr("Running")},
				},
			},
		},
	}

	cs := CalculateNamespaceStats(ns)
	assert.Equal(t, []string{"ns1"}, cs.Namespaces)
	assert.Equal(t, 1, cs.TotalServices)
	assert.Equal(t, 1, cs.TotalPods)
	assert.Equal(t, 1, cs.HealthyPods)
}

func TestCalculateResourceCollectionStats_NamespacesFromTopLevelOnly(t *testing.T) {
	resources := []types.ResourceNode{
		{
			Kind:      types.KindService,
			Name:      "svc1",
			Namespace: types.StrPtr("ns1"),
			Relatives: []types.ResourceNode{
				// stamped namespace on a child must not contribute
				{Kind: types.KindPod, Name: "p", Namespace: types.StrPtr("ns9")},
			},
		},
		{Kind: types.KindService, Name: "svc2", Namespace: types.StrPtr("ns2")},
		{Kind: types.KindService, Name: "svc3", Namespace: types.StrPtr("ns1")},
		{Kind: types.KindService, Name: "svc4"},
	}

	cs := CalculateResourceCollectionStats(resources)
	assert.Equal(t, []string{"ns1", "ns2"}, cs.Namespaces)
	assert.Equal(t, 4, cs.TotalServices)
}

func TestCalculateHealthPercentage(t *testing.T) {
	tests := []struct {
		healthy  int
		total    int
		expected int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
		{0, 7, 0},
	}

	for _, tt := range tests {
		got := CalculateHealthPercentage(tt.healthy, tt.total)
		assert.Equal(t, tt.expected, got, "healthy=%d total=%d", tt.healthy, tt.total)
	}
}
