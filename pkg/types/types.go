package types

import (
	"time"
)

// ResourceKind identifies the kind of cluster object a node represents
type ResourceKind string

const (
	KindNamespace ResourceKind = "Namespace"
	KindIngress   ResourceKind = "Ingress"
	KindHTTPRoute ResourceKind = "HTTPRoute"
	KindService   ResourceKind = "Service"
	KindPod       ResourceKind = "Pod"
)

func (k ResourceKind) String() string {
	return string(k)
}

// PodPhaseRunning is the only pod phase counted as healthy
const PodPhaseRunning = "Running"

// HealthStatus represents the probe-derived health of a service
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusUnknown   HealthStatus = "unknown"
)

// ContainerPortInfo describes one container port exposed by a pod
type ContainerPortInfo struct {
	Port     int32   `json:"port"`
	Name     *string `json:"name,omitempty"`
	Protocol *string `json:"protocol,omitempty"`
}

// ResourceNode is one node in the cluster relationship tree. Relatives
// are "serves/selects/routes-to" edges, not containment; a node with no
// relatives is a leaf. Kind-specific metadata fields are flattened onto
// the node and omitted from the wire format when empty.
type ResourceNode struct {
	Kind      ResourceKind   `json:"kind"`
	Name      string         `json:"name"`
	Namespace *string        `json:"namespace,omitempty"`
	Relatives []ResourceNode `json:"relatives,omitempty"`

	Hostnames       []string            `json:"hostnames,omitempty"`
	Selectors       map[string]string   `json:"selectors,omitempty"`
	Ports           []int32             `json:"ports,omitempty"`
	PortMappings    []string            `json:"port_mappings,omitempty"`
	TargetPorts     []int32             `json:"target_ports,omitempty"`
	TargetPortNames []string            `json:"target_port_names,omitempty"`
	ContainerPorts  []ContainerPortInfo `json:"container_ports,omitempty"`
	Labels          map[string]string   `json:"labels,omitempty"`
	Phase           *string             `json:"phase,omitempty"`
	BackendRefs     []string            `json:"backend_refs,omitempty"`
	ServiceType     *string             `json:"service_type,omitempty"`
	ClusterIPs      []string            `json:"cluster_ips,omitempty"`
	ExternalIPs     []string            `json:"external_ips,omitempty"`
	PodIPs          []string            `json:"pod_ips,omitempty"`

	// Annotation-derived metadata, consumed only by grouping
	Group       string `json:"group,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Ignore      bool   `json:"ignore,omitempty"`

	// Present only on Service nodes that have an active probe
	HealthInfo *ServiceHealthInfo `json:"health_info,omitempty"`
}

// NamespaceName returns the owning namespace, or "" when unset
func (n ResourceNode) NamespaceName() string {
	if n.Namespace == nil {
		return ""
	}
	return *n.Namespace
}

// PhaseValue returns the pod phase, or "" when unset
func (n ResourceNode) PhaseValue() string {
	if n.Phase == nil {
		return ""
	}
	return *n.Phase
}

// Snapshot is one complete, self-contained description of the cluster's
// tracked resources. Every root is a Namespace node. A snapshot is
// immutable once received; each inbound message replaces the previous
// tree wholesale.
type Snapshot []ResourceNode

// ServiceHealthInfo carries the probe state and history for one service.
// Uptime is pre-computed by the producer and not recomputed here.
type ServiceHealthInfo struct {
	ServiceName string             `json:"service_name"`
	Namespace   string             `json:"namespace"`
	Status      HealthStatus       `json:"status"`
	LastCheck   time.Time          `json:"last_check"`
	Uptime      float64            `json:"uptime"`
	URL         string             `json:"url"`
	History     []HealthCheckEntry `json:"history"`
}

// HealthCheckEntry is a single probe result. Latency serializes as
// nanoseconds.
type HealthCheckEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Status       HealthStatus  `json:"status"`
	Latency      time.Duration `json:"latency"`
	Error        string        `json:"error,omitempty"`
	URL          string        `json:"url"`
	Method       string        `json:"method"`
	ResponseCode int           `json:"response_code,omitempty"`
}

// GroupInfo is a derived, cross-namespace bucket of resources sharing a
// group tag. Computed fresh from every snapshot; never transmitted.
type GroupInfo struct {
	Name      string
	Resources []ResourceNode
}

// StrPtr is a convenience for building nodes with optional string fields
func StrPtr(s string) *string {
	return &s
}
