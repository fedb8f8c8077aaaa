/*
Package types defines the core data structures used throughout Stargazer.

This package contains the snapshot model: the tree-shaped description of a
cluster's resource relationships plus the per-service health records attached
to it. Every other package consumes these types; none of them mutate a
snapshot after it has been received.

# Core Types

Snapshot Model:
  - Snapshot: Ordered sequence of Namespace-rooted ResourceNode trees
  - ResourceNode: One cluster object with its "relates-to" edges
  - ResourceKind: Closed enum (Namespace, Ingress, HTTPRoute, Service, Pod)
  - ContainerPortInfo: Container port metadata on pod nodes

Health Records:
  - ServiceHealthInfo: Probe state, producer-computed uptime, and history
  - HealthCheckEntry: One probe result (timestamp, status, latency, response)
  - HealthStatus: healthy, unhealthy, unknown

Derived:
  - GroupInfo: Cross-namespace bucket of resources sharing a group tag.
    Computed on demand by pkg/stats, never transmitted.

# Invariants

A Snapshot's roots are always Namespace nodes. Relatives express
"serves/selects/routes-to" edges, not containment; the namespace of a
non-Namespace node is implied by ancestry and stamped explicitly only where
grouping needs it. A snapshot is treated as an immutable value once
published: each inbound message replaces the prior tree wholesale, so there
is never a partially updated tree in flight.

Field names and JSON tags match the constellation feed's wire format; all
optional metadata uses omitempty so leaf nodes stay compact.
*/
package types
