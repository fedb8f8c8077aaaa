/*
Package stats derives navigational and health statistics from a snapshot.

Every function here is a pure function of the snapshot passed to it: no
state is retained across snapshots and the input tree is never mutated, so
derived values can never drift from an older tree. Aggregation is
recomputed from scratch on every inbound snapshot.

# Derived Views

  - ComputeResourceStats: recursive reducer over a resource sequence and
    all descendants (totals by kind, healthy pod count, external-route flag)
  - CalculateNamespaceStats: the reducer applied to one namespace's
    relatives, tagged with that namespace's name
  - CalculateResourceCollectionStats: the reducer applied to an arbitrary
    collection (used for groups), namespace set taken from the stamped
    top-level resources
  - ExtractGroups: cross-namespace buckets of direct namespace children
    carrying a group tag, ordered by locale-aware group name
  - CalculateHealthPercentage: rounded healthy/total percentage

# Contract

For well-formed input these functions never fail; missing optional fields
are treated as their zero values. Traversal is iterative with an explicit
stack, visits each node once, and runs in time linear in node count.
*/
package stats
