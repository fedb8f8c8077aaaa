/*
Package feed maintains the live snapshot connection to a constellation
server.

The feed is a state machine that gates on a readiness probe, opens a
streaming websocket, parses inbound whole-snapshot messages, and recovers
from failures with bounded, cancellable retry timers. Consumers receive
snapshots and status changes through a single-writer broker; the current
snapshot is also available by accessor.

# State Machine

	            ┌──────────────────────────────────────────┐
	            │                                          │
	            ▼                                          │
	┌────────────────┐  probe ok   ┌────────────────┐     │
	│    probing     │────────────▶│   connecting    │     │
	│                │             │                 │     │
	│  re-probe      │             └───────┬────────┘     │
	│  every 2s      │               open  │  error        │
	└────────────────┘                     ▼               │
	                              ┌────────────────┐       │
	                              │   connected    │       │
	                              │  parse + publish│      │
	                              └───────┬────────┘       │
	                          close/error │                │
	                                      ▼                │
	                              ┌────────────────┐       │
	                              │  disconnected  │───────┘
	                              │  reconnect 5s  │
	                              └────────────────┘

Teardown (Stop) is reachable from every state. It cancels all pending
timers and closes any open transport before returning; nothing runs after
it and nothing restarts it.

# Concurrency

A single goroutine executes every transition. Transport callbacks, probe
results, and timer firings are posted as events onto one channel; each
event carries the era id of the attempt it belongs to, and events from a
superseded era are dropped before they can touch state. Inbound snapshots
are therefore processed strictly in arrival order, and each one replaces
the previous snapshot wholesale with a single reference swap.

# Error Taxonomy

  - ErrNotReady: the readiness probe is failing; surfaced as a waiting
    status, re-probed after a fixed delay
  - ErrParse: a malformed message arrived on a live connection; the
    session stays open
  - ErrConnectionLost: the transport closed or errored; one reconnect
    timer is scheduled, re-entering probing

All three are recovered automatically; none propagates as a fault. The
coarse Phase value (loading, error, content) reserves "error" for runs
where no usable snapshot has ever been received.

# Usage

	m, err := feed.New("http://constellation.local:8080")
	if err != nil {
		return err
	}
	sub := m.Subscribe()
	m.Start()
	defer m.Stop()

	for update := range sub {
		if update.Type == events.UpdateSnapshot {
			groups := stats.ExtractGroups(update.Snapshot)
			...
		}
	}
*/
package feed
