/*
Package health computes fixed-policy statistics over a service's probe
history.

The feed delivers each service's history as a chronological, append-only
sequence of probe results. This package never re-fetches or mutates that
history; every value is a pure slice-and-reduce over the array as received.

Three windows are defined as policy constants rather than configuration:

  - RecentWindowSize (48): the trailing ~24 hours, used for the short-term
    uptime percentage and the average latency
  - LongWindowSize (720): the trailing ~30 days, an independent percentage
  - DisplaySlots (15): the strip of most recent entries presentation shows

"Current" values (status, latency, time since last check) always come from
the single most recent entry regardless of window size. An empty history is
an explicit no-data state, reported through Current's ok result, never as a
zero entry.
*/
package health
