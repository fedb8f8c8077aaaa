package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kdwils/stargazer/pkg/events"
	"github.com/kdwils/stargazer/pkg/log"
	"github.com/kdwils/stargazer/pkg/metrics"
	"github.com/kdwils/stargazer/pkg/stats"
	"github.com/kdwils/stargazer/pkg/types"
)

// State is the connection manager's current state
type State string

const (
	StateProbing      State = "probing"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateStopped      State = "stopped"
)

var stateNames = []string{
	string(StateProbing),
	string(StateConnecting),
	string(StateConnected),
	string(StateDisconnected),
	string(StateStopped),
}

// Retry policy. Fixed delays, not configuration.
const (
	// ProbeRetryDelay is the wait between failed readiness probes
	ProbeRetryDelay = 2 * time.Second

	// ReconnectDelay is the wait before re-probing after a lost connection
	ReconnectDelay = 5 * time.Second
)

// Phase is the coarse consumer-facing view state. Exactly one applies at
// any time. PhaseError is reserved for runs where no usable snapshot has
// ever arrived; transient reconnects after initial data stay PhaseContent.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseContent Phase = "content"
)

type eventKind int

const (
	evProbeResult eventKind = iota
	evDialResult
	evMessage
	evConnError
	evProbeRetry
	evReconnect
)

// event is one input to the state machine loop. Every transport- or
// timer-originated event carries the era id it belongs to; events from a
// superseded era are dropped before they can touch state.
type event struct {
	kind eventKind
	id   uuid.UUID
	conn Conn
	data []byte
	err  error
}

type timerHandle interface {
	Stop() bool
}

// Manager owns the transport lifecycle for the live snapshot feed. It
// gates on a readiness probe, opens the streaming connection, parses
// inbound snapshots, and recovers from failures with bounded, cancellable
// retry timers. All state transitions happen on a single goroutine fed by
// an event channel, so no transition ever races another.
type Manager struct {
	baseURL    string
	streamURL  string
	httpClient *http.Client
	dial       Dialer
	probe      Prober
	afterFunc  func(time.Duration, func()) timerHandle
	broker     *events.Broker
	logger     zerolog.Logger

	eventCh  chan event
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	dialWG   sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	// Loop-owned; only the run goroutine touches these
	era            uuid.UUID
	conn           Conn
	probeTimer     timerHandle
	reconnectTimer timerHandle

	// Externally observable, guarded by mu. The feed loop is the only
	// writer; publication of a new snapshot is a single reference swap.
	mu            sync.RWMutex
	started       bool
	state         State
	lastErr       *Error
	current       types.Snapshot
	hasSnapshot   bool
	defaultTarget string
}

// Option configures a Manager
type Option func(*Manager)

// WithHTTPClient sets the client used for the readiness probe and the
// one-shot state fetch
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
		m.probe = HTTPProbe(client)
	}
}

// WithDialer replaces the streaming transport dialer
func WithDialer(dial Dialer) Option {
	return func(m *Manager) {
		m.dial = dial
	}
}

// WithProber replaces the readiness prober
func WithProber(probe Prober) Option {
	return func(m *Manager) {
		m.probe = probe
	}
}

// New creates a Manager for the feed served at baseURL. The manager does
// nothing until Start is called.
func New(baseURL string, opts ...Option) (*Manager, error) {
	base := strings.TrimSuffix(baseURL, "/")
	streamURL, err := StreamURL(base)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		baseURL:    base,
		streamURL:  streamURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dial:       DialWebsocket,
		afterFunc: func(d time.Duration, fn func()) timerHandle {
			return time.AfterFunc(d, fn)
		},
		broker:  events.NewBroker(),
		logger:  log.WithComponent("feed"),
		eventCh: make(chan event, 32),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		state:   StateProbing,
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.probe = HTTPProbe(m.httpClient)

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Start launches the state machine. Calling Start twice is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.broker.Start()
	go m.run()
}

// Stop tears the manager down from any state: every pending timer is
// cancelled and any open transport closed before Stop returns. No state
// transition or snapshot publication happens afterwards; there is no
// restart.
func (m *Manager) Stop() {
	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	if !started {
		m.broker.Stop()
		return
	}

	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	<-m.done
}

// Subscribe returns a channel of feed updates (snapshots and status
// changes)
func (m *Manager) Subscribe() events.Subscriber {
	return m.broker.Subscribe()
}

// Unsubscribe releases a subscription
func (m *Manager) Unsubscribe(sub events.Subscriber) {
	m.broker.Unsubscribe(sub)
}

// State returns the current connection state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// LastError returns the most recently surfaced feed error, nil when the
// connection is healthy
func (m *Manager) LastError() *Error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Current returns the most recently published snapshot, nil before the
// first one arrives. The returned snapshot must not be mutated.
func (m *Manager) Current() types.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// DefaultTarget returns the default navigational target chosen from the
// first snapshot: the first namespace in array order. ok is false until a
// non-empty snapshot has been received.
func (m *Manager) DefaultTarget() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultTarget, m.defaultTarget != ""
}

// Phase reports the coarse view state: content once any snapshot has been
// received, error when none has and a failure is surfaced, loading
// otherwise.
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.hasSnapshot:
		return PhaseContent
	case m.lastErr != nil:
		return PhaseError
	default:
		return PhaseLoading
	}
}

// FetchState performs the one-shot fallback fetch against GET /state and
// returns a single snapshot with no further updates. It does not involve
// the state machine and can be used without Start.
func (m *Manager) FetchState(ctx context.Context) (types.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/state", nil)
	if err != nil {
		return nil, fmt.Errorf("build state request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch state: unexpected status %d", resp.StatusCode)
	}

	var snapshot types.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return snapshot, nil
}

// post delivers an event to the loop. Once stop has been requested it
// releases whatever the event carries instead, so a dial completing
// mid-shutdown cannot leak its transport and a late timer callback
// cannot block or corrupt state.
func (m *Manager) post(ev event) {
	select {
	case <-m.stopCh:
		m.discard(ev)
		return
	default:
	}

	select {
	case m.eventCh <- ev:
	case <-m.stopCh:
		m.discard(ev)
	}
}

// discard releases resources carried by an event that will never reach
// the loop
func (m *Manager) discard(ev event) {
	if ev.kind == evDialResult && ev.conn != nil {
		ev.conn.Close()
	}
}

func (m *Manager) run() {
	defer close(m.done)
	defer m.teardown()

	m.enterProbing()

	for {
		select {
		case ev := <-m.eventCh:
			m.handle(ev)
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) handle(ev event) {
	if ev.id != m.era {
		// Stale callback from a superseded transport or timer
		m.discard(ev)
		return
	}

	switch ev.kind {
	case evProbeResult:
		m.handleProbeResult(ev)
	case evProbeRetry:
		if m.State() == StateProbing {
			m.launchProbe()
		}
	case evDialResult:
		m.handleDialResult(ev)
	case evMessage:
		m.handleMessage(ev)
	case evConnError:
		m.closeConn()
		m.enterDisconnected(ev.err)
	case evReconnect:
		if m.State() == StateDisconnected {
			metrics.ReconnectsTotal.Inc()
			m.enterProbing()
		}
	}
}

func (m *Manager) handleProbeResult(ev event) {
	if ev.err != nil {
		metrics.ProbeFailuresTotal.Inc()
		m.logger.Debug().Err(ev.err).Msg("feed not ready, will re-probe")
		m.setStatus(StateProbing, newError(ErrNotReady, ev.err))
		m.scheduleProbeRetry()
		return
	}
	m.enterConnecting()
}

func (m *Manager) handleDialResult(ev event) {
	if ev.err != nil {
		m.logger.Debug().Err(ev.err).Msg("stream dial failed")
		m.enterDisconnected(ev.err)
		return
	}

	m.conn = ev.conn
	m.setStatus(StateConnected, nil)
	m.logger.Info().Str("url", m.streamURL).Msg("connected to snapshot stream")
	m.startReader(ev.conn, m.era)
}

func (m *Manager) handleMessage(ev event) {
	var snapshot types.Snapshot
	if err := json.Unmarshal(ev.data, &snapshot); err != nil {
		// A malformed message does not forfeit the session; the socket
		// stays open
		metrics.ParseErrorsTotal.Inc()
		m.logger.Warn().Err(err).Msg("failed to parse snapshot")
		m.setStatus(StateConnected, newError(ErrParse, err))
		return
	}
	m.publishSnapshot(snapshot)
}

func (m *Manager) publishSnapshot(snapshot types.Snapshot) {
	m.mu.Lock()
	m.current = snapshot
	m.hasSnapshot = true
	m.lastErr = nil
	if m.defaultTarget == "" && len(snapshot) > 0 {
		m.defaultTarget = snapshot[0].Name
	}
	m.mu.Unlock()

	rs := stats.ComputeResourceStats(snapshot)
	metrics.SnapshotsTotal.Inc()
	metrics.SnapshotNamespaces.Set(float64(len(snapshot)))
	metrics.SnapshotResources.Set(float64(rs.TotalResources + len(snapshot)))

	m.logger.Debug().
		Int("namespaces", len(snapshot)).
		Int("resources", rs.TotalResources).
		Msg("snapshot published")
	m.broker.Publish(events.Update{Type: events.UpdateSnapshot, Snapshot: snapshot})
}

func (m *Manager) enterProbing() {
	m.era = uuid.New()
	m.setStatus(StateProbing, nil)
	m.launchProbe()
}

func (m *Manager) launchProbe() {
	id := m.era
	probeURL := m.baseURL + "/healthz"
	go func() {
		err := m.probe(m.ctx, probeURL)
		m.post(event{kind: evProbeResult, id: id, err: err})
	}()
}

func (m *Manager) scheduleProbeRetry() {
	if m.probeTimer != nil {
		m.probeTimer.Stop()
	}
	id := m.era
	m.probeTimer = m.afterFunc(ProbeRetryDelay, func() {
		m.post(event{kind: evProbeRetry, id: id})
	})
}

func (m *Manager) enterConnecting() {
	if m.probeTimer != nil {
		m.probeTimer.Stop()
		m.probeTimer = nil
	}
	m.era = uuid.New()
	m.setStatus(StateConnecting, nil)

	id := m.era
	m.dialWG.Add(1)
	go func() {
		defer m.dialWG.Done()
		conn, err := m.dial(m.ctx, m.streamURL)
		m.post(event{kind: evDialResult, id: id, conn: conn, err: err})
	}()
}

func (m *Manager) startReader(conn Conn, id uuid.UUID) {
	go func() {
		for {
			data, err := conn.ReadMessage()
			if err != nil {
				m.post(event{kind: evConnError, id: id, err: err})
				return
			}
			m.post(event{kind: evMessage, id: id, data: data})
		}
	}()
}

func (m *Manager) enterDisconnected(cause error) {
	m.era = uuid.New()
	m.logger.Warn().Err(cause).Msg("connection lost, retrying")
	m.setStatus(StateDisconnected, newError(ErrConnectionLost, cause))

	// Exactly one reconnect timer may be pending at a time
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
	}
	id := m.era
	m.reconnectTimer = m.afterFunc(ReconnectDelay, func() {
		m.post(event{kind: evReconnect, id: id})
	})
}

func (m *Manager) closeConn() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

func (m *Manager) setStatus(state State, ferr *Error) {
	m.mu.Lock()
	m.state = state
	if ferr != nil {
		m.lastErr = ferr
	} else if state == StateConnected {
		m.lastErr = nil
	}
	m.mu.Unlock()

	metrics.SetConnectionState(string(state), stateNames)

	var err error
	if ferr != nil {
		err = ferr
	}
	m.broker.Publish(events.Update{Type: events.UpdateStatus, State: string(state), Err: err})
}

func (m *Manager) teardown() {
	m.cancel()

	if m.probeTimer != nil {
		m.probeTimer.Stop()
		m.probeTimer = nil
	}
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
		m.reconnectTimer = nil
	}

	// A dial may still be in flight. Wait for it to post or discard its
	// result, then sweep the event buffer for any transport that was
	// delivered but never handled.
	m.dialWG.Wait()
drain:
	for {
		select {
		case ev := <-m.eventCh:
			m.discard(ev)
		default:
			break drain
		}
	}

	m.closeConn()

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()

	metrics.SetConnectionState(string(StateStopped), stateNames)
	m.broker.Stop()
	m.logger.Info().Msg("feed stopped")
}
