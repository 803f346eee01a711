package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"healthpulse/types"
)

// State is a phase of the personalization run state machine.
type State string

const (
	StateIdle        State = "idle"
	StateAnalyzing   State = "analyzing"
	StateFetching    State = "fetching"
	StateClassifying State = "classifying"
	StateRanking     State = "ranking"
	StateTranslating State = "translating"
	StatePersisting  State = "persisting"
	StateComplete    State = "complete"
	StateError       State = "error"
)

// LogEntry is a single timestamped progress line.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// StatusResponse is the JSON snapshot for GET /api/articles/status.
type StatusResponse struct {
	State            State            `json:"state"`
	Logs             []LogEntry       `json:"logs"`
	FetchedCount     int              `json:"fetched_count"`
	RecommendedCount int              `json:"recommended_count"`
	LastResult       *types.RunResult `json:"last_result,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// Manager holds run state with thread-safe access. One manager serves both
// the HTTP status endpoint and the runner, so every mutation takes the lock.
type Manager struct {
	mu sync.RWMutex

	currentState State

	fetchedCount     int
	recommendedCount int
	lastResult       *types.RunResult
	lastErr          error

	// ring buffer of recent run logs
	logs    []LogEntry
	maxLogs int
}

// NewManager creates a manager in the idle state.
func NewManager() *Manager {
	return &Manager{
		currentState: StateIdle,
		logs:         make([]LogEntry, 0),
		maxLogs:      50,
	}
}

// Begin atomically claims the runner if no run is in flight. It returns
// false when a run is already active, so concurrent refresh triggers
// collapse into one run.
func (m *Manager) Begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.currentState {
	case StateIdle, StateComplete, StateError:
		m.currentState = StateAnalyzing
		m.fetchedCount = 0
		m.recommendedCount = 0
		m.lastErr = nil
		return true
	default:
		return false
	}
}

// SetState sets the current phase.
func (m *Manager) SetState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = state
}

// GetState returns the current phase.
func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// AddLog appends a progress line, evicting the oldest past maxLogs.
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLog(message)
}

// SetError moves the machine to the error state and records the cause.
func (m *Manager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentState = StateError
	m.lastErr = err
	m.appendLog(fmt.Sprintf("Error: %v", err))
}

// SetFetchedCount records how many articles the fetch step returned.
func (m *Manager) SetFetchedCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchedCount = n
}

// Complete records the run outcome and moves to the complete state.
func (m *Manager) Complete(result types.RunResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentState = StateComplete
	m.lastResult = &result
	m.recommendedCount = result.Recommended
	m.appendLog(result.Message)
}

// GetStatus returns a consistent snapshot of the current state.
func (m *Manager) GetStatus() StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := StatusResponse{
		State:            m.currentState,
		Logs:             append([]LogEntry{}, m.logs...),
		FetchedCount:     m.fetchedCount,
		RecommendedCount: m.recommendedCount,
		LastResult:       m.lastResult,
	}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}

// appendLog must be called with the lock held.
func (m *Manager) appendLog(message string) {
	m.logs = append(m.logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}
