package chat

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vakeel-dev/vakeel/internal/logging"
	"github.com/vakeel-dev/vakeel/internal/transport"
	"github.com/vakeel-dev/vakeel/pkg/observability"
)

// Transport is the backend surface the manager dispatches turns to.
// *transport.Client (optionally wrapped by transport.Instrumented)
// satisfies it; tests inject fakes.
type Transport interface {
	SendChat(ctx context.Context, text string) (*transport.ChatResult, error)
	AnalyzeDocument(ctx context.Context, doc transport.Document, question string) (*transport.AnalysisResult, error)
}

// Attachment is a document staged in the compose area.
type Attachment struct {
	Name string
	Data []byte
}

// Fixed user-facing texts per failure kind. The classified detail goes to
// the log, never to the conversation.
const (
	timeoutText  = "This is taking longer than expected. The request was stopped so you can try again in a moment."
	mismatchText = "The research service returned something unexpected. Please try again."
	httpText     = "The research service could not handle that request right now. Please try again."
	networkText  = "Could not reach the research service. Please check your connection and try again."

	defaultAnalyzeQuestion = "Please analyze this document and summarize the key legal points."
)

// Manager owns the conversation sessions. It is safe for concurrent use:
// accessors may be called from the UI loop while a Submit runs in its own
// goroutine. There is at most one outstanding submission at a time; Submit
// while busy is a no-op.
type Manager struct {
	mu sync.Mutex

	transport Transport
	logger    logging.Logger
	now       func() time.Time
	ids       *idSource

	sessions []*Session
	index    map[SessionID]*Session
	activeID SessionID

	busy   bool
	draft  string
	staged *Attachment

	// seq numbers session titles. It only ever increments, so titles (and
	// ids) are never reused regardless of what happens to the list.
	seq int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for failure causes.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager holding one default session, which is
// active.
func NewManager(t Transport, opts ...Option) *Manager {
	m := &Manager{
		transport: t,
		logger:    logging.Log,
		now:       time.Now,
		index:     make(map[SessionID]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ids = newIDSource(m.now)

	m.mu.Lock()
	m.createSessionLocked()
	m.mu.Unlock()
	return m
}

// CreateSession appends a new empty session, makes it active, and clears
// any staged compose state. It never fails.
func (m *Manager) CreateSession() SessionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createSessionLocked()
}

func (m *Manager) createSessionLocked() SessionID {
	m.seq++
	sess := &Session{
		ID:        m.ids.next(),
		Title:     "Conversation " + strconv.Itoa(m.seq),
		CreatedAt: m.now(),
	}
	m.sessions = append(m.sessions, sess)
	m.index[sess.ID] = sess
	m.activeID = sess.ID
	m.draft = ""
	m.staged = nil
	observability.SetActiveSessions(len(m.sessions))
	return sess.ID
}

// SelectSession makes the given session active. Unknown ids are a silent
// no-op so the active selection is never left dangling. Switching while a
// request is outstanding is always allowed; it only changes where the next
// turn goes, not where the in-flight response lands.
func (m *Manager) SelectSession(id SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[id]; ok {
		m.activeID = id
	}
}

// ActiveID returns the id of the active session.
func (m *Manager) ActiveID() SessionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Busy reports whether a submission is in flight.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Sessions lists all sessions in creation order.
func (m *Manager) Sessions() []SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionSummary, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = s.summary()
	}
	return out
}

// Messages returns a copy of the message log for the given session, in
// insertion order. Unknown ids return nil.
func (m *Manager) Messages(id SessionID) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.index[id]
	if !ok {
		return nil
	}
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// SetDraft stores the compose-area draft text.
func (m *Manager) SetDraft(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = text
}

// Draft returns the compose-area draft text.
func (m *Manager) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// StageAttachment stages a document in the compose area. It stays staged
// until a turn that carries it terminates, so a failed submission can be
// retried without re-picking the file.
func (m *Manager) StageAttachment(a Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = &a
}

// StagedAttachment returns the staged document, or nil.
func (m *Manager) StagedAttachment() *Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staged
}

// Submit dispatches one turn: the draft text plus whatever attachment is
// staged. It is a no-op when there is nothing to send or a submission is
// already in flight. Submit blocks until the turn resolves; run it in its
// own goroutine and watch Busy()/Messages() from the UI loop.
//
// The user message is appended before any network activity so the UI
// reflects the action immediately, and the response is reconciled into the
// session that was active at this moment, not whichever is active when the
// response arrives.
func (m *Manager) Submit(ctx context.Context, draft string) {
	text := strings.TrimSpace(draft)

	m.mu.Lock()
	att := m.staged
	if (text == "" && att == nil) || m.busy {
		m.mu.Unlock()
		return
	}

	target := m.activeID
	sess := m.index[target]

	display := text
	if display == "" {
		display = "Analyzing " + att.Name
	}
	sess.append(newUserMessage(display, att != nil, m.now()))
	observability.RecordMessage(string(RoleUser))

	m.busy = true
	m.draft = ""
	m.mu.Unlock()

	reply, latency, err := m.dispatch(ctx, text, att)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.logger.Errorf("turn failed: session=%s err=%v", target, err)
		sess.append(newErrorMessage(userFacingText(err), m.now()))
	} else {
		sess.append(newAssistantMessage(reply, latency, m.now()))
	}
	observability.RecordMessage(string(RoleAssistant))

	m.busy = false
	if att != nil && m.staged == att {
		m.staged = nil
	}
}

func (m *Manager) dispatch(ctx context.Context, text string, att *Attachment) (string, float64, error) {
	if att != nil {
		question := text
		if question == "" {
			question = defaultAnalyzeQuestion
		}
		doc := transport.Document{Name: att.Name, Data: att.Data}
		result, err := m.transport.AnalyzeDocument(ctx, doc, question)
		if err != nil {
			return "", 0, err
		}
		return result.Analysis, result.LatencySeconds, nil
	}

	result, err := m.transport.SendChat(ctx, text)
	if err != nil {
		return "", 0, err
	}
	return result.Answer, result.LatencySeconds, nil
}

// userFacingText maps a classified transport failure to its fixed display
// string. Anything unclassified reads as an HTTP failure; the detail is
// already in the log.
func userFacingText(err error) string {
	kind, ok := transport.KindOf(err)
	if !ok {
		return httpText
	}
	switch kind {
	case transport.KindTimeout:
		return timeoutText
	case transport.KindProtocolMismatch:
		return mismatchText
	case transport.KindNetworkError:
		return networkText
	default:
		return httpText
	}
}

