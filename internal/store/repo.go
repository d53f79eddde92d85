package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID string
	Action    string

	// Set on start.
	Dataset    string
	Symptoms   int
	Conditions int

	// Set on end.
	Reason            string
	QuestionsAnswered int
	TopCondition      string
	TopProbability    float64
	RankingJSON       string
	DurationMs        int64
}

// AnswerEventData captures one accepted answer.
type AnswerEventData struct {
	SessionID          string
	Step               int
	Symptom            string
	Question           string
	Value              int
	LeadingCondition   string
	LeadingProbability float64
}

// AnswerEvent is a stored AnswerEventData.
type AnswerEvent struct {
	AnswerEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// SessionSummary joins a session's start and end events. Sessions that were
// abandoned before termination have an empty Reason.
type SessionSummary struct {
	SessionID         string
	StartedAt         time.Time
	Dataset           string
	Symptoms          int
	Conditions        int
	Reason            string
	QuestionsAnswered int
	TopCondition      string
	TopProbability    float64
	RankingJSON       string
	Duration          time.Duration
}

// Completed reports whether the session reached termination.
func (s SessionSummary) Completed() bool { return s.Reason != "" }

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates LLM calls under one key (purpose or model).
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records an accepted answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionSummaries returns sessions newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error)

	// GetSessionSummary returns one session, or nil if it does not exist.
	GetSessionSummary(ctx context.Context, sessionID string) (*SessionSummary, error)

	// QueryAnswers returns a session's answers in step order.
	QueryAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error)

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM calls per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// Phrasing is a cached patient-facing question for a symptom.
type Phrasing struct {
	Symptom  string
	Question string
	Source   string
}

// PhrasingRepo caches symptom questions per dataset vocabulary.
type PhrasingRepo interface {
	// Get returns the cached questions for the given symptoms. Symptoms
	// without a cached entry are absent from the result.
	Get(ctx context.Context, datasetKey string, symptoms []string) (map[string]Phrasing, error)

	// Put inserts or replaces cached questions.
	Put(ctx context.Context, datasetKey string, phrasings []Phrasing) error
}
