package mcq

import "context"

// Question is the stored quiz question record.
type Question struct {
	DocID          string   `json:"docId"`
	Question       string   `json:"question"`
	Code           string   `json:"code,omitempty"`
	Lang           string   `json:"lang,omitempty"`
	Options        []string `json:"options,omitempty"`
	Topic          string   `json:"topic"`
	Author         string   `json:"author"`
	Date           int64    `json:"date"`
	Week           int      `json:"week"`
	Year           int      `json:"year"`
	Approved       bool     `json:"approved"`
	Schedule       *int64   `json:"schedule,omitempty"`
	PollID         *string  `json:"poll_id,omitempty"`
	CorrectOption  *int     `json:"correct_option,omitempty"`
	Explanation    *string  `json:"explanation,omitempty"`
	Screenshot     *string  `json:"screenshot,omitempty"`
	AdminMessageID *int64   `json:"admin_message_id,omitempty"`
}

// Published reports whether the question was posted to the chat group.
func (q *Question) Published() bool {
	return q.PollID != nil && *q.PollID != ""
}

// QuestionView is the JSON shape returned to callers. Restricted fields are pointers so a
// projection can drop them while an elevated caller still sees zero values such as approved=false.
type QuestionView struct {
	DocID          string   `json:"docId"`
	Question       string   `json:"question"`
	Code           string   `json:"code,omitempty"`
	Lang           string   `json:"lang,omitempty"`
	Options        []string `json:"options,omitempty"`
	Topic          string   `json:"topic"`
	Author         string   `json:"author"`
	Date           int64    `json:"date"`
	Week           *int     `json:"week,omitempty"`
	Year           *int     `json:"year,omitempty"`
	Approved       *bool    `json:"approved,omitempty"`
	Schedule       *int64   `json:"schedule,omitempty"`
	PollID         *string  `json:"poll_id,omitempty"`
	CorrectOption  *int     `json:"correct_option,omitempty"`
	Explanation    *string  `json:"explanation,omitempty"`
	Screenshot     *string  `json:"screenshot,omitempty"`
	AdminMessageID *int64   `json:"admin_message_id,omitempty"`
	CanEdit        *bool    `json:"canEdit,omitempty"`
}

// ListFilters are the optional listing filters. Zero values mean "not set".
type ListFilters struct {
	Week   int
	Year   int
	Lang   string
	Topic  string
	Author string
	Cursor int64
}

// Narrowed reports whether the listing targets a single quota week partition.
func (f ListFilters) Narrowed() bool {
	return f.Week != 0 && f.Year != 0
}

// ListResult is the listing response envelope.
type ListResult struct {
	Response   []QuestionView `json:"response"`
	Count      int            `json:"count"`
	NextPage   bool           `json:"nextPage"`
	NextCursor *int64         `json:"nextCursor,omitempty"`
}

// ScheduleResult is the schedule response envelope.
type ScheduleResult struct {
	Schedule int64 `json:"schedule"`
}

// QuestionQuery describes a store range query, always ordered by date descending.
// Zero-valued fields add no predicate. Before is an exclusive upper bound on date.
type QuestionQuery struct {
	Week         int
	Year         int
	Lang         string
	Topic        string
	Author       string
	ApprovedOnly bool
	Before       int64
	Limit        int
}

// QueryGateway executes read queries against the persistent store.
type QueryGateway interface {
	GetQuestion(ctx context.Context, docID string) (*Question, error)
	ListQuestions(ctx context.Context, q QuestionQuery) ([]Question, error)
}

// QuestionCache caches single question lookups. Get returns nil, nil on a miss.
type QuestionCache interface {
	Get(ctx context.Context, docID string) (*Question, error)
	Set(ctx context.Context, q Question) error
}
