package mcq

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gokatarajesh/mcq-platform/internal/auth"
	"github.com/gokatarajesh/mcq-platform/internal/timetable"
)

// memoryGateway applies QuestionQuery the way the Postgres repository does.
type memoryGateway struct {
	mu        sync.Mutex
	questions []Question
	queries   []QuestionQuery
	gets      int
	err       error
}

func (g *memoryGateway) GetQuestion(_ context.Context, docID string) (*Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gets++
	if g.err != nil {
		return nil, g.err
	}
	for _, q := range g.questions {
		if q.DocID == docID {
			found := q
			return &found, nil
		}
	}
	return nil, nil
}

func (g *memoryGateway) ListQuestions(_ context.Context, query QuestionQuery) ([]Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, query)
	if g.err != nil {
		return nil, g.err
	}

	var out []Question
	for _, q := range g.questions {
		switch {
		case query.Week != 0 && q.Week != query.Week,
			query.Year != 0 && q.Year != query.Year,
			query.Lang != "" && q.Lang != query.Lang,
			query.Topic != "" && q.Topic != query.Topic,
			query.Author != "" && q.Author != query.Author,
			query.ApprovedOnly && !q.Approved,
			query.Before != 0 && q.Date >= query.Before:
			continue
		}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

type memoryCache struct {
	store map[string]Question
	err   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string]Question{}}
}

func (c *memoryCache) Get(_ context.Context, docID string) (*Question, error) {
	if c.err != nil {
		return nil, c.err
	}
	if q, ok := c.store[docID]; ok {
		return &q, nil
	}
	return nil, nil
}

func (c *memoryCache) Set(_ context.Context, q Question) error {
	if c.err != nil {
		return c.err
	}
	c.store[q.DocID] = q
	return nil
}

var errStoreDown = errors.New("store unavailable")

func ist(t *testing.T) *time.Location {
	t.Helper()
	loc, err := ParseOffset(DefaultOffset)
	if err != nil {
		t.Fatalf("parse offset: %v", err)
	}
	return loc
}

// wednesdayMorning is Wednesday 2024-05-15 10:00 at +05:30 (quota week 20 of 2024).
func wednesdayMorning(t *testing.T) time.Time {
	return time.Date(2024, time.May, 15, 10, 0, 0, 0, ist(t))
}

func mustTimetable(t *testing.T, doc string) *timetable.Timetable {
	t.Helper()
	tt, err := timetable.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse timetable: %v", err)
	}
	return tt
}

const algebraTimetable = `
slots:
  - code: S1
    startHr: 9
  - code: S2
    startHr: 15
timetable:
  Monday:
    S1: { topic: algebra, assignee: C001 }
    S2: { topic: geometry, assignee: C002 }
`

func contributor(code string) auth.Context {
	return auth.Context{User: &auth.User{Code: code}, Elevated: true}
}

func admin(code string) auth.Context {
	return auth.Context{User: &auth.User{Code: code, Admin: true}, Elevated: true}
}

func publicCaller(code string) auth.Context {
	if code == "" {
		return auth.Context{}
	}
	return auth.Context{User: &auth.User{Code: code}}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
