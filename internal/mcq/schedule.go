package mcq

import (
	"time"

	"github.com/gokatarajesh/mcq-platform/internal/auth"
	"github.com/gokatarajesh/mcq-platform/internal/timetable"
)

// ScheduleResolver turns the weekly timetable into the next instant a contributor may publish.
type ScheduleResolver struct {
	table *timetable.Timetable
	loc   *time.Location
}

// NewScheduleResolver binds a timetable to the offset its hours are expressed in.
func NewScheduleResolver(table *timetable.Timetable, loc *time.Location) *ScheduleResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleResolver{table: table, loc: loc}
}

// Location returns the offset used for quota weeks and slot hours.
func (r *ScheduleResolver) Location() *time.Location {
	return r.loc
}

// SubmissionQuery is the store query for approved submissions of topic by the caller in the
// quota week containing now.
func (r *ScheduleResolver) SubmissionQuery(topic string, ac auth.Context, now time.Time) QuestionQuery {
	week, year := QuotaWeek(now, r.loc)
	return QuestionQuery{
		Week:         week,
		Year:         year,
		Topic:        topic,
		Author:       ac.Code(),
		ApprovedOnly: true,
	}
}

// Resolve returns the unix timestamp of the caller's next slot for topic. submissions are the
// current quota week's questions, newest first.
func (r *ScheduleResolver) Resolve(topic string, ac auth.Context, submissions []Question, now time.Time) (int64, error) {
	if !ac.Elevated {
		return 0, ErrUnauthorized
	}

	code := ac.Code()
	if !ac.IsAdmin() {
		for i := range submissions {
			s := &submissions[i]
			if s.Approved && s.Topic == topic && s.Author == code {
				return 0, ErrAlreadyPosted
			}
		}
	}

	// Full scan without early exit: when several cells assign the same topic to the caller,
	// the last one in timetable order decides.
	var (
		match *timetable.Assignment
		hour  int
	)
	if code != "" && r.table != nil {
		entries := r.table.Entries()
		for i := range entries {
			e := &entries[i]
			if e.Assignee != code || e.Topic != topic {
				continue
			}
			if hr, ok := r.table.StartHour(e.Slot); ok {
				match, hour = e, hr
			}
		}
	}

	if match != nil {
		return NextOccurrence(now, match.Day, hour, r.loc).Unix(), nil
	}
	if ac.IsAdmin() {
		return now.Truncate(time.Minute).Unix(), nil
	}
	return 0, ErrNoSchedule
}
