package mcq

import "github.com/gokatarajesh/mcq-platform/internal/auth"

// AccessFilter decides which fields of a question a caller may see and whether they may edit it.
type AccessFilter struct{}

// Project returns the caller's view of q. A missing question, or an unapproved one requested
// by a non-elevated caller, is ErrNotFound.
func (AccessFilter) Project(q *Question, ac auth.Context) (QuestionView, error) {
	if q == nil || (!q.Approved && !ac.Elevated) {
		return QuestionView{}, ErrNotFound
	}

	var view QuestionView
	if ac.Elevated {
		view = fullView(q)
	} else {
		view = publicView(q)
	}

	canEdit := CanEdit(q, ac)
	view.CanEdit = &canEdit
	view.DocID = q.DocID
	return view, nil
}

// CanEdit is true for the author of an unapproved question and for admins, never once the
// question has been published.
func CanEdit(q *Question, ac auth.Context) bool {
	if q.Published() {
		return false
	}
	return (q.Author == ac.Code() && ac.Code() != "" && !q.Approved) || ac.IsAdmin()
}

func fullView(q *Question) QuestionView {
	week, year, approved := q.Week, q.Year, q.Approved
	view := publicView(q)
	view.Week = &week
	view.Year = &year
	view.Approved = &approved
	view.Schedule = q.Schedule
	view.PollID = q.PollID
	view.CorrectOption = q.CorrectOption
	view.Explanation = q.Explanation
	view.Screenshot = q.Screenshot
	view.AdminMessageID = q.AdminMessageID
	return view
}

// publicView drops admin_message_id, correct_option, explanation, screenshot, approved,
// schedule, poll_id, week and year.
func publicView(q *Question) QuestionView {
	return QuestionView{
		DocID:    q.DocID,
		Question: q.Question,
		Code:     q.Code,
		Lang:     q.Lang,
		Options:  q.Options,
		Topic:    q.Topic,
		Author:   q.Author,
		Date:     q.Date,
	}
}

// summaryView is the public listing shape: docId, question, author, topic and date.
func summaryView(q *Question) QuestionView {
	return QuestionView{
		DocID:    q.DocID,
		Question: q.Question,
		Author:   q.Author,
		Topic:    q.Topic,
		Date:     q.Date,
	}
}
