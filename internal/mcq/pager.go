package mcq

import "github.com/gokatarajesh/mcq-platform/internal/auth"

// DefaultPageSize bounds listings that are not narrowed to one quota week.
const DefaultPageSize = 10

// ListPager builds listing queries and windows their results.
type ListPager struct {
	pageSize int
}

// NewListPager returns a pager; pageSize <= 0 falls back to DefaultPageSize.
func NewListPager(pageSize int) *ListPager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListPager{pageSize: pageSize}
}

// Query translates filters into a store query. All filters are sent as store predicates so
// matches past the fetch boundary are never lost; unnarrowed listings fetch one extra row to
// detect a following page.
func (p *ListPager) Query(f ListFilters, ac auth.Context) QuestionQuery {
	q := QuestionQuery{
		Week:         f.Week,
		Year:         f.Year,
		Lang:         f.Lang,
		Topic:        f.Topic,
		Author:       f.Author,
		ApprovedOnly: !ac.Elevated,
		Before:       f.Cursor,
	}
	if !f.Narrowed() {
		q.Limit = p.pageSize + 1
	}
	return q
}

// Page filters batch in memory, projects it for the caller and computes continuation.
func (p *ListPager) Page(batch []Question, f ListFilters, ac auth.Context) ListResult {
	matched := make([]*Question, 0, len(batch))
	for i := range batch {
		if matches(&batch[i], f, !ac.Elevated) {
			matched = append(matched, &batch[i])
		}
	}

	window := matched
	if !f.Narrowed() && len(window) > p.pageSize {
		window = window[:pageEnd(matched, p.pageSize)]
	}

	result := ListResult{Response: make([]QuestionView, 0, len(window))}
	for _, q := range window {
		if ac.Elevated {
			result.Response = append(result.Response, fullView(q))
		} else {
			result.Response = append(result.Response, summaryView(q))
		}
	}
	result.Count = len(result.Response)

	if len(matched) > len(window) {
		next := window[len(window)-1].Date
		result.NextPage = true
		result.NextCursor = &next
	}
	return result
}

// pageEnd returns how many of matched go on a full page. The next page resumes strictly before
// the last returned date, so a page never ends inside a run of equal dates; a run filling the
// whole page is returned as is.
func pageEnd(matched []*Question, pageSize int) int {
	boundary := matched[pageSize].Date
	end := pageSize
	for end > 0 && matched[end-1].Date == boundary {
		end--
	}
	if end == 0 {
		return pageSize
	}
	return end
}

func matches(q *Question, f ListFilters, approvedOnly bool) bool {
	switch {
	case f.Week != 0 && q.Week != f.Week:
		return false
	case f.Year != 0 && q.Year != f.Year:
		return false
	case f.Lang != "" && q.Lang != f.Lang:
		return false
	case f.Topic != "" && q.Topic != f.Topic:
		return false
	case f.Author != "" && q.Author != f.Author:
		return false
	case f.Cursor != 0 && q.Date >= f.Cursor:
		return false
	case approvedOnly && !q.Approved:
		return false
	}
	return true
}
