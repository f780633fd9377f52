package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/mcq-platform/internal/db"
	"github.com/gokatarajesh/mcq-platform/internal/mcq"
)

const questionColumns = `doc_id, question, code, lang, options, topic, author, "date", week, year,
	approved, schedule, poll_id, correct_option, explanation, screenshot, admin_message_id`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// QuestionRepository reads questions from Postgres.
type QuestionRepository struct {
	store querier
}

// NewQuestionRepository wraps a pgx pool, connection or transaction.
func NewQuestionRepository(store querier) *QuestionRepository {
	return &QuestionRepository{store: store}
}

var _ mcq.QueryGateway = (*QuestionRepository)(nil)

type questionRow struct {
	DocID          pgtype.UUID        `db:"doc_id"`
	Question       string             `db:"question"`
	Code           pgtype.Text        `db:"code"`
	Lang           pgtype.Text        `db:"lang"`
	Options        []string           `db:"options"`
	Topic          string             `db:"topic"`
	Author         string             `db:"author"`
	Date           pgtype.Timestamptz `db:"date"`
	Week           int32              `db:"week"`
	Year           int32              `db:"year"`
	Approved       bool               `db:"approved"`
	Schedule       pgtype.Timestamptz `db:"schedule"`
	PollID         pgtype.Text        `db:"poll_id"`
	CorrectOption  pgtype.Int4        `db:"correct_option"`
	Explanation    pgtype.Text        `db:"explanation"`
	Screenshot     pgtype.Text        `db:"screenshot"`
	AdminMessageID pgtype.Int8        `db:"admin_message_id"`
}

// GetQuestion returns the question with docID, or nil when there is none.
// An id that is not a UUID cannot exist and is reported as not found.
func (r *QuestionRepository) GetQuestion(ctx context.Context, docID string) (*mcq.Question, error) {
	id, err := uuid.Parse(docID)
	if err != nil {
		return nil, nil
	}

	rows, err := r.store.Query(ctx, "SELECT "+questionColumns+" FROM questions WHERE doc_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[questionRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	q := row.toDomain()
	return &q, nil
}

// ListQuestions returns questions matching query, newest first.
func (r *QuestionRepository) ListQuestions(ctx context.Context, query mcq.QuestionQuery) ([]mcq.Question, error) {
	qb := buildListQuery(query)

	rows, err := r.store.Query(ctx, qb.String(), qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[questionRow])
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	out := make([]mcq.Question, 0, len(found))
	for _, row := range found {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func buildListQuery(query mcq.QuestionQuery) *db.QueryBuilder {
	var qb db.QueryBuilder
	qb.Add("SELECT " + questionColumns)
	qb.Add("FROM questions")
	if query.Week != 0 {
		qb.Where("week = $?", query.Week)
	}
	if query.Year != 0 {
		qb.Where("year = $?", query.Year)
	}
	if query.Lang != "" {
		qb.Where("lang = $?", query.Lang)
	}
	if query.Topic != "" {
		qb.Where("topic = $?", query.Topic)
	}
	if query.Author != "" {
		qb.Where("author = $?", query.Author)
	}
	if query.ApprovedOnly {
		qb.Where("approved")
	}
	if query.Before != 0 {
		qb.Where(`"date" < to_timestamp($?)`, query.Before)
	}
	qb.Add(`ORDER BY "date" DESC, doc_id DESC`)
	if query.Limit > 0 {
		qb.Add("LIMIT $?", query.Limit)
	}
	return &qb
}

func (row questionRow) toDomain() mcq.Question {
	q := mcq.Question{
		Question: row.Question,
		Code:     row.Code.String,
		Lang:     row.Lang.String,
		Options:  row.Options,
		Topic:    row.Topic,
		Author:   row.Author,
		Week:     int(row.Week),
		Year:     int(row.Year),
		Approved: row.Approved,
	}
	if row.DocID.Valid {
		q.DocID = uuid.UUID(row.DocID.Bytes).String()
	}
	if row.Date.Valid {
		q.Date = row.Date.Time.Unix()
	}
	if row.Schedule.Valid {
		schedule := row.Schedule.Time.Unix()
		q.Schedule = &schedule
	}
	if row.PollID.Valid {
		q.PollID = &row.PollID.String
	}
	if row.CorrectOption.Valid {
		opt := int(row.CorrectOption.Int32)
		q.CorrectOption = &opt
	}
	if row.Explanation.Valid {
		q.Explanation = &row.Explanation.String
	}
	if row.Screenshot.Valid {
		q.Screenshot = &row.Screenshot.String
	}
	if row.AdminMessageID.Valid {
		q.AdminMessageID = &row.AdminMessageID.Int64
	}
	return q
}
