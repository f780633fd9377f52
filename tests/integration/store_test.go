//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/mcq-platform/internal/db/repository"
	"github.com/gokatarajesh/mcq-platform/internal/mcq"
)

// connectPostgres expects a database migrated with cmd/migrator.
func connectPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("INTEGRATION_PG_DSN")
	if dsn == "" {
		t.Skip("INTEGRATION_PG_DSN not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestQuestionRepositoryAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pool := connectPostgres(t)

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	base := time.Date(2024, time.May, 20, 3, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := tx.Exec(ctx, `INSERT INTO questions (question, topic, author, "date", week, year, approved, lang)
			VALUES ($1, 'it-topic', 'IT001', $2, 21, 2024, $3, 'go')`,
			"question", base.Add(-time.Duration(i)*time.Hour), i%2 == 0)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	repo := repository.NewQuestionRepository(tx)

	all, err := repo.ListQuestions(ctx, mcq.QuestionQuery{Topic: "it-topic"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date >= all[i-1].Date {
			t.Fatalf("rows not ordered by date desc at %d", i)
		}
	}

	approved, err := repo.ListQuestions(ctx, mcq.QuestionQuery{Topic: "it-topic", ApprovedOnly: true, Before: base.Unix(), Limit: 1})
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 1 || !approved[0].Approved || approved[0].Date >= base.Unix() {
		t.Fatalf("unexpected approved page: %+v", approved)
	}

	got, err := repo.GetQuestion(ctx, all[0].DocID)
	if err != nil || got == nil {
		t.Fatalf("get %s: %v %v", all[0].DocID, got, err)
	}
	if got.Author != "IT001" || got.Week != 21 {
		t.Fatalf("unexpected question: %+v", got)
	}
}

func TestQuestionDatesAreWholeSeconds(t *testing.T) {
	ctx := context.Background()
	pool := connectPostgres(t)

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	at := time.Date(2024, time.May, 20, 3, 30, 0, 400_000_000, time.UTC)
	var whole bool
	err = tx.QueryRow(ctx, `INSERT INTO questions (question, topic, author, "date", week, year)
		VALUES ('q', 'it-seconds', 'IT002', $1, 21, 2024)
		RETURNING "date" = date_trunc('second', "date")`, at).Scan(&whole)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !whole {
		t.Fatal("stored date keeps sub-second precision; list cursors would skip rows")
	}
}

func TestQuestionCacheAgainstRedis(t *testing.T) {
	addr := os.Getenv("INTEGRATION_REDIS_ADDR")
	if addr == "" {
		t.Skip("INTEGRATION_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	cache := mcq.NewCache(client, time.Second)
	docID := "it-" + time.Now().Format("150405.000000000")

	miss, err := cache.Get(ctx, docID)
	if err != nil || miss != nil {
		t.Fatalf("expected clean miss, got %v %v", miss, err)
	}

	if err := cache.Set(ctx, mcq.Question{DocID: docID, Topic: "it-topic", Approved: true}); err != nil {
		t.Fatalf("set: %v", err)
	}
	hit, err := cache.Get(ctx, docID)
	if err != nil || hit == nil || hit.Topic != "it-topic" {
		t.Fatalf("expected hit, got %v %v", hit, err)
	}
}
