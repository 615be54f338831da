package repository

import (
	"context"

	"trend-herald/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createThreadTables = `
CREATE TABLE IF NOT EXISTS posted_threads (
    id          BIGSERIAL   PRIMARY KEY,
    posted_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    symbols     TEXT[]      NOT NULL,
    post_count  INT         NOT NULL,
    complete    BOOLEAN     NOT NULL
);

CREATE TABLE IF NOT EXISTS posted_posts (
    thread_id   BIGINT NOT NULL REFERENCES posted_threads(id) ON DELETE CASCADE,
    position    INT    NOT NULL,
    post_id     TEXT   NOT NULL,
    in_reply_to TEXT,
    body        TEXT   NOT NULL,
    PRIMARY KEY (thread_id, position)
);

CREATE INDEX IF NOT EXISTS idx_posted_threads_posted_at
    ON posted_threads (posted_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ThreadRepository persists publish history. Partial threads are recorded
// with complete = false so an operator can recover them by hand.
type ThreadRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewThreadRepository(pool PgxPool, tracer trace.Tracer) *ThreadRepository {
	return &ThreadRepository{pool: pool, tracer: tracer}
}

func (r *ThreadRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "thread-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createThreadTables)
	return err
}

// SaveThread records the posts that actually went out. results may be a
// prefix of thread when the publish aborted mid-chain.
func (r *ThreadRepository) SaveThread(ctx context.Context, symbols []string, thread domain.Thread, results []domain.PublishResult, complete bool) error {
	ctx, span := r.tracer.Start(ctx, "thread-repo.save-thread")
	defer span.End()

	var threadID int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO posted_threads (symbols, post_count, complete)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		symbols, len(results), complete,
	).Scan(&threadID)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, res := range results {
		body := ""
		if i < len(thread) {
			body = thread[i]
		}
		var inReplyTo *string
		if res.InReplyTo != "" {
			inReplyTo = &res.InReplyTo
		}
		batch.Queue(
			`INSERT INTO posted_posts (thread_id, position, post_id, in_reply_to, body)
			 VALUES ($1, $2, $3, $4, $5)`,
			threadID, i, res.PostID, inReplyTo, body,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// RecentThreads returns the newest publish-history entries, posts included.
func (r *ThreadRepository) RecentThreads(ctx context.Context, limit int) ([]*domain.PublishedThread, error) {
	ctx, span := r.tracer.Start(ctx, "thread-repo.recent-threads")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, posted_at, symbols, post_count, complete
		 FROM posted_threads
		 ORDER BY posted_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*domain.PublishedThread
	for rows.Next() {
		pt := &domain.PublishedThread{}
		if err := rows.Scan(&pt.ID, &pt.PostedAt, &pt.Symbols, &pt.PostCount, &pt.Complete); err != nil {
			return nil, err
		}
		threads = append(threads, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, pt := range threads {
		posts, err := r.threadPosts(ctx, pt.ID)
		if err != nil {
			return nil, err
		}
		pt.Posts = posts
	}
	return threads, nil
}

func (r *ThreadRepository) threadPosts(ctx context.Context, threadID int64) ([]domain.PublishResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT post_id, in_reply_to
		 FROM posted_posts
		 WHERE thread_id = $1
		 ORDER BY position`,
		threadID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.PublishResult
	for rows.Next() {
		var res domain.PublishResult
		var inReplyTo *string
		if err := rows.Scan(&res.PostID, &inReplyTo); err != nil {
			return nil, err
		}
		if inReplyTo != nil {
			res.InReplyTo = *inReplyTo
		}
		posts = append(posts, res)
	}
	return posts, rows.Err()
}
