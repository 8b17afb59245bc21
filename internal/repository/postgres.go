package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"phongtro/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresRepository stores room vectors and metadata in PostgreSQL+pgvector.
type PostgresRepository struct {
	db  *sqlx.DB
	dim int
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn, embeddingDim int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db, dim: embeddingDim}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Migrate creates the schema if it does not exist yet.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS rooms (
			room_id     TEXT PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			price       TEXT NOT NULL DEFAULT '',
			area        TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT '',
			options     JSONB,
			images      JSONB,
			phone       TEXT NOT NULL DEFAULT '',
			username    TEXT NOT NULL DEFAULT '',
			user_id     TEXT NOT NULL DEFAULT '',
			posted_at   TEXT NOT NULL DEFAULT '',
			updated_at  TEXT NOT NULL DEFAULT '',
			embedding   vector(%d),
			indexed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.dim),
		`CREATE TABLE IF NOT EXISTS search_logs (
			search_id        UUID PRIMARY KEY,
			question         TEXT NOT NULL,
			criteria         JSONB,
			result_count     INT NOT NULL,
			response_time_ms INT NOT NULL,
			user_id          TEXT NOT NULL DEFAULT '',
			session_id       TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

const roomColumns = `room_id, title, description, location, price, area, category,
	options, images, phone, username, user_id, posted_at, updated_at`

// UpsertBatch writes a batch of rooms with their embeddings. Re-indexing an
// existing room_id overwrites the stored row instead of duplicating it.
func (r *PostgresRepository) UpsertBatch(ctx context.Context, rooms []model.Room, embeddings [][]float32) error {
	if len(rooms) != len(embeddings) {
		return fmt.Errorf("rooms and embeddings length mismatch: %d vs %d", len(rooms), len(embeddings))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO rooms (room_id, title, description, location, price, area, category,
			options, images, phone, username, user_id, posted_at, updated_at, embedding, indexed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (room_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			price = EXCLUDED.price,
			area = EXCLUDED.area,
			category = EXCLUDED.category,
			options = EXCLUDED.options,
			images = EXCLUDED.images,
			phone = EXCLUDED.phone,
			username = EXCLUDED.username,
			user_id = EXCLUDED.user_id,
			posted_at = EXCLUDED.posted_at,
			updated_at = EXCLUDED.updated_at,
			embedding = EXCLUDED.embedding,
			indexed_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, room := range rooms {
		vec := pgvector.NewVector(embeddings[i])
		_, err := stmt.ExecContext(ctx,
			room.ID, room.Title, room.Description, room.Location, room.Price,
			room.Area, room.Category, room.Options, room.Images, room.Phone,
			room.Username, room.UserID, room.PostedAt, room.UpdatedAt, vec,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert room %s: %w", room.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Query returns up to topK rooms nearest to the given embedding, ordered by
// descending cosine similarity (1 - cosine distance).
func (r *PostgresRepository) Query(ctx context.Context, embedding []float32, topK int) ([]model.Room, error) {
	vec := pgvector.NewVector(embedding)
	query := fmt.Sprintf(`
		SELECT %s, 1 - (embedding <=> $1) AS similarity
		FROM rooms
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, roomColumns)

	var rooms []model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, vec, topK); err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	return rooms, nil
}

// GetByID retrieves a single room by its identifier, nil when absent.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE room_id = $1`, roomColumns)

	var room model.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// Clear drops all indexed rooms. Used by forced reindex.
func (r *PostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE rooms`); err != nil {
		return fmt.Errorf("failed to clear rooms: %w", err)
	}
	return nil
}

// Count returns the number of indexed rooms.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rooms`); err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

// LogSearch records one processed question for later analysis.
func (r *PostgresRepository) LogSearch(ctx context.Context, searchID, question string, criteria model.Criteria, resultCount, responseTimeMS int, userID, sessionID string) error {
	criteriaJSON, err := json.Marshal(loggableCriteria(criteria))
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		INSERT INTO search_logs (search_id, question, criteria, result_count, response_time_ms, user_id, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query, searchID, question, criteriaJSON, resultCount, responseTimeMS, userID, sessionID); err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// loggableCriteria flattens a criteria bundle into a JSON-safe shape.
// An unbounded upper range is stored as a null max rather than +Inf,
// which encoding/json cannot represent.
func loggableCriteria(c model.Criteria) map[string]interface{} {
	out := map[string]interface{}{
		"location":       c.Location,
		"category":       c.Category,
		"amenities":      c.Amenities,
		"rental_request": c.RentalRequest,
	}
	if c.Price != nil {
		out["price_min"] = c.Price.Min
		if !c.Price.UnboundedAbove() {
			out["price_max"] = c.Price.Max
		}
	}
	if c.Area != nil {
		out["area_min"] = c.Area.Min
		if !c.Area.UnboundedAbove() {
			out["area_max"] = c.Area.Max
		}
	}
	return out
}
