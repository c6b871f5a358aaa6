// Package storage keeps labelled training samples in a sql database (sqlite or postgres).
// Samples are partitioned by group id, so several independent sample sets can share one database.
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/substrbayes/nbclass/app/storage/engine"
)

// AnyClass selects samples of all classes in Read
const AnyClass = -1

// ErrSampleNotFound is returned when a sample to delete doesn't exist
var ErrSampleNotFound = errors.New("sample not found")

// Samples is a storage for labelled samples, both preset (imported from files) and user's (trained live)
type Samples struct {
	*engine.SQL
	engine.RWLocker
}

// Sample is a single stored training example
type Sample struct {
	ID      int64        `db:"id"`
	Class   int          `db:"class"`
	Origin  SampleOrigin `db:"origin"`
	Message string       `db:"message"`
}

// SampleOrigin represents the origin of the sample
type SampleOrigin string

// enum for sample origins
const (
	SampleOriginPreset SampleOrigin = "preset"
	SampleOriginUser   SampleOrigin = "user"
	SampleOriginAny    SampleOrigin = "any"
)

// samples-related command constants
const (
	CmdCreateSamplesTable engine.DBCmd = iota + 100
	CmdCreateSamplesIndexes
	CmdAddSample
)

var samplesQueries = engine.NewQueryMap().
	Add(CmdCreateSamplesTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gid TEXT NOT NULL DEFAULT '',
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			class INTEGER NOT NULL CHECK (class >= 0),
			origin TEXT CHECK (origin IN ('preset', 'user')),
			message TEXT NOT NULL,
			UNIQUE(gid, class, message)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS samples (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			class INTEGER NOT NULL CHECK (class >= 0),
			origin TEXT CHECK (origin IN ('preset', 'user')),
			message TEXT NOT NULL,
			message_hash TEXT GENERATED ALWAYS AS (encode(sha256(message::bytea), 'hex')) STORED,
			UNIQUE(gid, class, message_hash)
		)`,
	}).
	Add(CmdCreateSamplesIndexes, engine.Query{
		Sqlite: `
			CREATE INDEX IF NOT EXISTS idx_samples_gid ON samples(gid);
			CREATE INDEX IF NOT EXISTS idx_samples_lookup ON samples(gid, class, origin)`,
		Postgres: `
			CREATE INDEX IF NOT EXISTS idx_samples_gid ON samples(gid);
			CREATE INDEX IF NOT EXISTS idx_samples_lookup ON samples(gid, class, origin)`,
	}).
	Add(CmdAddSample, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO samples (gid, class, origin, message) VALUES (?, ?, ?, ?)`,
		Postgres: `INSERT INTO samples (gid, class, origin, message) VALUES ($1, $2, $3, $4)
			ON CONFLICT (gid, class, message_hash) DO UPDATE SET origin = EXCLUDED.origin`,
	})

// NewSamples creates a new Samples storage
func NewSamples(ctx context.Context, db *engine.SQL) (*Samples, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Samples{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "samples",
		CreateTable:   CmdCreateSamplesTable,
		CreateIndexes: CmdCreateSamplesIndexes,
		MigrateFunc:   res.migrate,
		QueriesMap:    samplesQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init samples storage: %w", err)
	}
	return res, nil
}

// Add adds a sample to the storage. The same message may belong to several classes,
// adding it again to the same class replaces its origin.
func (s *Samples) Add(ctx context.Context, class int, o SampleOrigin, message string) error {
	dbgMsg := message
	if len(dbgMsg) > 1024 {
		dbgMsg = dbgMsg[:1024] + "..."
	}
	log.Printf("[DEBUG] adding sample: class %d, %s, %q", class, o, dbgMsg)
	if class < 0 {
		return fmt.Errorf("invalid sample class %d", class)
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if o == SampleOriginAny {
		return fmt.Errorf("can't add sample with origin 'any'")
	}
	if message == "" {
		return fmt.Errorf("message can't be empty")
	}

	s.Lock()
	defer s.Unlock()

	query, err := samplesQueries.Pick(s.Type(), CmdAddSample)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}
	if _, err := s.ExecContext(ctx, query, s.GID(), class, o, message); err != nil {
		return fmt.Errorf("failed to add sample: %w", err)
	}
	return nil
}

// Delete removes a sample from the storage by its ID
func (s *Samples) Delete(ctx context.Context, id int64) error {
	log.Printf("[DEBUG] deleting sample: %d", id)
	s.Lock()
	defer s.Unlock()

	result, err := s.ExecContext(ctx, s.Adopt(`DELETE FROM samples WHERE gid = ? AND id = ?`), s.GID(), id)
	if err != nil {
		return fmt.Errorf("failed to remove sample: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%d", ErrSampleNotFound, id)
	}
	return nil
}

// DeleteMessage removes a sample of the class and origin from the storage by its message.
// AnyClass and SampleOriginAny match everything.
func (s *Samples) DeleteMessage(ctx context.Context, class int, o SampleOrigin, message string) error {
	log.Printf("[DEBUG] deleting sample: class %d, %s, %q", class, o, message)
	if err := o.Validate(); err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()

	gid := s.GID()
	query := `DELETE FROM samples WHERE gid = ? AND message = ?`
	args := []any{gid, message}
	if class != AnyClass {
		query += ` AND class = ?`
		args = append(args, class)
	}
	if o != SampleOriginAny {
		query += ` AND origin = ?`
		args = append(args, o)
	}
	result, err := s.ExecContext(ctx, s.Adopt(query), args...)
	if err != nil {
		return fmt.Errorf("failed to remove sample: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: gid=%s, class=%d, origin=%s, message=%s", ErrSampleNotFound, gid, class, o, message)
	}
	return nil
}

// Read returns messages by class and origin, AnyClass and SampleOriginAny match everything.
// Messages are ordered by insertion.
func (s *Samples) Read(ctx context.Context, class int, o SampleOrigin) ([]string, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	s.RLock()
	defer s.RUnlock()

	query, args := s.selectQuery("message", class, o)
	samples := []string{}
	if err := s.SelectContext(ctx, &samples, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}
	log.Printf("[DEBUG] read %d samples: gid=%s, class=%d, origin=%s", len(samples), s.GID(), class, o)
	return samples, nil
}

// Iterator returns an iterator over samples of all classes for the origin, ordered by insertion.
// The iterator respects context cancellation.
func (s *Samples) Iterator(ctx context.Context, o SampleOrigin) (iter.Seq[Sample], error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	query, args := s.selectQuery("id, class, origin, message", AnyClass, o)
	s.RLock()
	rows, err := s.QueryxContext(ctx, query, args...)
	s.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}

	return func(yield func(Sample) bool) {
		defer rows.Close()
		for rows.Next() {
			if ctx.Err() != nil {
				return
			}
			var sample Sample
			if err := rows.StructScan(&sample); err != nil {
				log.Printf("[ERROR] scan failed: %v", err)
				return
			}
			if !yield(sample) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			log.Printf("[ERROR] rows iteration failed: %v", err)
		}
	}, nil
}

// Import reads samples line by line and stores them with the given class and origin.
// If withCleanup is true removes all samples with the same class and origin before import.
func (s *Samples) Import(ctx context.Context, class int, o SampleOrigin, r io.Reader, withCleanup bool) (*SamplesStats, error) {
	if class < 0 {
		return nil, fmt.Errorf("invalid sample class %d", class)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o == SampleOriginAny {
		return nil, fmt.Errorf("can't import samples with origin 'any'")
	}
	if r == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	gid := s.GID()

	s.Lock()
	defer s.Unlock()

	tx, err := s.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if withCleanup {
		query := s.Adopt(`DELETE FROM samples WHERE gid = ? AND class = ? AND origin = ?`)
		result, errDel := tx.ExecContext(ctx, query, gid, class, o)
		if errDel != nil {
			return nil, fmt.Errorf("failed to remove old samples: %w", errDel)
		}
		affected, errCount := result.RowsAffected()
		if errCount != nil {
			return nil, fmt.Errorf("failed to get affected rows: %w", errCount)
		}
		log.Printf("[DEBUG] removed %d old samples: gid=%s, class=%d, origin=%s", affected, gid, class, o)
	}

	query, err := samplesQueries.Pick(s.Type(), CmdAddSample)
	if err != nil {
		return nil, fmt.Errorf("failed to get import query: %w", err)
	}
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 64 * 1024 // 64KB max line length
	scanner.Buffer(make([]byte, maxScanTokenSize), maxScanTokenSize)

	added := 0
	for scanner.Scan() {
		message := scanner.Text()
		if message == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, query, gid, class, o, message); err != nil {
			return nil, fmt.Errorf("failed to add sample: %w", err)
		}
		added++
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[DEBUG] imported %d samples: gid=%s, class=%d, origin=%s", added, gid, class, o)
	return s.stats(ctx)
}

// String implements Stringer interface
func (o SampleOrigin) String() string { return string(o) }

// Validate checks if the sample origin is valid
func (o SampleOrigin) Validate() error {
	switch o {
	case SampleOriginPreset, SampleOriginUser, SampleOriginAny:
		return nil
	}
	return fmt.Errorf("invalid sample origin: %s", o)
}

// ClassStats is a number of samples of a class per origin
type ClassStats struct {
	Preset int `json:"preset"`
	User   int `json:"user"`
}

// SamplesStats returns statistics about samples
type SamplesStats struct {
	Total   int                `json:"total"`
	ByClass map[int]ClassStats `json:"by_class"`
}

// String provides a string representation of the statistics
func (st *SamplesStats) String() string {
	return fmt.Sprintf("total: %d, classes: %d", st.Total, len(st.ByClass))
}

// Stats returns statistics about samples
func (s *Samples) Stats(ctx context.Context) (*SamplesStats, error) {
	s.RLock()
	defer s.RUnlock()
	return s.stats(ctx)
}

// stats returns statistics about samples without locking
func (s *Samples) stats(ctx context.Context) (*SamplesStats, error) {
	query := s.Adopt(`SELECT class, origin, COUNT(*) AS cnt FROM samples WHERE gid = ? GROUP BY class, origin`)
	var rows []struct {
		Class  int          `db:"class"`
		Origin SampleOrigin `db:"origin"`
		Count  int          `db:"cnt"`
	}
	if err := s.SelectContext(ctx, &rows, query, s.GID()); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	res := &SamplesStats{ByClass: make(map[int]ClassStats)}
	for _, r := range rows {
		cs := res.ByClass[r.Class]
		switch r.Origin {
		case SampleOriginPreset:
			cs.Preset += r.Count
		case SampleOriginUser:
			cs.User += r.Count
		}
		res.ByClass[r.Class] = cs
		res.Total += r.Count
	}
	return res, nil
}

func (s *Samples) selectQuery(columns string, class int, o SampleOrigin) (query string, args []any) {
	query = `SELECT ` + columns + ` FROM samples WHERE gid = ?`
	args = []any{s.GID()}
	if class != AnyClass {
		query += ` AND class = ?`
		args = append(args, class)
	}
	if o != SampleOriginAny {
		query += ` AND origin = ?`
		args = append(args, o)
	}
	return s.Adopt(query + ` ORDER BY id`), args
}

func (s *Samples) migrate(_ context.Context, _ *sqlx.Tx, _ string) error {
	// no migration needed for now
	return nil
}
