package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// schemaVersion is bumped when the snapshot layout changes. Loads
// tolerate rows written by older versions: missing fields keep their
// zero values.
const schemaVersion = 1

// Store persists memory records to SQLite so lifecycle state can
// survive a restart. NOT an interface - concrete type. The tracker
// works fine without one; hosts that want session-only memory just
// never attach a store.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenStore opens (or creates) the snapshot database at dbPath.
// Uses WAL mode for file-based databases.
func OpenStore(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same DB.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_records (
		id                   TEXT PRIMARY KEY,
		version              INTEGER NOT NULL,
		lifecycle_state      TEXT NOT NULL,
		entered_at           DATETIME NOT NULL,
		seen_cycles          INTEGER DEFAULT 0,
		has_appeared_before  INTEGER DEFAULT 0,
		previous_appearances INTEGER DEFAULT 0,
		resurfaced_at        DATETIME,
		resurface_reason     TEXT,
		origin               TEXT,
		trigger              TEXT,
		ranking_rationale    TEXT,
		interventions        TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_memory_state ON memory_records(lifecycle_state);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveRecords upserts the given records. Called with the tracker's
// full snapshot; per-row errors abort the batch.
func (s *Store) SaveRecords(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(records) == 0 {
		return nil
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO memory_records (
			id, version, lifecycle_state, entered_at, seen_cycles,
			has_appeared_before, previous_appearances, resurfaced_at,
			resurface_reason, origin, trigger, ranking_rationale, interventions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			lifecycle_state = excluded.lifecycle_state,
			entered_at = excluded.entered_at,
			seen_cycles = excluded.seen_cycles,
			has_appeared_before = excluded.has_appeared_before,
			previous_appearances = excluded.previous_appearances,
			resurfaced_at = excluded.resurfaced_at,
			resurface_reason = excluded.resurface_reason,
			origin = excluded.origin,
			trigger = excluded.trigger,
			ranking_rationale = excluded.ranking_rationale,
			interventions = excluded.interventions
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		origin, _ := json.Marshal(rec.Origin)
		trigger, _ := json.Marshal(rec.Trigger)
		interventions, _ := json.Marshal(rec.Interventions)

		var resurfacedAt any
		if rec.ResurfacedAt != nil {
			resurfacedAt = *rec.ResurfacedAt
		}

		_, err := stmt.Exec(
			rec.ID,
			schemaVersion,
			string(rec.State),
			rec.EnteredAt,
			rec.SeenCycles,
			boolToInt(rec.HasAppearedBefore),
			rec.PreviousAppearances,
			resurfacedAt,
			rec.ResurfaceReason,
			string(origin),
			string(trigger),
			rec.RankingRationale,
			string(interventions),
		)
		if err != nil {
			return fmt.Errorf("save record %s: %w", rec.ID, err)
		}
	}

	return nil
}

// LoadRecords reads every persisted record. Rows with malformed JSON
// columns keep the zero value for that field rather than failing the
// whole load.
func (s *Store) LoadRecords() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, lifecycle_state, entered_at, seen_cycles,
			has_appeared_before, previous_appearances, resurfaced_at,
			resurface_reason, origin, trigger, ranking_rationale, interventions
		FROM memory_records
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var appearedInt int
		var state string
		var resurfacedAt sql.NullTime
		var reason, origin, trigger, rationale, interventions sql.NullString

		err := rows.Scan(
			&rec.ID,
			&state,
			&rec.EnteredAt,
			&rec.SeenCycles,
			&appearedInt,
			&rec.PreviousAppearances,
			&resurfacedAt,
			&reason,
			&origin,
			&trigger,
			&rationale,
			&interventions,
		)
		if err != nil {
			return nil, err
		}

		rec.State = State(state)
		rec.HasAppearedBefore = appearedInt != 0
		rec.ResurfaceReason = reason.String
		rec.RankingRationale = rationale.String
		if resurfacedAt.Valid {
			at := resurfacedAt.Time
			rec.ResurfacedAt = &at
		}
		if origin.Valid {
			_ = json.Unmarshal([]byte(origin.String), &rec.Origin)
		}
		if trigger.Valid {
			_ = json.Unmarshal([]byte(trigger.String), &rec.Trigger)
		}
		if interventions.Valid {
			_ = json.Unmarshal([]byte(interventions.String), &rec.Interventions)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// PruneArchived deletes archived records older than the cutoff.
// Memory is conceptually kept forever; this exists for hosts that
// want to cap the snapshot file.
func (s *Store) PruneArchived(before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM memory_records WHERE lifecycle_state = ? AND entered_at < ?`,
		string(StateArchived), before,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
