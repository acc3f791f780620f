package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists REPL input lines in a SQLite database so history
// survives across sessions.
type Store struct {
	db  *sql.DB
	max int
}

// Open creates or opens the history database at path. max bounds the
// number of retained rows; older rows are pruned on append.
func Open(path string, max int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			entered_at TEXT NOT NULL,
			line       TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, max: max}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Append records one input line. Consecutive duplicates are skipped.
func (s *Store) Append(line string) error {
	line = strings.TrimRight(line, "\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	var last string
	err := s.db.QueryRow(`SELECT line FROM history ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err == nil && last == line {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read last history row: %w", err)
	}

	if _, err := s.db.Exec(
		`INSERT INTO history (entered_at, line) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339), line,
	); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	if s.max > 0 {
		if _, err := s.db.Exec(
			`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
			s.max,
		); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
	}
	return nil
}

// Recent returns up to n lines, oldest first.
func (s *Store) Recent(n int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT line FROM (SELECT id, line FROM history ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Search returns the most recent lines starting with prefix, newest
// first, capped at n.
func (s *Store) Search(prefix string, n int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT line FROM history WHERE line LIKE ? ESCAPE '\' ORDER BY id DESC LIMIT ?`,
		escapeLike(prefix)+"%", n)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
