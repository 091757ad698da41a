package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, difficulty, seed, start_time_utc
		) VALUES (?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Difficulty, int64(record.Seed), record.StartTimeUTC,
		)
		return err
	})
}

// RecordMatch asynchronously records a finished match
func (s *Store) RecordMatch(record MatchRecord) {
	s.enqueue("match", func(tx *sql.Tx) error {
		query := `INSERT INTO matches (
			game_id, match_number, winner, player_score, computer_score,
			moves, difficulty, end_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MatchNumber, record.Winner,
			record.PlayerScore, record.ComputerScore,
			record.Moves, record.Difficulty, record.EndTimeUTC,
		)
		return err
	})
}

// QueryGames retrieves games with optional filtering, "*" or "" match all
func (s *Store) QueryGames(gameID, difficulty string) ([]GameRecord, error) {
	query := `SELECT game_id, difficulty, seed, start_time_utc FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if difficulty != "" && difficulty != "*" {
		query += " AND difficulty = ?"
		args = append(args, difficulty)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var (
			g    GameRecord
			seed int64
		)
		if err := rows.Scan(&g.GameID, &g.Difficulty, &seed, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		g.Seed = uint64(seed)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMatches retrieves finished matches with optional filtering
func (s *Store) QueryMatches(gameID, winner string) ([]MatchRecord, error) {
	query := `SELECT
		match_id, game_id, match_number, winner, player_score, computer_score,
		moves, difficulty, end_time_utc
	FROM matches WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if winner != "" && winner != "*" {
		query += " AND winner = ?"
		args = append(args, winner)
	}

	query += " ORDER BY end_time_utc DESC, match_id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		err := rows.Scan(
			&m.MatchID, &m.GameID, &m.MatchNumber, &m.Winner,
			&m.PlayerScore, &m.ComputerScore,
			&m.Moves, &m.Difficulty, &m.EndTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return matches, nil
}

// ScoreSummary aggregates match winners per difficulty
type ScoreSummary struct {
	Difficulty   string
	PlayerWins   int
	ComputerWins int
	Matches      int
}

// QueryScores totals wins for each difficulty that has finished matches
func (s *Store) QueryScores() ([]ScoreSummary, error) {
	query := `SELECT
		difficulty,
		SUM(CASE WHEN winner = 'player' THEN 1 ELSE 0 END),
		SUM(CASE WHEN winner = 'computer' THEN 1 ELSE 0 END),
		COUNT(*)
	FROM matches GROUP BY difficulty ORDER BY difficulty`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []ScoreSummary
	for rows.Next() {
		var sum ScoreSummary
		if err := rows.Scan(&sum.Difficulty, &sum.PlayerWins, &sum.ComputerWins, &sum.Matches); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return out, nil
}
