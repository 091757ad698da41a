package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string    `db:"game_id"`
	Difficulty   string    `db:"difficulty"`
	Seed         uint64    `db:"seed"`
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// MatchRecord represents a finished match in the matches table
type MatchRecord struct {
	MatchID       int64     `db:"match_id"`
	GameID        string    `db:"game_id"`
	MatchNumber   int       `db:"match_number"`
	Winner        string    `db:"winner"`
	PlayerScore   int       `db:"player_score"`
	ComputerScore int       `db:"computer_score"`
	Moves         int       `db:"moves"`
	Difficulty    string    `db:"difficulty"`
	EndTimeUTC    time.Time `db:"end_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	difficulty TEXT NOT NULL CHECK(difficulty IN ('easy', 'medium', 'hard')),
	seed INTEGER NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS matches (
	match_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	match_number INTEGER NOT NULL,
	winner TEXT NOT NULL CHECK(winner IN ('player', 'computer')),
	player_score INTEGER NOT NULL,
	computer_score INTEGER NOT NULL,
	moves INTEGER NOT NULL,
	difficulty TEXT NOT NULL,
	end_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, match_number)
);

CREATE INDEX IF NOT EXISTS idx_matches_game_id ON matches(game_id);
CREATE INDEX IF NOT EXISTS idx_matches_winner ON matches(winner);
`
