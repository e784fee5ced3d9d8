// repository/match_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/leaguetab/leaguetab-backend/models"
)

// MatchRepository handles database operations for matches
type MatchRepository struct {
	DB *sql.DB
}

// NewMatchRepository creates a new MatchRepository
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

// StoreMatchWithCharges saves a match and its per-player charges in one
// transaction. Charge amounts are frozen here; later price edits on the
// match never touch them.
func (r *MatchRepository) StoreMatchWithCharges(match *models.Match, charges []*models.Charge) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	// Insert match
	_, err = tx.Exec(
		`INSERT INTO matches (id, group_id, location, match_date, price_per_player, creation_time)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		match.ID, match.GroupID, match.Location, match.MatchDate, match.PricePerPlayer, match.CreationTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %v", err)
	}

	// Insert charges
	for _, charge := range charges {
		_, err = tx.Exec(
			`INSERT INTO charges (id, player_id, match_id, group_id, amount, occurred_at, status)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			charge.ID, charge.PlayerID, charge.MatchID, charge.GroupID,
			charge.Amount, charge.OccurredAt, charge.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert charge: %v", err)
		}
	}

	return tx.Commit()
}

// GetMatches retrieves all matches for a group ordered by match date
func (r *MatchRepository) GetMatches(groupID string) ([]*models.Match, error) {
	rows, err := r.DB.Query(
		`SELECT id, group_id, location, match_date, price_per_player, creation_time
         FROM matches WHERE group_id = $1 ORDER BY match_date ASC, id ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %v", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var match models.Match
		err = rows.Scan(
			&match.ID, &match.GroupID, &match.Location, &match.MatchDate,
			&match.PricePerPlayer, &match.CreationTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %v", err)
		}

		// Load the roster from the match's charges
		pRows, err := r.DB.Query(
			"SELECT player_id FROM charges WHERE match_id = $1 ORDER BY player_id ASC",
			match.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get match players: %v", err)
		}
		defer pRows.Close()

		for pRows.Next() {
			var playerID string
			if err := pRows.Scan(&playerID); err != nil {
				return nil, fmt.Errorf("failed to scan match player: %v", err)
			}
			match.PlayerIDs = append(match.PlayerIDs, playerID)
		}

		matches = append(matches, &match)
	}

	return matches, nil
}

// RemoveMatch removes a match and its charges
func (r *MatchRepository) RemoveMatch(groupID string, matchID string) (bool, error) {
	// First check if the match exists and belongs to the group
	var count int
	err := r.DB.QueryRow(
		"SELECT COUNT(*) FROM matches WHERE id = $1 AND group_id = $2",
		matchID, groupID,
	).Scan(&count)

	if err != nil {
		return false, fmt.Errorf("failed to check match: %v", err)
	}

	if count == 0 {
		return false, nil // Match not found or doesn't belong to group
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM charges WHERE match_id = $1", matchID)
	if err != nil {
		return false, fmt.Errorf("failed to delete match charges: %v", err)
	}

	_, err = tx.Exec("DELETE FROM matches WHERE id = $1", matchID)
	if err != nil {
		return false, fmt.Errorf("failed to delete match: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %v", err)
	}

	return true, nil
}
