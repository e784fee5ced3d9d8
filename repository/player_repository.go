// repository/player_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/leaguetab/leaguetab-backend/models"
)

// PlayerRepository handles database operations for players
type PlayerRepository struct {
	DB *sql.DB
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{DB: db}
}

// StorePlayer saves a player to the database
func (r *PlayerRepository) StorePlayer(player *models.Player) error {
	_, err := r.DB.Exec(
		"INSERT INTO players (id, name, is_guest, manual_balance, creation_time) VALUES ($1, $2, $3, $4, $5)",
		player.ID, player.Name, player.IsGuest, player.ManualBalance, player.CreationTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %v", err)
	}

	return nil
}

// GetPlayerByID retrieves a player by ID
func (r *PlayerRepository) GetPlayerByID(playerID string) (*models.Player, error) {
	var player models.Player
	err := r.DB.QueryRow(
		"SELECT id, name, is_guest, manual_balance, creation_time FROM players WHERE id = $1",
		playerID,
	).Scan(&player.ID, &player.Name, &player.IsGuest, &player.ManualBalance, &player.CreationTime)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %v", err)
	}

	return &player, nil
}

// GetPlayersByIDs retrieves players for a set of IDs, preserving input order
func (r *PlayerRepository) GetPlayersByIDs(playerIDs []string) ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		player, err := r.GetPlayerByID(playerID)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

// PlayersExist checks that every ID in the slice refers to a stored player
func (r *PlayerRepository) PlayersExist(playerIDs []string) (bool, error) {
	for _, playerID := range playerIDs {
		var count int
		err := r.DB.QueryRow(
			"SELECT COUNT(*) FROM players WHERE id = $1",
			playerID,
		).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check player: %v", err)
		}
		if count == 0 {
			return false, nil
		}
	}
	return true, nil
}
