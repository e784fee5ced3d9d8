// repository/group_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/leaguetab/leaguetab-backend/models"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	DB *sql.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// StoreGroup saves a group and its initial members to the database
func (r *GroupRepository) StoreGroup(group *models.Group) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	// Insert group
	_, err = tx.Exec(
		"INSERT INTO groups (id, code, name, sport, creation_time) VALUES ($1, $2, $3, $4, $5)",
		group.ID, group.Code, group.Name, group.Sport, group.CreationTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %v", err)
	}

	// Insert members
	for _, playerID := range group.Members {
		_, err = tx.Exec(
			"INSERT INTO group_members (group_id, player_id) VALUES ($1, $2)",
			group.ID, playerID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %v", err)
		}
	}

	return tx.Commit()
}

// GetGroupByCode retrieves a group by its join code
func (r *GroupRepository) GetGroupByCode(code string) (*models.Group, error) {
	// Query group
	var group models.Group
	err := r.DB.QueryRow(
		"SELECT id, code, name, sport, creation_time FROM groups WHERE code = $1",
		code,
	).Scan(&group.ID, &group.Code, &group.Name, &group.Sport, &group.CreationTime)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group: %v", err)
	}

	// Query members
	rows, err := r.DB.Query(
		"SELECT player_id FROM group_members WHERE group_id = $1",
		group.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %v", err)
		}
		group.Members = append(group.Members, playerID)
	}

	return &group, nil
}

// AddMember adds a player to a group if they are not a member already
func (r *GroupRepository) AddMember(groupID string, playerID string) error {
	// Check if member already exists
	var count int
	err := r.DB.QueryRow(
		"SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND player_id = $2",
		groupID, playerID,
	).Scan(&count)

	if err != nil {
		return fmt.Errorf("failed to check group member: %v", err)
	}

	if count > 0 {
		// Already a member
		return nil
	}

	// Add member
	_, err = r.DB.Exec(
		"INSERT INTO group_members (group_id, player_id) VALUES ($1, $2)",
		groupID, playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %v", err)
	}

	return nil
}
