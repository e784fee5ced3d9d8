// models/models.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group represents a sports group whose members share match costs
type Group struct {
	ID           string   `json:"_id"`
	CreationTime int64    `json:"_creationTime"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Sport        string   `json:"sport,omitempty"`
	Members      []string `json:"members"`
}

// Player represents a person or guest who can owe or be owed money.
// ManualBalance is the free-form signed part of their balance: positive
// means they owe money outside of any match charge, negative means credit.
type Player struct {
	ID            string          `json:"_id"`
	CreationTime  int64           `json:"_creationTime"`
	Name          string          `json:"name"`
	IsGuest       bool            `json:"isGuest"`
	ManualBalance decimal.Decimal `json:"manualBalance"`
}

// Match represents a scheduled match within a group
type Match struct {
	ID             string          `json:"_id"`
	CreationTime   int64           `json:"_creationTime"`
	GroupID        string          `json:"groupId"`
	Location       string          `json:"location"`
	MatchDate      time.Time       `json:"matchDate"`
	PricePerPlayer decimal.Decimal `json:"pricePerPlayer"`
	PlayerIDs      []string        `json:"playerIds,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateGroupRequest request model
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Sport       string `json:"sport"`
	CreatorName string `json:"creatorName" binding:"required"`
}

// GetGroupByCodeRequest request model
type GetGroupByCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// AddMemberRequest request model. Either an existing player ID or a name
// for a new (guest) player must be provided.
type AddMemberRequest struct {
	Code       string `json:"code" binding:"required"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	IsGuest    bool   `json:"isGuest"`
}

// CreatePlayerRequest request model
type CreatePlayerRequest struct {
	Name    string `json:"name" binding:"required"`
	IsGuest bool   `json:"isGuest"`
}

// GetPlayerRequest request model
type GetPlayerRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

// CreateMatchRequest request model. PlayerIDs is the roster; one pending
// charge per rostered player is created at the match's price.
type CreateMatchRequest struct {
	Code           string          `json:"code" binding:"required"`
	Location       string          `json:"location" binding:"required"`
	MatchDate      time.Time       `json:"matchDate" binding:"required"`
	PricePerPlayer decimal.Decimal `json:"pricePerPlayer"`
	PlayerIDs      []string        `json:"playerIds" binding:"required,min=1"`
}

// RemoveMatchRequest request model
type RemoveMatchRequest struct {
	Code    string `json:"code" binding:"required"`
	MatchID string `json:"matchId" binding:"required"`
}

// CreateGroupResponse response model
type CreateGroupResponse struct {
	GroupID string `json:"groupId"`
	Code    string `json:"code"`
}

// NewGroup creates a new Group instance
func NewGroup(id, code, name, sport string, creatorID string) *Group {
	return &Group{
		ID:           id,
		CreationTime: time.Now().UnixMilli(),
		Code:         code,
		Name:         name,
		Sport:        sport,
		Members:      []string{creatorID},
	}
}

// NewPlayer creates a new Player instance with a zero manual balance
func NewPlayer(id, name string, isGuest bool) *Player {
	return &Player{
		ID:            id,
		CreationTime:  time.Now().UnixMilli(),
		Name:          name,
		IsGuest:       isGuest,
		ManualBalance: decimal.Zero,
	}
}

// NewMatch creates a new Match instance
func NewMatch(id, groupID, location string, matchDate time.Time, pricePerPlayer decimal.Decimal, playerIDs []string) *Match {
	return &Match{
		ID:             id,
		CreationTime:   time.Now().UnixMilli(),
		GroupID:        groupID,
		Location:       location,
		MatchDate:      matchDate,
		PricePerPlayer: pricePerPlayer,
		PlayerIDs:      playerIDs,
	}
}
