package services

import (
	"errors"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// PlayerService handles player business logic
type PlayerService struct {
	playerRepo *repository.PlayerRepository
}

// NewPlayerService creates a new player service
func NewPlayerService(playerRepo *repository.PlayerRepository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// CreatePlayer creates a standalone player or guest
func (s *PlayerService) CreatePlayer(req *models.CreatePlayerRequest) (*models.Player, error) {
	if err := utils.ValidateRequired(req.Name, "name"); err != nil {
		return nil, err
	}

	player := models.NewPlayer(utils.GenerateID(), utils.NormalizeName(req.Name), req.IsGuest)
	if err := s.playerRepo.StorePlayer(player); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return player, nil
}

// GetPlayer retrieves a player by ID
func (s *PlayerService) GetPlayer(playerID string) (*models.Player, error) {
	if err := utils.ValidateRequired(playerID, "playerId"); err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetPlayerByID(playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Player")
		}
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}

	return player, nil
}
