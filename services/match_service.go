package services

import (
	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// MatchService handles match business logic
type MatchService struct {
	matchRepo    *repository.MatchRepository
	playerRepo   *repository.PlayerRepository
	groupRepo    *repository.GroupRepository
	groupService *GroupService
}

// NewMatchService creates a new match service
func NewMatchService(matchRepo *repository.MatchRepository, playerRepo *repository.PlayerRepository, groupRepo *repository.GroupRepository, groupService *GroupService) *MatchService {
	return &MatchService{
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		groupRepo:    groupRepo,
		groupService: groupService,
	}
}

// CreateMatch creates a match and one pending charge per rostered
// player, each frozen at the match's current price
func (s *MatchService) CreateMatch(req *models.CreateMatchRequest) (*models.Match, error) {
	if err := utils.ValidateRequired(req.Location, "location"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNonNegativeAmount(req.PricePerPlayer, "pricePerPlayer"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNotEmpty(req.PlayerIDs, "playerIds"); err != nil {
		return nil, err
	}

	group, err := s.groupService.GetGroupByCode(req.Code)
	if err != nil {
		return nil, err
	}

	roster := dedupePlayerIDs(req.PlayerIDs)

	exist, err := s.playerRepo.PlayersExist(roster)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if !exist {
		return nil, utils.NewNotFoundError("Player")
	}

	price := utils.RoundMoney(req.PricePerPlayer)
	match := models.NewMatch(utils.GenerateID(), group.ID, req.Location, req.MatchDate, price, roster)

	charges := make([]*models.Charge, 0, len(roster))
	for _, playerID := range roster {
		charges = append(charges, models.NewCharge(
			utils.GenerateID(), playerID, match.ID, group.ID, price, req.MatchDate,
		))
	}

	if err := s.matchRepo.StoreMatchWithCharges(match, charges); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	// Rostered players become group members if they weren't already
	for _, playerID := range roster {
		if err := s.groupRepo.AddMember(group.ID, playerID); err != nil {
			return nil, utils.NewInternalError("Failed to add member")
		}
	}

	return match, nil
}

// ListMatches lists all matches for a group
func (s *MatchService) ListMatches(code string) ([]*models.Match, error) {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.GetMatches(group.ID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}

	return matches, nil
}

// RemoveMatch removes a match and its charges
func (s *MatchService) RemoveMatch(code string, matchID string) error {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return err
	}

	removed, err := s.matchRepo.RemoveMatch(group.ID, matchID)
	if err != nil {
		return utils.NewInternalError("Failed to remove match")
	}
	if !removed {
		return utils.NewNotFoundError("Match")
	}

	return nil
}

// dedupePlayerIDs removes duplicate IDs while preserving order
func dedupePlayerIDs(playerIDs []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, playerID := range playerIDs {
		if !seen[playerID] {
			seen[playerID] = true
			result = append(result, playerID)
		}
	}
	return result
}
