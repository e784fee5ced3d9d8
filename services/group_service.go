package services

import (
	"errors"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// GroupService handles group business logic
type GroupService struct {
	groupRepo     *repository.GroupRepository
	playerRepo    *repository.PlayerRepository
	ledgerService *LedgerService
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo *repository.GroupRepository, playerRepo *repository.PlayerRepository, ledgerService *LedgerService) *GroupService {
	return &GroupService{
		groupRepo:     groupRepo,
		playerRepo:    playerRepo,
		ledgerService: ledgerService,
	}
}

// CreateGroup creates a group with its creator as the first member
func (s *GroupService) CreateGroup(req *models.CreateGroupRequest) (*models.Group, error) {
	if err := utils.ValidateRequired(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(req.CreatorName, "creatorName"); err != nil {
		return nil, err
	}

	creator := models.NewPlayer(utils.GenerateID(), utils.NormalizeName(req.CreatorName), false)
	if err := s.playerRepo.StorePlayer(creator); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	group := models.NewGroup(utils.GenerateID(), utils.GenerateCode(), req.Name, req.Sport, creator.ID)
	if err := s.groupRepo.StoreGroup(group); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return group, nil
}

// GetGroupByCode retrieves a group by its join code
func (s *GroupService) GetGroupByCode(code string) (*models.Group, error) {
	if err := utils.ValidateRequired(code, "code"); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetGroupByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Group")
		}
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}

	return group, nil
}

// AddMember adds a player to a group. An existing player can be added
// by ID; otherwise a new player record is created from the given name.
func (s *GroupService) AddMember(req *models.AddMemberRequest) (*models.Player, error) {
	group, err := s.GetGroupByCode(req.Code)
	if err != nil {
		return nil, err
	}

	var player *models.Player
	if req.PlayerID != "" {
		player, err = s.playerRepo.GetPlayerByID(req.PlayerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, utils.NewNotFoundError("Player")
			}
			return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
		}
	} else {
		if err := utils.ValidateRequired(req.PlayerName, "playerName"); err != nil {
			return nil, err
		}
		player = models.NewPlayer(utils.GenerateID(), utils.NormalizeName(req.PlayerName), req.IsGuest)
		if err := s.playerRepo.StorePlayer(player); err != nil {
			return nil, utils.NewInternalError(utils.ErrFailedToStore)
		}
	}

	if err := s.groupRepo.AddMember(group.ID, player.ID); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}

	return player, nil
}

// ListMemberDebts returns every group member with their ledger view
// scoped to this group
func (s *GroupService) ListMemberDebts(code string) ([]models.MemberDebt, error) {
	group, err := s.GetGroupByCode(code)
	if err != nil {
		return nil, err
	}

	memberDebts := make([]models.MemberDebt, 0, len(group.Members))
	for _, playerID := range group.Members {
		player, err := s.playerRepo.GetPlayerByID(playerID)
		if err != nil {
			return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
		}

		debts, err := s.ledgerService.GetPlayerDebts(playerID, group.ID)
		if err != nil {
			return nil, err
		}

		memberDebts = append(memberDebts, models.MemberDebt{
			Player:      player,
			MatchesDebt: debts.MatchesDebt,
			ManualDebt:  debts.ManualDebt,
			TotalDebt:   debts.TotalDebt,
		})
	}

	return memberDebts, nil
}
