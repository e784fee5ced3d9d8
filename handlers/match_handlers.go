package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/services"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// MatchHandler handles match-related HTTP requests
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// CreateMatch handles POST /matches/create
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var request models.CreateMatchRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	match, err := h.matchService.CreateMatch(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, match)
}

// ListMatches handles POST /matches/list
func (h *MatchHandler) ListMatches(c *gin.Context) {
	var request models.GetGroupByCodeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	matches, err := h.matchService.ListMatches(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, matches)
}

// RemoveMatch handles POST /matches/remove
func (h *MatchHandler) RemoveMatch(c *gin.Context) {
	var request models.RemoveMatchRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := h.matchService.RemoveMatch(request.Code, request.MatchID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, true)
}
