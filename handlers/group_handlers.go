package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/services"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// GroupHandler handles group-related HTTP requests
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup handles POST /groups/create
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := h.groupService.CreateGroup(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	response := models.CreateGroupResponse{
		GroupID: group.ID,
		Code:    group.Code,
	}

	utils.HandleSuccess(c, response)
}

// GetGroupByCode handles POST /groups/getByCode
func (h *GroupHandler) GetGroupByCode(c *gin.Context) {
	var request models.GetGroupByCodeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := h.groupService.GetGroupByCode(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, group)
}

// AddMember handles POST /groups/addMember
func (h *GroupHandler) AddMember(c *gin.Context) {
	var request models.AddMemberRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	player, err := h.groupService.AddMember(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, player)
}

// ListMemberDebts handles POST /groups/listMemberDebts
func (h *GroupHandler) ListMemberDebts(c *gin.Context) {
	var request models.GetGroupByCodeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	memberDebts, err := h.groupService.ListMemberDebts(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, memberDebts)
}
