package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/services"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// LedgerHandler handles debt ledger HTTP requests
type LedgerHandler struct {
	ledgerService *services.LedgerService
	groupService  *services.GroupService
	playerService *services.PlayerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *services.LedgerService, groupService *services.GroupService, playerService *services.PlayerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		groupService:  groupService,
		playerService: playerService,
	}
}

// CreatePlayer handles POST /players/create
func (h *LedgerHandler) CreatePlayer(c *gin.Context) {
	var request models.CreatePlayerRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	player, err := h.playerService.CreatePlayer(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, player)
}

// GetPlayer handles POST /players/get
func (h *LedgerHandler) GetPlayer(c *gin.Context) {
	var request models.GetPlayerRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	player, err := h.playerService.GetPlayer(request.PlayerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, player)
}

// GetDebts handles POST /debts/get. An optional group code scopes the
// charges; the manual balance is always global.
func (h *LedgerHandler) GetDebts(c *gin.Context) {
	var request models.GetDebtsRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	groupID, err := h.resolveGroupID(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	debts, err := h.ledgerService.GetPlayerDebts(request.PlayerID, groupID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, debts)
}

// SettleCharge handles POST /charges/settle
func (h *LedgerHandler) SettleCharge(c *gin.Context) {
	var request models.SettleChargeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	charge, err := h.ledgerService.SettleCharge(request.ChargeID, request.TargetStatus)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, charge)
}

// AdjustBalance handles POST /debts/adjust. A debt-reducing delta for a
// player with pending charges comes back as a 409 unless manualOnly is
// set, so the client has to choose between a smart payment and a pure
// manual adjustment.
func (h *LedgerHandler) AdjustBalance(c *gin.Context) {
	var request models.AdjustBalanceRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	balance, err := h.ledgerService.AdjustManualBalance(request.PlayerID, request.Delta, request.ManualOnly)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.AdjustBalanceResponse{
		PlayerID:      request.PlayerID,
		ManualBalance: balance,
	})
}

// SmartPayment handles POST /payments/smart
func (h *LedgerHandler) SmartPayment(c *gin.Context) {
	var request models.SmartPaymentRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	groupID, err := h.resolveGroupID(request.Code)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := h.ledgerService.ProcessSmartPayment(request.PlayerID, request.Amount, groupID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, result)
}

// resolveGroupID translates an optional join code into a group ID
func (h *LedgerHandler) resolveGroupID(code string) (string, error) {
	if code == "" {
		return "", nil
	}

	group, err := h.groupService.GetGroupByCode(code)
	if err != nil {
		return "", err
	}
	return group.ID, nil
}
