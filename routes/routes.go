package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguetab/leaguetab-backend/handlers"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/services"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine) {
	db := repository.GetDB()

	// Repositories
	groupRepo := repository.NewGroupRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Services
	ledgerService := services.NewLedgerService(ledgerRepo)
	groupService := services.NewGroupService(groupRepo, playerRepo, ledgerService)
	playerService := services.NewPlayerService(playerRepo)
	matchService := services.NewMatchService(matchRepo, playerRepo, groupRepo, groupService)
	reportService := services.NewReportService(groupService, matchService, playerRepo, ledgerRepo)

	// Handlers
	groupHandler := handlers.NewGroupHandler(groupService)
	matchHandler := handlers.NewMatchHandler(matchService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, groupService, playerService)
	reportHandler := handlers.NewReportHandler(reportService)

	v1 := router.Group("/api/v1")
	{
		// Group endpoints
		v1.POST("/groups/create", groupHandler.CreateGroup)
		v1.POST("/groups/getByCode", groupHandler.GetGroupByCode)
		v1.POST("/groups/addMember", groupHandler.AddMember)
		v1.POST("/groups/listMemberDebts", groupHandler.ListMemberDebts)

		// Player endpoints
		v1.POST("/players/create", ledgerHandler.CreatePlayer)
		v1.POST("/players/get", ledgerHandler.GetPlayer)

		// Match endpoints
		v1.POST("/matches/create", matchHandler.CreateMatch)
		v1.POST("/matches/list", matchHandler.ListMatches)
		v1.POST("/matches/remove", matchHandler.RemoveMatch)

		// Ledger endpoints
		v1.POST("/charges/settle", ledgerHandler.SettleCharge)
		v1.POST("/debts/get", ledgerHandler.GetDebts)
		v1.POST("/debts/adjust", ledgerHandler.AdjustBalance)
		v1.POST("/payments/smart", ledgerHandler.SmartPayment)

		// Report endpoints
		v1.POST("/reports/exportDebts", reportHandler.ExportGroupDebts)
	}
}
