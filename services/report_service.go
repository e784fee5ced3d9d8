package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// ReportService handles debt report export functionality
type ReportService struct {
	groupService *GroupService
	matchService *MatchService
	playerRepo   *repository.PlayerRepository
	ledgerRepo   *repository.LedgerRepository
}

// NewReportService creates a new report service
func NewReportService(groupService *GroupService, matchService *MatchService, playerRepo *repository.PlayerRepository, ledgerRepo *repository.LedgerRepository) *ReportService {
	return &ReportService{
		groupService: groupService,
		matchService: matchService,
		playerRepo:   playerRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// ExportGroupDebts generates an Excel debt report for a group
func (s *ReportService) ExportGroupDebts(code string) (*excelize.File, string, error) {
	group, err := s.groupService.GetGroupByCode(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get group: %v", err)
	}

	memberDebts, err := s.groupService.ListMemberDebts(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get member debts: %v", err)
	}

	matches, err := s.matchService.ListMatches(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get matches: %v", err)
	}

	pendingCharges, err := s.ledgerRepo.ListPendingChargesForGroup(group.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get pending charges: %v", err)
	}

	// Create Excel file
	f := excelize.NewFile()

	err = s.createSummarySheet(f, group, memberDebts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %v", err)
	}

	err = s.createChargesSheet(f, matches, pendingCharges)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create charges sheet: %v", err)
	}

	err = s.createMatchesSheet(f, matches)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create matches sheet: %v", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_Debts_%s.xlsx",
		utils.CleanFileName(group.Name),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// createSummarySheet writes per-member debt totals
func (s *ReportService) createSummarySheet(f *excelize.File, group *models.Group, memberDebts []models.MemberDebt) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", group.Name)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Join code: %s", group.Code))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})

	headers := []string{"Player", "Matches Debt", "Manual Balance", "Total Debt"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c4", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 5
	for _, member := range memberDebts {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), utils.FormatNameForDisplay(member.Player.Name))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), member.MatchesDebt.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), member.ManualDebt.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), member.TotalDebt.InexactFloat64())
		row++
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "D", 16)

	return nil
}

// createChargesSheet writes every pending charge with its match context
func (s *ReportService) createChargesSheet(f *excelize.File, matches []*models.Match, pendingCharges []models.Charge) error {
	sheet := "Pending Charges"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Map match IDs to locations for display
	matchLocations := make(map[string]string)
	for _, match := range matches {
		matchLocations[match.ID] = match.Location
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})

	headers := []string{"Date", "Player", "Match", "Amount"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 2
	for _, charge := range pendingCharges {
		player, err := s.playerRepo.GetPlayerByID(charge.PlayerID)
		if err != nil {
			return err
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), charge.OccurredAt.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), utils.FormatNameForDisplay(player.Name))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), matchLocations[charge.MatchID])
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), charge.Amount.InexactFloat64())
		row++
	}

	f.SetColWidth(sheet, "A", "C", 20)
	f.SetColWidth(sheet, "D", "D", 12)

	return nil
}

// createMatchesSheet writes the group's match history
func (s *ReportService) createMatchesSheet(f *excelize.File, matches []*models.Match) error {
	sheet := "Matches"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})

	headers := []string{"Date", "Location", "Price Per Player", "Players"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 2
	for _, match := range matches {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), match.MatchDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), match.Location)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), match.PricePerPlayer.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), len(match.PlayerIDs))
		row++
	}

	f.SetColWidth(sheet, "A", "B", 20)
	f.SetColWidth(sheet, "C", "D", 16)

	return nil
}
