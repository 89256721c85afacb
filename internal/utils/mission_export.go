package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"andromeda/internal/models"
)

var exportHeaders = []string{
	"Mission Key", "Kind", "Target", "Start", "End",
	"RA", "Dec", "Alt", "Az", "Constellation", "Priority", "Deeplink",
}

func exportRow(m models.Mission) []string {
	return []string{
		m.MissionKey,
		string(m.Kind),
		m.TargetName,
		m.StartDisplay(),
		m.EndDisplay(),
		m.RAHMS,
		m.DecDMS,
		strconv.Itoa(m.Alt),
		strconv.Itoa(m.Az),
		m.Constellation,
		strconv.FormatBool(m.Priority),
		m.Deeplink,
	}
}

// CreateMissionsExcelFile создает Excel файл со списком миссий
func CreateMissionsExcelFile(path string, missions []models.Mission) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Missions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	endHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheet, "A1", endHeader, headerStyle)

	for rowIdx, mission := range missions {
		for colIdx, value := range exportRow(mission) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	for i := 1; i <= len(exportHeaders); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheet, colName, colName, 22)
	}

	// подсветка приоритетных миссий
	priorityRule := []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: "==",
			Value:    "\"true\"",
			Format:   conditionalStyle(f, "#FFF2CC"),
		},
	}
	if err := f.SetConditionalFormat(sheet, fmt.Sprintf("K2:K%d", len(missions)+1), priorityRule); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(path)
}

// WriteMissionsCSV пишет список миссий в CSV
func WriteMissionsCSV(path string, missions []models.Mission) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, mission := range missions {
		if err := writer.Write(exportRow(mission)); err != nil {
			return err
		}
	}

	return writer.Error()
}

func conditionalStyle(f *excelize.File, color string) *int {
	style, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return nil
	}
	return &style
}
