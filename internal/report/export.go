package report

import (
	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the verification report as a spot-check workbook:
// a summary sheet plus one sheet per audited table.
func ExportXLSX(path string, r *Report) error {
	f := excelize.NewFile()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}

	summaryRows := [][]interface{}{
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Videos audited", r.VideosAudited},
		{"Clean", r.Clean()},
		{"Distinct usernames", r.CreatorAudit.DistinctUsernames},
		{"Stored creators", r.CreatorAudit.StoredCreators},
	}
	if err := writeRows(f, summary, nil, summaryRows); err != nil {
		return err
	}

	auditRows := make([][]interface{}, 0, len(r.TableAudits))
	for _, a := range r.TableAudits {
		auditRows = append(auditRows, []interface{}{a.Table, a.Expected, a.Actual, a.Match})
	}
	if err := writeSheet(f, "Row Counts",
		[]string{"table", "expected", "actual", "match"}, auditRows); err != nil {
		return err
	}

	distRows := make([][]interface{}, 0, len(r.Distributions))
	for _, d := range r.Distributions {
		distRows = append(distRows, []interface{}{
			d.Table, d.Count, d.Mean, d.Median, d.StdDev, d.Min, d.Max, d.P10, d.P90,
		})
	}
	if err := writeSheet(f, "Distributions",
		[]string{"table", "count", "mean", "median", "std_dev", "min", "max", "p10", "p90"}, distRows); err != nil {
		return err
	}

	checkRows := make([][]interface{}, 0, len(r.SpotChecks))
	for _, s := range r.SpotChecks {
		checkRows = append(checkRows, []interface{}{s.VideoID, s.Table, s.Match, s.Detail})
	}
	if err := writeSheet(f, "Spot Checks",
		[]string{"video_id", "table", "match", "detail"}, checkRows); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return writeRows(f, sheet, headers, rows)
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	offset := 0
	if headers != nil {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		offset = 1
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1+offset)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
