package reports

import (
	"net/http"

	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
	"github.com/xuri/excelize/v2"
)

func RegisterHandlers(engine rest.Engine, repository ReportRepository, sr auth.Repository) {
	engine.Get("/reports/artists/:artistId/artworks", getArtworksByArtist(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
	engine.Get("/reports/mediums", getArtworksByMedium(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
	engine.Get("/reports/unlocated", getUnlocatedArtworks(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
	engine.Get("/reports/acquisitions", getAcquisitionTotals(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
	engine.Get("/reports/sales", getSalesSummary(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
	engine.Get("/reports/acquisitions/register.xlsx", exportAcquisitionRegister(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
	engine.Get("/reports/sales/summary.xlsx", exportSalesSummary(repository), auth.Auth(sr), auth.Require(sr, "view_reports"))
}

func getArtworksByArtist(repository ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		summaries, err := repository.ArtworksByArtist(rest.GetParam(request, "artistId"))
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, struct {
			Artworks []ArtworkSummary
			Count    int
		}{summaries, len(summaries)})
	}
}

func getArtworksByMedium(repository ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		counts, err := repository.ArtworksByMedium()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, counts)
	}
}

func getUnlocatedArtworks(repository ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		summaries, err := repository.UnlocatedArtworks()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, struct {
			Artworks []ArtworkSummary
			Count    int
		}{summaries, len(summaries)})
	}
}

func getAcquisitionTotals(repository ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		totals, err := repository.AcquisitionTotals()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, totals)
	}
}

func getSalesSummary(repository ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		summary, err := repository.SalesSummary()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, summary)
	}
}

// exportAcquisitionRegister streams the full acquisition register as a spreadsheet.
func exportAcquisitionRegister(repository ReportRepository) http.HandlerFunc {
	const sheet = "Acquisitions"

	return func(writer http.ResponseWriter, request *http.Request) {
		register, err := repository.AcquisitionRegister()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		file := excelize.NewFile()
		file.SetSheetName("Sheet1", sheet)

		headers := []string{"ID", "Artwork", "Method", "Status", "Price", "Source", "Date"}
		for column, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(column+1, 1)
			_ = file.SetCellValue(sheet, cell, header)
		}

		for index, row := range register {
			values := []interface{}{row.AcquisitionId, row.ArtworkTitle, row.Method, row.Status, nil, row.Source, nil}
			if row.Price != nil {
				values[4] = *row.Price
			}
			if row.Date.IsValid() {
				values[6] = row.Date.Time().Format("2006-01-02")
			}
			for column, value := range values {
				if value == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(column+1, index+2)
				_ = file.SetCellValue(sheet, cell, value)
			}
		}

		sendSpreadsheet(writer, file, "acquisitions-register.xlsx")
	}
}

func exportSalesSummary(repository ReportRepository) http.HandlerFunc {
	const sheet = "Sales"

	return func(writer http.ResponseWriter, request *http.Request) {
		summary, err := repository.SalesSummary()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		file := excelize.NewFile()
		file.SetSheetName("Sheet1", sheet)

		_ = file.SetCellValue(sheet, "A1", "Sales")
		_ = file.SetCellValue(sheet, "B1", summary.Sales)
		_ = file.SetCellValue(sheet, "A2", "Revenue")
		_ = file.SetCellValue(sheet, "B2", summary.Revenue)

		_ = file.SetCellValue(sheet, "A4", "Product")
		_ = file.SetCellValue(sheet, "B4", "Quantity")
		_ = file.SetCellValue(sheet, "C4", "Revenue")
		for index, product := range summary.Top {
			row := index + 5
			cell, _ := excelize.CoordinatesToCellName(1, row)
			_ = file.SetCellValue(sheet, cell, product.Name)
			cell, _ = excelize.CoordinatesToCellName(2, row)
			_ = file.SetCellValue(sheet, cell, product.Quantity)
			cell, _ = excelize.CoordinatesToCellName(3, row)
			_ = file.SetCellValue(sheet, cell, product.Revenue)
		}

		sendSpreadsheet(writer, file, "sales-summary.xlsx")
	}
}

func sendSpreadsheet(writer http.ResponseWriter, file *excelize.File, filename string) {
	writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	writer.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	// headers are sent at this point, a write failure can't be reported to the client
	_ = file.Write(writer)
}
