package reports

import (
	"database/sql"

	"github.com/tmaselli/galleria/pkg/ntime"
)

type ReportRepository interface {
	ArtworksByArtist(artistId string) ([]ArtworkSummary, error)
	ArtworksByMedium() ([]MediumCount, error)
	UnlocatedArtworks() ([]ArtworkSummary, error)
	AcquisitionTotals() ([]MethodTotal, error)
	SalesSummary() (SalesSummary, error)
	AcquisitionRegister() ([]RegisterRow, error)
}

type Store struct {
	Connection *sql.DB
}

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

type ArtworkSummary struct {
	Id           string
	Title        string
	CreationYear ntime.NYear
	Medium       string
}

type MediumCount struct {
	Medium string
	Count  int
}

type MethodTotal struct {
	Method string
	Count  int
	Total  float64
}

type SalesSummary struct {
	Sales   int
	Revenue float64
	Top     []ProductSales
}

type ProductSales struct {
	Name     string
	Quantity int
	Revenue  float64
}

// RegisterRow flattens an acquisition with its artwork for the exported register.
type RegisterRow struct {
	AcquisitionId string
	ArtworkTitle  string
	Method        string
	Status        string
	Price         *float64
	Source        string
	Date          ntime.NTime
}

var methodNames = map[int]string{
	1: "Purchase",
	2: "Bequest",
	3: "Gift",
	4: "Transfer",
}

func (rs *Store) ArtworksByArtist(artistId string) ([]ArtworkSummary, error) {
	rows, err := rs.Connection.Query(`
		SELECT id, title, creation_year, medium
		FROM artworks JOIN artwork_creators ON artworks.id = artwork_creators.artwork
		WHERE artist = ? AND deleted = FALSE AND owned = TRUE
		ORDER BY title`, artistId)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

// UnlocatedArtworks lists active pieces with no assigned gallery location, the curator's
// placement worklist.
func (rs *Store) UnlocatedArtworks() ([]ArtworkSummary, error) {
	rows, err := rs.Connection.Query(`
		SELECT id, title, creation_year, medium FROM artworks
		WHERE location IS NULL AND deleted = FALSE AND owned = TRUE
		ORDER BY added`)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]ArtworkSummary, error) {
	defer closeRows(rows)

	var summaries = make([]ArtworkSummary, 0)
	for rows.Next() {
		var summary ArtworkSummary
		if err := rows.Scan(&summary.Id, &summary.Title, &summary.CreationYear, &summary.Medium); err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (rs *Store) ArtworksByMedium() ([]MediumCount, error) {
	rows, err := rs.Connection.Query(`
		SELECT medium, count(*) FROM artworks
		WHERE deleted = FALSE AND owned = TRUE
		GROUP BY medium ORDER BY count(*) DESC`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var counts = make([]MediumCount, 0)
	for rows.Next() {
		var count MediumCount
		if err = rows.Scan(&count.Medium, &count.Count); err != nil {
			return counts, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

func (rs *Store) AcquisitionTotals() ([]MethodTotal, error) {
	rows, err := rs.Connection.Query(`
		SELECT method, count(*), coalesce(sum(price), 0) FROM acquisitions
		WHERE deleted = FALSE AND status = 'accepted' AND method IS NOT NULL
		GROUP BY method ORDER BY method`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var totals = make([]MethodTotal, 0)
	for rows.Next() {
		var method int
		var total MethodTotal
		if err = rows.Scan(&method, &total.Count, &total.Total); err != nil {
			return totals, err
		}
		total.Method = methodNames[method]
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func (rs *Store) SalesSummary() (summary SalesSummary, err error) {
	if err = rs.Connection.QueryRow(`
		SELECT count(*), coalesce(sum(total), 0) FROM sales`).Scan(&summary.Sales, &summary.Revenue); err != nil {
		return summary, err
	}

	rows, err := rs.Connection.Query(`
		SELECT name, sum(quantity), sum(quantity * sale_items.price)
		FROM sale_items JOIN products ON sale_items.product = products.id
		GROUP BY product ORDER BY sum(quantity * sale_items.price) DESC LIMIT 10`)
	if err != nil {
		return summary, err
	}

	defer closeRows(rows)

	summary.Top = make([]ProductSales, 0, 10)
	for rows.Next() {
		var product ProductSales
		if err = rows.Scan(&product.Name, &product.Quantity, &product.Revenue); err != nil {
			return summary, err
		}
		summary.Top = append(summary.Top, product)
	}
	return summary, rows.Err()
}

func (rs *Store) AcquisitionRegister() ([]RegisterRow, error) {
	rows, err := rs.Connection.Query(`
		SELECT acquisitions.id, coalesce(artworks.title, ''), method, status, acquisitions.price, source, date
		FROM acquisitions LEFT JOIN artworks ON acquisitions.artwork = artworks.id
		WHERE acquisitions.deleted = FALSE
		ORDER BY acquisitions.created`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var register = make([]RegisterRow, 0)
	for rows.Next() {
		var row RegisterRow
		var method sql.NullInt64
		var price sql.NullFloat64
		if err = rows.Scan(&row.AcquisitionId, &row.ArtworkTitle, &method, &row.Status,
			&price, &row.Source, &row.Date); err != nil {
			return register, err
		}
		if method.Valid {
			row.Method = methodNames[int(method.Int64)]
		}
		if price.Valid {
			row.Price = &price.Float64
		}
		register = append(register, row)
	}
	return register, rows.Err()
}
