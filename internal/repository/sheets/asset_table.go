package sheets

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/repository"
)

// AssetTable stores assets in a sheet whose first row holds the snake_case
// column names. Columns are matched by header, so their order on the sheet
// does not matter.
type AssetTable struct {
	repo       Repository
	sheetRange string
	logger     *zap.Logger
}

// NewAssetTable wraps repo. sheetRange is an A1 range such as "Assets!A:N".
func NewAssetTable(repo Repository, sheetRange string, logger *zap.Logger) *AssetTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetTable{repo: repo, sheetRange: sheetRange, logger: logger}
}

// InsertAsset appends row, writing the header first on an empty sheet.
func (t *AssetTable) InsertAsset(ctx context.Context, row models.Row) ([]models.Row, error) {
	values, err := t.repo.ReadRange(ctx, t.sheetRange)
	if err != nil {
		return nil, fmt.Errorf("read asset sheet: %w", err)
	}

	header := headerOf(values)
	if len(header) == 0 {
		header = models.ColumnKeys()
		if err := t.repo.WriteRow(ctx, t.sheetRange, toCells(header)); err != nil {
			return nil, fmt.Errorf("write asset sheet header: %w", err)
		}
	}

	if err := t.repo.WriteRow(ctx, t.sheetRange, rowCells(header, row)); err != nil {
		return nil, fmt.Errorf("append asset: %w", err)
	}
	return []models.Row{row}, nil
}

// SelectAssets reads every data row below the header.
func (t *AssetTable) SelectAssets(ctx context.Context) ([]models.Row, error) {
	values, err := t.repo.ReadRange(ctx, t.sheetRange)
	if err != nil {
		return nil, fmt.Errorf("read asset sheet: %w", err)
	}
	if len(values) < 2 {
		return []models.Row{}, nil
	}

	header := headerOf(values)
	rows := make([]models.Row, 0, len(values)-1)
	for _, line := range values[1:] {
		if isBlank(line) {
			continue
		}
		row := make(models.Row, len(header))
		for i, key := range header {
			if i < len(line) {
				row[key] = cellValue(key, line[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateAsset overwrites the sheet row whose asset_id equals id.
func (t *AssetTable) UpdateAsset(ctx context.Context, id string, row models.Row) error {
	values, err := t.repo.ReadRange(ctx, t.sheetRange)
	if err != nil {
		return fmt.Errorf("read asset sheet: %w", err)
	}

	header := headerOf(values)
	idCol := -1
	for i, key := range header {
		if key == "asset_id" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return fmt.Errorf("update asset %s: %w", id, repository.ErrNotFound)
	}

	for i, line := range values[1:] {
		if idCol < len(line) && fmt.Sprint(line[idCol]) == id {
			// Row 1 is the header, data starts on row 2.
			target := fmt.Sprintf("%s!A%d", sheetName(t.sheetRange), i+2)
			if err := t.repo.UpdateRow(ctx, target, rowCells(header, row)); err != nil {
				return fmt.Errorf("update asset %s: %w", id, err)
			}
			t.logger.Debug("asset row updated", zap.String("asset_id", id), zap.String("range", target))
			return nil
		}
	}
	return fmt.Errorf("update asset %s: %w", id, repository.ErrNotFound)
}

// Sheets counts date serials in days from 1899-12-30.
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateKeys = func() map[string]bool {
	keys := make(map[string]bool)
	for _, c := range models.Columns {
		if c.Kind == models.KindDate {
			keys[c.Key] = true
		}
	}
	return keys
}()

// cellValue turns a date serial in a date column back into its calendar day.
func cellValue(key string, cell interface{}) interface{} {
	serial, ok := cell.(float64)
	if !ok || !dateKeys[key] {
		return cell
	}
	return sheetsEpoch.AddDate(0, 0, int(math.Floor(serial))).Format(models.DateLayout)
}

func headerOf(values [][]interface{}) []string {
	if len(values) == 0 {
		return nil
	}
	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
	}
	return header
}

func rowCells(header []string, row models.Row) []interface{} {
	cells := make([]interface{}, len(header))
	for i, key := range header {
		switch v := row[key].(type) {
		case nil:
			cells[i] = ""
		case decimal.Decimal:
			cells[i] = v.String()
		default:
			cells[i] = fmt.Sprint(v)
		}
	}
	return cells
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func sheetName(sheetRange string) string {
	name, _, found := strings.Cut(sheetRange, "!")
	if !found {
		return sheetRange
	}
	return name
}

func isBlank(line []interface{}) bool {
	for _, cell := range line {
		if strings.TrimSpace(fmt.Sprint(cell)) != "" {
			return false
		}
	}
	return true
}
