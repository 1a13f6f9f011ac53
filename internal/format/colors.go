package format

import "github.com/mamadbah2/assetvista/internal/domain/models"

// Tone is the badge color family of a status.
type Tone string

const (
	ToneGreen Tone = "green"
	ToneAmber Tone = "amber"
	ToneRed   Tone = "red"
)

// StatusTone maps a status to its badge tone. Unknown statuses are red.
func StatusTone(status models.AssetStatus) Tone {
	switch status {
	case models.StatusActive:
		return ToneGreen
	case models.StatusUnderMaintenance:
		return ToneAmber
	default:
		return ToneRed
	}
}

var palette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8", "#82ca9d"}

// PaletteColor cycles through the chart palette.
func PaletteColor(i int) string {
	n := len(palette)
	return palette[((i%n)+n)%n]
}

var segmentColors = map[models.Field]string{
	models.FieldVerifiedAmount:      "#4C51BF",
	models.FieldOutOfScopeAmount:    "#ED8936",
	models.FieldAssetWriteoffAmount: "#D69E2E",
	models.FieldSoldOutAmount:       "#38B2AC",
}

// SegmentColor returns the overview color of a value segment, or the default
// chart fill for fields outside the distribution.
func SegmentColor(f models.Field) string {
	if c, ok := segmentColors[f]; ok {
		return c
	}
	return "#8884d8"
}
