package biomarker

import (
	"fmt"
	"math"
	"sort"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// Point is one month on a biomarker chart.
type Point struct {
	Month int     `json:"month"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Label string  `json:"label"`
	Raw   string  `json:"raw"`
}

// Trend compares the first and last point of a series.
type Trend struct {
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	IsImprovement bool    `json:"is_improvement"`
}

// Series builds chart points for key from journey states in month order.
// Unparseable values plot as 0.
func Series(states []models.JourneyState, key string) []Point {
	opt := OptionOrDefault(key)

	sorted := make([]models.JourneyState, len(states))
	copy(sorted, states)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })

	points := make([]Point, 0, len(sorted))
	for _, s := range sorted {
		r := Read(s.Biomarkers, opt.Key)
		v := r.Value
		if !r.Valid || math.IsNaN(v) {
			v = 0
		}
		points = append(points, Point{
			Month: s.Month,
			Value: v,
			Unit:  opt.Unit,
			Label: fmt.Sprintf("Month %d", s.Month),
			Raw:   r.Raw,
		})
	}
	return points
}

// ComputeTrend returns the trend of a series, or false for fewer than two points.
// Keys without a chart option are treated as higher-is-better.
// PercentChange is 0 when the series starts at 0.
func ComputeTrend(points []Point, key string) (Trend, bool) {
	if len(points) < 2 {
		return Trend{}, false
	}

	first := points[0].Value
	last := points[len(points)-1].Value
	change := last - first

	var pct float64
	if first != 0 {
		pct = change / first * 100
	}

	// Unknown keys count rising values as improvement.
	improved := change > 0
	if opt, ok := Lookup(key); ok && opt.LowerBetter {
		improved = change < 0
	}

	return Trend{Change: change, PercentChange: pct, IsImprovement: improved}, true
}

// Summary holds the chart footer values.
type Summary struct {
	Start       string `json:"start"`
	Current     string `json:"current"`
	TotalChange string `json:"total_change"`
	Percent     string `json:"percent"`
}

// Summarize formats the chart footer with "N/A" fallbacks.
func Summarize(points []Point, key string) Summary {
	opt := OptionOrDefault(key)
	s := Summary{Start: "N/A", Current: "N/A", TotalChange: "N/A", Percent: "N/A"}

	if len(points) > 0 {
		if points[0].Raw != "" {
			s.Start = points[0].Raw
		}
		if last := points[len(points)-1].Raw; last != "" {
			s.Current = last
		}
	}

	if t, ok := ComputeTrend(points, key); ok {
		sign := ""
		if t.Change > 0 {
			sign = "+"
		}
		s.TotalChange = fmt.Sprintf("%s%.1f%s", sign, t.Change, opt.Unit)
		s.Percent = fmt.Sprintf("%.1f%%", math.Abs(t.PercentChange))
	}
	return s
}
