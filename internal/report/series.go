package report

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Point is one labeled value of a chart series.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Series is an ordered list of points handed to the charting component.
type Series []Point

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// Values returns the point values as float64 for chart libraries.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i], _ = p.Value.Float64()
	}
	return values
}

// CategoryTotals sums expense amounts per category, in first-seen order.
// Blank categories count as models.DefaultCategory.
func CategoryTotals(expenses []models.Expense) Series {
	series := Series{}
	index := make(map[string]int)
	for _, e := range expenses {
		label := e.CategoryOrDefault()
		i, ok := index[label]
		if !ok {
			i = len(series)
			index[label] = i
			series = append(series, Point{Label: label, Value: decimal.Zero})
		}
		series[i].Value = series[i].Value.Add(e.Amount)
	}
	return series
}

// ParticipantTotals sums what each participant paid as payer, labeled by
// display name in participant order. Participants who paid nothing are left out.
func ParticipantTotals(participants []models.Participant, expenses []models.Expense) Series {
	paid := make(map[string]decimal.Decimal, len(participants))
	for _, e := range expenses {
		paid[e.Payer] = paid[e.Payer].Add(e.Amount)
	}

	series := Series{}
	for _, p := range participants {
		total, ok := paid[p.ID]
		if !ok || !total.IsPositive() {
			continue
		}
		series = append(series, Point{Label: p.Name, Value: total})
	}
	return series
}
