package report

import (
	"cmp"
	"slices"

	"github.com/mmynk/splitledger/internal/models"
)

// RecentLimit is how many expenses the recent view shows.
const RecentLimit = 5

// SortByDateDesc returns expenses newest date first. Expenses on the same
// date are ordered by creation time, newest first.
// Dates are YYYY-MM-DD, so string order is chronological.
func SortByDateDesc(expenses []models.Expense) []models.Expense {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b models.Expense) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return sorted
}

// Recent returns at most n expenses, most recently created first.
func Recent(expenses []models.Expense, n int) []models.Expense {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b models.Expense) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
