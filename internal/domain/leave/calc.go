package leave

// Days counts both ends of the range. A range with a missing end or with To
// before From counts as zero.
func (f FullDay) Days() float64 {
	if !f.From.IsSet() || !f.To.IsSet() || f.To.Before(f.From) {
		return 0
	}
	return float64(f.From.DaysUntil(f.To) + 1)
}

// Days is half a day once the date is chosen, whatever the period.
func (h HalfDay) Days() float64 {
	if !h.Date.IsSet() {
		return 0
	}
	return 0.5
}

// TotalRequestedDays sums the day value of every item.
func TotalRequestedDays(items []DateItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Days()
	}
	return total
}

// Remaining is allowance minus used minus requested. It goes negative when
// the draft asks for more than is left.
func (b Balance) Remaining(requested float64) float64 {
	return b.TotalAllowance - b.AlreadyUsed - requested
}

// RemainingBalance is the balance left after the given draft is granted.
func RemainingBalance(b Balance, items []DateItem) float64 {
	return b.Remaining(TotalRequestedDays(items))
}
