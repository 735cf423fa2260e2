package accuracy

import "fmt"

// NotAvailable is shown for any absent value
const NotAvailable = "N/A"

// FormatPrice renders "$123.45" or N/A
func FormatPrice(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2f", *v)
}

// FormatPercent renders "+10.0%" / "-3.2%" or N/A
func FormatPercent(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	sign := ""
	if *v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, *v)
}

// FormatHorizon renders "12 months" or N/A for the stored text
func FormatHorizon(h *string) string {
	if h == nil || *h == "" {
		return NotAvailable
	}
	return *h + " months"
}
