package renderer

import "fmt"

// weight formats a portfolio weight fraction as a percentage.
func weight(w float64) string {
	return fmt.Sprintf("%.2f%%", w*100)
}
