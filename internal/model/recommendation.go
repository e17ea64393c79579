package model

// UnknownProduct is the display sentinel for a stock code with no known
// description. A missing label must not hide the recommendation itself.
const UnknownProduct = "Unknown Product"

// Recommendation is a single entry in a top-K similar-products result.
type Recommendation struct {
	StockCode   string
	Description string
	Score       float64
}
