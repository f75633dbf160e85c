package domain

// StockResult maps a SKU code to its in-stock flag as reported by the
// inventory service.
type StockResult map[string]bool

// AllInStock is fail-closed: a queried SKU missing from the result counts
// as out of stock.
func (r StockResult) AllInStock(skus []string) bool {
	for _, sku := range skus {
		if !r[sku] {
			return false
		}
	}
	return true
}
