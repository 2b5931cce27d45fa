package attribution

import (
	"strconv"
	"strings"
)

// IsPurchase reports whether the event_list field marks the row as a purchase.
// The field is a comma-separated list of event codes; event "1" is the purchase event.
func IsPurchase(eventList string) bool {
	if eventList == "" {
		return false
	}
	for _, tok := range strings.Split(eventList, ",") {
		if strings.TrimSpace(tok) == "1" {
			return true
		}
	}
	return false
}

// PurchaseRevenue sums revenue across the product_list field.
//
// Each product is comma-separated; within a product the fields are semicolon-delimited:
//
//	category;product;quantity;revenue;...
//
// The 4th field (index 3) is the revenue. Items with fewer than 4 fields or a blank
// revenue field are skipped silently. Unparseable revenue values are skipped too, but
// counted and returned so the caller can track data quality.
func PurchaseRevenue(productList string) (float64, int64) {
	if productList == "" {
		return 0, 0
	}

	var total float64
	var malformed int64

	for _, item := range strings.Split(productList, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, ";")
		if len(parts) < 4 {
			continue
		}

		rawRev := strings.TrimSpace(parts[3])
		if rawRev == "" {
			continue
		}

		rev, err := strconv.ParseFloat(rawRev, 64)
		if err != nil {
			malformed++
			continue
		}
		total += rev
	}

	return total, malformed
}
