package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPurchase(t *testing.T) {
	tests := []struct {
		name      string
		eventList string
		want      bool
	}{
		{"empty", "", false},
		{"single purchase event", "1", true},
		{"purchase among others", "2,1,12", true},
		{"purchase with spaces", " 2 , 1 ", true},
		{"no purchase", "2,12", false},
		{"substring is not a match", "11,21,100", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPurchase(tt.eventList))
		})
	}
}

func TestPurchaseRevenue(t *testing.T) {
	tests := []struct {
		name        string
		productList string
		wantTotal   float64
		wantBad     int64
	}{
		{"empty", "", 0, 0},
		{"single item", "Electronics;Ipod - Touch - 32GB;1;290;", 290, 0},
		{"multiple items", "Electronics;Ipod;1;290;,Electronics;Zune;2;500;", 790, 0},
		{"short item skipped", "Electronics;Ipod", 0, 0},
		{"blank revenue skipped", "Electronics;Ipod;1;;", 0, 0},
		{"malformed revenue counted", "Electronics;Ipod;1;ABC;", 0, 1},
		{"malformed mixed with valid", "Electronics;Ipod;1;ABC;,Electronics;Zune;1;250;", 250, 1},
		{"two malformed", "a;b;1;x;,c;d;1;y;", 0, 2},
		{"decimal revenue", "Electronics;Ipod;1;190.50;", 190.5, 0},
		{"negative revenue summed", "Electronics;Refund;1;-50;", -50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, bad := PurchaseRevenue(tt.productList)
			assert.InDelta(t, tt.wantTotal, total, 1e-9)
			assert.Equal(t, tt.wantBad, bad)
		})
	}
}
