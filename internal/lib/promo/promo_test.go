package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "recognized code", code: "BFSALE25", want: true},
		{name: "empty code", code: "", want: false},
		{name: "lowercase code", code: "bfsale25", want: false},
		{name: "code with leading space", code: " BFSALE25", want: false},
		{name: "code with trailing space", code: "BFSALE25 ", want: false},
		{name: "unknown code", code: "SUMMER10", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.code))
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{name: "round price", price: 100.00, want: 50.00},
		{name: "odd cents round half away from zero", price: 0.01, want: 0.01},
		{name: "nickel", price: 0.05, want: 0.03},
		{name: "just below hundred", price: 99.99, want: 50.00},
		{name: "repeating thirds", price: 33.33, want: 16.67},
		{name: "one cent short of even", price: 19.99, want: 10.00},
		{name: "another half cent midpoint", price: 79.99, want: 40.00},
		{name: "zero price", price: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ApplyDiscount(tt.price), 1e-9)
		})
	}
}
