package models

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "thousands and decimals", input: "1.234,56", want: 1234.56},
		{name: "decimal comma", input: "5000,5", want: 5000.5},
		{name: "plain integer", input: "5000", want: 5000},
		{name: "thousands only", input: "1.234", want: 1234},
		{name: "millions", input: "1.234.567,89", want: 1234567.89},
		{name: "decimal point", input: "99.5", want: 99.5},
		{name: "currency prefix", input: "R$ 2.500,00", want: 2500},
		{name: "surrounding spaces", input: "  10,25 ", want: 10.25},
		{name: "empty", input: "", want: 0},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two commas", input: "1,2,3", wantErr: true},
		{name: "negative", input: "-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(1234.56); got != "R$ 1.234,56" {
		t.Errorf("FormatAmount(1234.56) = %q, want %q", got, "R$ 1.234,56")
	}
}
