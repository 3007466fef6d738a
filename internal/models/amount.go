package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	brl           = message.NewPrinter(language.BrazilianPortuguese)
)

// ParseAmount parses a money value typed the Brazilian way: "." groups
// thousands and "," separates decimals, so "1.234,56" is 1234.56. A lone
// "." followed by anything other than groups of three digits is read as
// a decimal point. Empty input is zero.
func ParseAmount(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, nil
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative: %q", raw)
	}
	return v, nil
}

// FormatAmount renders v as Brazilian reais, e.g. "R$ 1.234,56"
func FormatAmount(v float64) string {
	return brl.Sprintf("R$ %.2f", v)
}
