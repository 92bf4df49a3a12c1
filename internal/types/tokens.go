package types

import "regexp"

// numericToken matches runs of digits, dots, commas and parentheses. It is used
// both to decide whether a line is a complete row and to pick the row total.
var numericToken = regexp.MustCompile(`[\d.,()]+`)

// NumericTokens returns every numeric token in s, left to right.
func NumericTokens(s string) []string {
	return numericToken.FindAllString(s, -1)
}

// CountNumericTokens returns the number of numeric tokens in s.
func CountNumericTokens(s string) int {
	return len(numericToken.FindAllStringIndex(s, -1))
}
