package parser

import "strconv"

// parseInt and parseFloat convert already-validated lexemes (the
// scanner only ever emits well-formed digit sequences for Int/Float
// tokens) into their runtime values. Errors are impossible here, so
// they're ignored rather than threaded through as diagnostics.
func parseInt(lexeme string) int64 {
	v, _ := strconv.ParseInt(lexeme, 10, 64)
	return v
}

func parseFloat(lexeme string) float64 {
	v, _ := strconv.ParseFloat(lexeme, 64)
	return v
}
