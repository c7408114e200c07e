package nest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseFloat parses an invariant-culture decimal: '.' is the decimal point,
// ',' a group separator. Accounting parentheses mean a negative value.
func parseFloat(tag, s string) (float64, error) {
	s = cleanNumber(s)
	if s == "" {
		return 0, &ValueError{Tag: tag, Value: s, Err: ErrEmptyValue}
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValueError{Tag: tag, Value: s, Err: err}
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, &ValueError{Tag: tag, Value: s, Err: fmt.Errorf("not a finite number")}
	}

	return val, nil
}

// parseInt accepts an optional sign followed by digits, nothing else.
func parseInt(tag, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValueError{Tag: tag, Value: s, Err: ErrEmptyValue}
	}

	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValueError{Tag: tag, Value: s, Err: err}
	}

	return val, nil
}

// cleanNumber trims whitespace, drops group separators and turns (12.5) into -12.5.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative && s != "" {
		s = "-" + s
	}
	return s
}
