package js_printer

import (
	"strconv"
	"strings"
)

// Formats a finite non-negative number the way "Number.prototype.toString"
// does, so that rewritten files keep their literals readable. Minified output
// drops the leading zero and swaps trailing zeros for an exponent when that is
// shorter.
func formatNumber(value float64, minify bool) string {
	var text string
	if value == 0 || (value >= 1e-6 && value < 1e21) {
		text = strconv.FormatFloat(value, 'f', -1, 64)
	} else {
		// Go writes "1e-07" where JavaScript writes "1e-7"
		text = strconv.FormatFloat(value, 'e', -1, 64)
		e := strings.IndexByte(text, 'e')
		mantissa, sign, exponent := text[:e], text[e+1:e+2], strings.TrimLeft(text[e+2:], "0")
		text = mantissa + "e" + sign + exponent
	}

	if !minify {
		return text
	}

	// "0.5" => ".5"
	if strings.HasPrefix(text, "0.") {
		text = text[1:]
	}

	// "1e+21" => "1e21"
	text = strings.Replace(text, "e+", "e", 1)

	// "1000" => "1e3"
	if !strings.ContainsAny(text, ".e") {
		trimmed := strings.TrimRight(text, "0")
		if zeros := len(text) - len(trimmed); zeros > 0 {
			if short := trimmed + "e" + strconv.Itoa(zeros); len(short) < len(text) {
				text = short
			}
		}
	}
	return text
}
