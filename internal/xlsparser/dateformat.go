package xlsparser

import (
	"strings"

	"github.com/xuri/nfp"
)

// isBuiltinDateFormat reports whether a built-in number format id renders
// its value as a date or time. Ids 27-36 and 50-58 are the CJK locale
// date formats.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatString reports whether a custom number format code contains a
// date or time token in any of its sections.
func isDateFormatString(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "general") {
		return false
	}

	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(code) {
		for _, tok := range section.Items {
			switch tok.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}
