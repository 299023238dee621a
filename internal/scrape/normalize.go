package scrape

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	noiseWords    = regexp.MustCompile(`(?i)(version|api|level|sdk)`)
	bareNumber    = regexp.MustCompile(`^\d+\+?$`)
	androidNumber = regexp.MustCompile(`(?i)^android\s*\d+\+?$`)
	dottedNumber  = regexp.MustCompile(`^\d+(?:\.\d+)*$`)
	containsDigit = regexp.MustCompile(`\d`)
)

// CleanVersionText turns a scraped minimum-OS string into a display string.
//
// The words version, api, level and sdk are removed first, so "API Level 30"
// and "30" both become "Android 30". The checks run in this order:
//
//	"29", "10+"      -> "Android 29", "Android 10+"
//	"android 10+"    -> "Android 10+"
//	"8.0"            -> "Android 8.0"
//	anything else    -> unchanged, or "Unknown" when nothing is left
func CleanVersionText(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSpace(noiseWords.ReplaceAllString(cleaned, ""))

	if bareNumber.MatchString(cleaned) {
		number := strings.TrimSuffix(cleaned, "+")
		if strings.HasSuffix(cleaned, "+") {
			return "Android " + number + "+"
		}
		return "Android " + number
	}

	if androidNumber.MatchString(cleaned) {
		return upperFirst(cleaned)
	}

	if dottedNumber.MatchString(cleaned) {
		return "Android " + cleaned
	}

	if cleaned == "" {
		return "Unknown"
	}
	return cleaned
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// looksLikeVersion reports whether scraped cell text can plausibly be an
// Android requirement.
func looksLikeVersion(text string) bool {
	return strings.Contains(strings.ToLower(text), "android") || containsDigit.MatchString(text)
}
