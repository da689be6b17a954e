package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]bool{
	"CON": true, "AUX": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "PRN": true, "NUL": true,
}

// SecureFilename reduces an uploaded file name to ASCII letters, digits,
// underscores, dots and dashes so it can be joined to a directory safely.
// Names that reduce to nothing become "upload".
func SecureFilename(name string) string {
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), name)
	if err != nil {
		ascii = name
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if ascii == "" {
		return "upload"
	}
	base := strings.ToUpper(strings.TrimSuffix(ascii, filepath.Ext(ascii)))
	if windowsDeviceNames[base] {
		ascii = "_" + ascii
	}
	return ascii
}
