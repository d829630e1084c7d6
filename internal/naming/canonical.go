package naming

import (
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rewritePrefix marks filenames from the camera whose firmware does not
// embed the capture time in the name. Other cameras already produce unique
// names and pass through untouched.
const rewritePrefix = "DSC"

// timestampLayout is the label inserted into rewritten filenames.
const timestampLayout = "20060102_150405"

// CanonicalName derives the stable, collision-resistant filename for an
// ingested picture. Filenames carrying the rewrite prefix get the capture
// timestamp inserted between stem and extension; everything else is
// returned unchanged. The function is pure: the same (name, capture) pair
// always yields the same result, which is how re-ingestion finds the
// existing content record.
func CanonicalName(original string, capture time.Time) string {
	if !strings.HasPrefix(original, rewritePrefix) {
		return original
	}
	ext := path.Ext(original)
	stem := strings.TrimSuffix(original, ext)
	return stem + "_" + capture.Format(timestampLayout) + ext
}

var titleCaser = cases.Title(language.Dutch)

// DisplayTitle derives a human-readable placeholder title from a filename:
// extension stripped, separators turned into spaces, title-cased.
func DisplayTitle(filename string) string {
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Nieuwe foto"
	}
	return titleCaser.String(strings.ToLower(stem))
}
