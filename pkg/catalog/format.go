package catalog

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatDownloadCount truncates the fraction and groups thousands with commas.
func FormatDownloadCount(count float64) string {
	return humanize.Comma(int64(math.Trunc(count)))
}

// FormatFileDate keeps the first 10 characters of a catalog timestamp.
func FormatFileDate(ts string) string {
	r := []rune(ts)
	if len(r) <= 10 {
		return ts
	}
	return string(r[:10])
}

