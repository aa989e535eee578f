package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var isoDurationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// DurationToMinutes converts an ISO-8601 video duration such as PT1H4M30S
// to whole minutes, dropping seconds. Unparseable input yields 0.
func DurationToMinutes(iso string) int {
	m := isoDurationRE.FindStringSubmatch(strings.TrimSpace(iso))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

// ViewsInK formats a view count, abbreviating values above 1000 as 1.2K.
func ViewsInK(views uint64) string {
	if views > 1000 {
		return fmt.Sprintf("%.1fK", float64(views)/1000)
	}
	return strconv.FormatUint(views, 10)
}

// DisplayTitle turns a slug-like identifier into a heading,
// e.g. "personality-tests" becomes "Personality Tests".
func DisplayTitle(s string) string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(s))
}
