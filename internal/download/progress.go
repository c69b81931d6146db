package download

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tubegrab/tubegrab/internal/model"
)

// Progress line patterns as printed by yt-dlp with --newline, e.g.
// "[download]  42.7% of 10.00MiB at 1.25MiB/s ETA 00:42"
var (
	percentPattern = regexp.MustCompile(`\[download\]\s+(\d+(?:\.\d+)?)%`)
	speedPattern   = regexp.MustCompile(`\bat\s+(\S+/s)`)
	etaPattern     = regexp.MustCompile(`\bETA\s+([0-9:]+)`)
)

// ParseProgressLine inspects one line of tool output. Every line yields an
// event carrying the raw text; Percent is populated only when the line
// matches the download progress pattern. The fractional part is truncated
// and the result clamped to [0,100]. Malformed numeric text is treated as
// no percent, never an error. No monotonicity is assumed: yt-dlp restarts
// the percentage for every fragment and playlist entry.
func ParseProgressLine(line string) model.ProgressEvent {
	event := model.ProgressEvent{Line: line}

	match := percentPattern.FindStringSubmatch(line)
	if match == nil {
		return event
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return event
	}

	percent := int(value)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	event.Percent = percent
	event.HasPercent = true

	if m := speedPattern.FindStringSubmatch(line); m != nil {
		event.Speed = strings.TrimSpace(m[1])
	}
	if m := etaPattern.FindStringSubmatch(line); m != nil {
		event.ETA = m[1]
	}
	return event
}
