package model

// ProgressEvent carries one line of raw tool output plus whatever progress
// information could be scraped from it. The raw line is always forwarded
// verbatim; Percent is only meaningful when HasPercent is true. Percentages
// are not deduplicated or smoothed and may repeat or decrease.
type ProgressEvent struct {
	Line       string
	Percent    int // 0 to 100
	HasPercent bool
	Speed      string // human readable speed (e.g., "1.2MiB/s"), may be empty
	ETA        string // hh:mm or hh:mm:ss as printed by the tool, may be empty
}
