package chart

import (
	"time"
	_ "time/tzdata"

	"market-dashboard/src/models"
)

var labelLayouts = map[string]string{
	"1D": "3:04 PM",
	"1W": "Mon 3PM",
	"1M": "Jan 2",
	"3M": "Jan 2",
	"1Y": "Jan '06",
}

// genericLayout is used for unknown period tokens.
const genericLayout = "1/2/2006"

// LabelFormatter renders axis labels in a fixed time zone.
type LabelFormatter struct {
	Location *time.Location
}

// NewLabelFormatter returns a formatter for the named IANA zone, falling back to UTC.
func NewLabelFormatter(zone string) LabelFormatter {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	return LabelFormatter{Location: loc}
}

// Format renders a Unix-second timestamp for the given period.
func (f LabelFormatter) Format(ts int64, period string) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	layout, ok := labelLayouts[period]
	if !ok {
		layout = genericLayout
	}
	return time.Unix(ts, 0).In(loc).Format(layout)
}

// Labels renders every timestamp of the series.
func (f LabelFormatter) Labels(series models.MChartSeries, period string) []string {
	out := make([]string, len(series.Timestamps))
	for i, ts := range series.Timestamps {
		out[i] = f.Format(ts, period)
	}
	return out
}

// FormatLabel formats in UTC.
func FormatLabel(ts int64, period string) string {
	return LabelFormatter{Location: time.UTC}.Format(ts, period)
}
