package workbook

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Info describes a sheet's shape and the columns claimed by the channel and
// time heuristics.
type Info struct {
	Rows          int
	Columns       int
	ColumnNames   []string
	Channels      int
	ChannelNames  []string
	HasTimeColumn bool
	TimeColumn    string
}

// IsChannelColumn reports whether a column name denotes a bipolar EEG
// channel. The dataset's naming convention embeds the electrode pair with a
// hyphen separator, so any hyphen qualifies.
func IsChannelColumn(name string) bool {
	return strings.Contains(name, "-")
}

// IsTimeColumn reports whether a column name denotes the time axis. The
// check is a case-insensitive substring match, independent of the channel
// heuristic: a column named "time-stamp" matches both, as in the original
// convention.
func IsTimeColumn(name string) bool {
	return strings.Contains(strings.ToLower(name), "time")
}

// Info summarizes the sheet using the channel and time heuristics.
func (s *Sheet) Info() Info {
	info := Info{
		Rows:        len(s.Rows),
		Columns:     len(s.Columns),
		ColumnNames: s.Columns,
	}
	for _, name := range s.Columns {
		if IsChannelColumn(name) {
			info.ChannelNames = append(info.ChannelNames, name)
		}
		if !info.HasTimeColumn && IsTimeColumn(name) {
			info.HasTimeColumn = true
			info.TimeColumn = name
		}
	}
	info.Channels = len(info.ChannelNames)
	return info
}

// EEGData is the extracted content of one sheet: the time axis (nil when no
// time column exists) and the channel frame as samples x channels.
type EEGData struct {
	Time     []string
	Data     *mat.Dense
	Channels []string
}

// ExtractEEG pulls the time column and the channel frame out of the sheet.
// Cells that do not parse as numbers become NaN. Data is nil when the sheet
// has no channel columns or no data rows.
func (s *Sheet) ExtractEEG() EEGData {
	var out EEGData

	timeIdx := -1
	var channelIdx []int
	for i, name := range s.Columns {
		if timeIdx < 0 && IsTimeColumn(name) {
			timeIdx = i
		}
		if IsChannelColumn(name) {
			channelIdx = append(channelIdx, i)
			out.Channels = append(out.Channels, name)
		}
	}

	if timeIdx >= 0 {
		out.Time = make([]string, len(s.Rows))
		for r, row := range s.Rows {
			out.Time[r] = cell(row, timeIdx)
		}
	}

	if len(channelIdx) == 0 || len(s.Rows) == 0 {
		return out
	}

	out.Data = mat.NewDense(len(s.Rows), len(channelIdx), nil)
	for r, row := range s.Rows {
		for c, idx := range channelIdx {
			out.Data.Set(r, c, parseCell(cell(row, idx)))
		}
	}
	return out
}

// cell returns the value at idx, tolerating the short rows excelize
// produces when trailing cells are empty.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseCell(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
