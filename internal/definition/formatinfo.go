package definition

import (
	"strings"
)

// formatInfoFieldCount is the number of |-separated fields in a
// formatinfo line.
const formatInfoFieldCount = 17

// FormatInfo is one parsed formatinfo (.db) record.
type FormatInfo struct {
	FormatName               string
	FormatLongName           string
	DatasetType              string
	Direction                string
	AutomatedTranslationFlag string
	CoordsysAware            string
	Filter                   string
	FormatType               string
	UseNativeSpatialIndex    string
	SourceSettings           string
	DestinationSettings      string
	Visible                  string
	MinVersion               string
	MaxVersion               string
	FormatFamily             string
	HasSidecars              string
	MarketingFamily          string
}

// ParseFormatInfo parses one formatinfo line.
func ParseFormatInfo(path, line string) (*FormatInfo, error) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) != formatInfoFieldCount {
		return nil, parseErrorf(path, "formatinfo has %d elements, expected %d", len(parts), formatInfoFieldCount)
	}
	return &FormatInfo{
		FormatName:               parts[0],
		FormatLongName:           parts[1],
		DatasetType:              parts[2],
		Direction:                parts[3],
		AutomatedTranslationFlag: parts[4],
		CoordsysAware:            parts[5],
		Filter:                   parts[6],
		FormatType:               parts[7],
		UseNativeSpatialIndex:    parts[8],
		SourceSettings:           parts[9],
		DestinationSettings:      parts[10],
		Visible:                  parts[11],
		MinVersion:               parts[12],
		MaxVersion:               parts[13],
		FormatFamily:             parts[14],
		HasSidecars:              parts[15],
		MarketingFamily:          parts[16],
	}, nil
}

// LastFormatInfoLine returns the last non-comment line of a formatinfo
// file. Lines starting with ";" are comments.
func LastFormatInfoLine(path string, content []byte) (string, error) {
	var last string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, ";") || strings.TrimSpace(line) == "" {
			continue
		}
		last = line
	}
	if last == "" {
		return "", parseErrorf(path, "formatinfo is empty")
	}
	return last, nil
}
