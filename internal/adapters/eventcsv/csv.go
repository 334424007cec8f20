// Package eventcsv reads and writes the event interchange CSV.
//
// The format mirrors what tagging spreadsheets export: a header row of
// Event Type, Player Name, Player Team, Start X, Start Y, End X, End Y,
// optionally followed by a Minute column. Numeric fields parse leniently
// because hand-edited sheets carry blanks and stray text; a bad number
// becomes 0, and a 0,0 end means "no end location".
package eventcsv

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rondolab/rondo/internal/domain/types"
)

// Column names in canonical header order.
const (
	colType   = "event type"
	colPlayer = "player name"
	colTeam   = "player team"
	colStartX = "start x"
	colStartY = "start y"
	colEndX   = "end x"
	colEndY   = "end y"
	colMinute = "minute"
)

var exportHeader = []string{
	"Event Type", "Player Name", "Player Team",
	"Start X", "Start Y", "End X", "End Y", "Minute",
}

// Read decodes events from CSV. Columns are located by header name, so
// the optional Minute column and reordered sheets both work. Rows missing
// trailing fields are padded with zeros.
func Read(r io.Reader) ([]types.GraphicEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, ErrMissingHeader
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeColumn(name)] = i
	}
	if _, ok := cols[colType]; !ok {
		return nil, ErrMissingHeader
	}

	var events []types.GraphicEvent
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		e := types.GraphicEvent{
			Type:       field(colType),
			PlayerName: field(colPlayer),
			Team:       types.NewTeamLabel(field(colTeam)),
			StartX:     lenientFloat(field(colStartX)),
			StartY:     lenientFloat(field(colStartY)),
			EndX:       lenientFloat(field(colEndX)),
			EndY:       lenientFloat(field(colEndY)),
			Minute:     lenientInt(field(colMinute)),
		}
		if e.Type == "" && e.PlayerName == "" {
			continue
		}
		events = append(events, e)
	}

	return events, nil
}

// Write encodes events as CSV with the canonical header, one row per
// event, minute included.
func Write(w io.Writer, events []types.GraphicEvent) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, e := range events {
		record := []string{
			e.Type,
			e.PlayerName,
			e.Team.String(),
			formatCoord(e.StartX),
			formatCoord(e.StartY),
			formatCoord(e.EndX),
			formatCoord(e.EndY),
			strconv.Itoa(e.Minute),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// normalizeColumn folds case and whitespace so "End  X" and "end x" match.
func normalizeColumn(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// lenientFloat parses like the tagging UI does: anything unparseable,
// NaN or infinite becomes 0.
func lenientFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func lenientInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func formatCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
