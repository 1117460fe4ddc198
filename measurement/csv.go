package measurement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvHeader is the first line written by WriteCSV and expected by ReadCSV.
var csvHeader = []string{"id", "timestamp", "date", "time", "temperature", "humidity", "dust"}

// WriteCSV writes the readings, one per line, after a header line. Absent values are
// written as empty fields.
func WriteCSV(w io.Writer, readings []Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range readings {
		var ts string
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Format(time.RFC3339)
		}

		line := []string{r.ID, ts, r.Date, r.Time}
		for _, t := range Types() {
			var field string
			if v, ok := r.Value(t); ok {
				field = strconv.FormatFloat(v, 'f', -1, 64)
			}
			line = append(line, field)
		}

		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads readings in the format written by WriteCSV. Value fields that don't
// parse are treated as absent, the same as when decoding JSON.
func ReadCSV(r io.Reader) ([]Reading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.Join(header, ","), strings.Join(csvHeader, ",")) {
		return nil, fmt.Errorf("measurement: unexpected CSV header %q", strings.Join(header, ","))
	}

	var readings []Reading
	for {
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		reading, err := lineToReading(line)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

func lineToReading(line []string) (Reading, error) {
	r := Reading{
		ID:   line[0],
		Date: line[2],
		Time: line[3],
	}

	if line[1] != "" {
		ts, err := time.Parse(time.RFC3339, line[1])
		if err != nil {
			return Reading{}, fmt.Errorf("measurement: bad timestamp for %q: %w", line[0], err)
		}
		r.Timestamp = ts.UTC()
	}

	r.Temperature = parseField(line[4])
	r.Humidity = parseField(line[5])
	r.Dust = parseField(line[6])
	return r, nil
}

func parseField(s string) *float64 {
	if s == "" {
		return nil
	}
	return rawNumber([]byte(strconv.Quote(s)))
}
