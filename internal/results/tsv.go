package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteTSV writes rows as tab-separated values with the header
// word0..word{k-1}, score, success, speed, where k is the width of the
// first row.
func WriteTSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	k := 0
	if len(rows) > 0 {
		k = len(rows[0].Words)
	}
	header := make([]string, 0, k+3)
	for i := range k {
		header = append(header, fmt.Sprintf("word%d", i))
	}
	header = append(header, "score", "success", "speed")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		if len(r.Words) != k {
			return fmt.Errorf("row %d: %d words, want %d", r.Rank, len(r.Words), k)
		}
		rec := append([]string(nil), r.Words...)
		rec = append(rec,
			strconv.FormatFloat(r.Score, 'g', -1, 64),
			strconv.FormatFloat(r.Success, 'g', -1, 64),
			strconv.FormatFloat(r.Speed, 'g', -1, 64),
		)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
