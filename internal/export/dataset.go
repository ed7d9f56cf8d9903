// Package export renders schedules as CSV and PDF documents.
package export

import (
	"strconv"
	"time"

	"github.com/alexanderramin/shopfloor/internal/app"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// BlockHeaders are the columns of a schedule export, one row per block.
var BlockHeaders = []string{
	"machine", "kind", "block_id", "request_id", "item", "from_item", "to_item",
	"quantity", "start", "end", "minutes",
}

// SkippedHeaders are the columns of the skipped-request export.
var SkippedHeaders = []string{"request_id", "machine", "reason", "message"}

// ScheduleDataset flattens a schedule into rows ordered by machine, then start.
func ScheduleDataset(resp *app.ScheduleResponse) Dataset {
	data := Dataset{Headers: BlockHeaders}
	for _, m := range resp.Machines {
		lane := domain.CoalesceStr(m.MachineName, m.MachineID)
		for _, b := range m.Blocks {
			row := map[string]string{
				"machine":    lane,
				"kind":       string(b.Kind),
				"block_id":   b.ID,
				"request_id": b.RequestID,
				"start":      b.Start.Format(time.RFC3339),
				"end":        b.End.Format(time.RFC3339),
				"minutes":    strconv.FormatFloat(b.Minutes, 'f', 1, 64),
			}
			if b.Kind == domain.BlockSetup {
				row["from_item"] = b.FromItemID
				row["to_item"] = b.ToItemID
			} else {
				row["item"] = b.ItemID
				row["quantity"] = strconv.FormatInt(b.Quantity, 10)
			}
			data.Rows = append(data.Rows, row)
		}
	}
	return data
}

// SkippedDataset lists the requests a schedule could not place.
func SkippedDataset(resp *app.ScheduleResponse) Dataset {
	names := make(map[string]string, len(resp.Machines))
	for _, m := range resp.Machines {
		names[m.MachineID] = m.MachineName
	}
	data := Dataset{Headers: SkippedHeaders}
	for _, s := range resp.Skipped {
		data.Rows = append(data.Rows, map[string]string{
			"request_id": s.RequestID,
			"machine":    domain.CoalesceStr(names[s.MachineID], s.MachineID),
			"reason":     string(s.Reason),
			"message":    s.Message,
		})
	}
	return data
}
