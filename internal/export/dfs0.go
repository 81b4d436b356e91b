package export

import (
	"fmt"

	"resextract/internal/dfs0"
	"resextract/internal/resolve"
	"resextract/internal/store"
)

// writeDFS0 renders one instantaneous float channel per entry into the binary
// container. Record times are seconds elapsed since the archive start time.
func writeDFS0(path string, data *store.ResultData, entries []resolve.Entry, stride int) error {
	b := dfs0.NewBuilder("resextract", "resextract", 1)
	b.SetStartTime(data.StartTime())
	for _, e := range entries {
		b.AddChannel(channelName(e), e.Item.Quantity.Unit)
	}

	f, err := b.Create(path)
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		start := data.StartTime()
		values := make([]float32, len(entries))
		for t, stamp := range data.Times {
			if t%stride != 0 {
				continue
			}
			for j, e := range entries {
				values[j] = float32(e.Item.Value(t, e.Element))
			}
			if err := f.WriteRecord(stamp.Sub(start).Seconds(), values); err != nil {
				f.Close()
				return fmt.Errorf("writing dfs0 record: %w", err)
			}
		}
	}

	return f.Close()
}

// channelName synthesizes the channel id from the entry's kind, quantity and
// location, with the grid point chainage appended for reach entries.
func channelName(e resolve.Entry) string {
	name := fmt.Sprintf("%s:%s:%s", e.Kind, e.Item.Quantity.ID, e.Location)
	if e.HasChainage {
		name = fmt.Sprintf("%s:%.3f", name, e.Chainage)
	}
	return name
}
