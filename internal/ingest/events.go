// Package ingest reads raw interaction events and buckets them into
// fixed-width per-item count series.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/schema"
)

// Expected CSV header columns, in order.
var expectedHeader = []string{"item_id", "user_id", "interaction_time"}

// LoadEvents parses interaction events from CSV input. The first row must be
// the header. Timestamps are RFC3339. A malformed row aborts the load with
// its line number so bad feeds surface immediately instead of skewing counts.
func LoadEvents(r io.Reader) ([]schema.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(expectedHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: input is empty", schema.ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("%w: expected header %v, got %v",
				schema.ErrInvalidArgument, expectedHeader, header)
		}
	}

	var events []schema.Event
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		item := strings.TrimSpace(row[0])
		if item == "" {
			return nil, fmt.Errorf("%w: line %d: empty item_id", schema.ErrInvalidArgument, line)
		}

		ts, err := time.Parse(contract.DateTimeFormat, strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad interaction_time: %v",
				schema.ErrInvalidArgument, line, err)
		}

		events = append(events, schema.Event{
			Item: item,
			User: strings.TrimSpace(row[1]),
			Time: ts.UTC(),
		})
	}

	return events, nil
}

// BucketEvents aggregates events into fixed-width buckets per item. Every
// item's series is zero-filled over the global bucket range of the batch, so
// quiet periods count as zero activity rather than missing data. Results are
// sorted by item, points by ascending bucket.
func BucketEvents(events []schema.Event, period time.Duration) ([]schema.ItemSeries, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: bucket period must be positive (received %v)",
			schema.ErrInvalidArgument, period)
	}
	if len(events) == 0 {
		return nil, nil
	}

	counts := make(map[string]map[int64]int64)
	minBucket, maxBucket := int64(0), int64(0)
	first := true

	for _, ev := range events {
		bucket := contract.BucketStart(ev.Time, period).Unix()
		if first {
			minBucket, maxBucket = bucket, bucket
			first = false
		} else {
			if bucket < minBucket {
				minBucket = bucket
			}
			if bucket > maxBucket {
				maxBucket = bucket
			}
		}
		if counts[ev.Item] == nil {
			counts[ev.Item] = make(map[int64]int64)
		}
		counts[ev.Item][bucket]++
	}

	items := make([]string, 0, len(counts))
	for item := range counts {
		items = append(items, item)
	}
	sort.Strings(items)

	width := int64(period / time.Second)
	result := make([]schema.ItemSeries, 0, len(items))
	for _, item := range items {
		var points []schema.SeriesPoint
		for b := minBucket; b <= maxBucket; b += width {
			points = append(points, schema.SeriesPoint{
				Timestamp: time.Unix(b, 0).UTC(),
				Count:     float64(counts[item][b]),
			})
		}
		result = append(result, schema.ItemSeries{Item: item, Points: points})
	}

	return result, nil
}

// ValidateSeries checks that a stored or supplied series has strictly
// increasing bucket timestamps. Out-of-order or duplicate buckets would make
// the running statistics meaningless.
func ValidateSeries(series schema.ItemSeries) error {
	for i := 1; i < len(series.Points); i++ {
		prev, cur := series.Points[i-1].Timestamp, series.Points[i].Timestamp
		if !cur.After(prev) {
			return fmt.Errorf("%w: series for %q is not strictly increasing at index %d (%s then %s)",
				schema.ErrInvalidArgument, series.Item, i,
				prev.Format(contract.DateTimeFormat), cur.Format(contract.DateTimeFormat))
		}
	}
	return nil
}
