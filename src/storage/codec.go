package storage

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"market-dashboard/src/helpers"
	"market-dashboard/src/models"
)

// snapshotRow is the column layout shared by every snapshot backend.
type snapshotRow struct {
	Symbol    string
	Period    string
	Source    string
	Status    string
	FetchedAt int64
	Payload   []byte
}

// -----------------------------------------------------------------------------

func encodeSnapshot(result models.MChartResult) (snapshotRow, error) {
	payload, err := msgpack.Marshal(&result)
	if err != nil {
		return snapshotRow{}, helpers.NewDatabaseError("encode snapshot "+result.Symbol+"/"+result.Period, err)
	}
	return snapshotRow{
		Symbol:    result.Symbol,
		Period:    result.Period,
		Source:    result.Source,
		Status:    result.Status,
		FetchedAt: result.FetchedAt.Unix(),
		Payload:   payload,
	}, nil
}

// -----------------------------------------------------------------------------

func decodeSnapshot(payload []byte) (models.MChartResult, error) {
	var result models.MChartResult
	if err := msgpack.Unmarshal(payload, &result); err != nil {
		return models.MChartResult{}, helpers.NewDatabaseError("decode snapshot", err)
	}
	result.FetchedAt = result.FetchedAt.UTC()
	return result, nil
}

// -----------------------------------------------------------------------------

func retentionCutoff(now time.Time, days int) int64 {
	if days <= 0 {
		days = 7
	}
	return now.UTC().AddDate(0, 0, -days).Unix()
}
