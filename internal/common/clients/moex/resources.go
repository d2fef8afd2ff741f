package moex

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
)

// ISS serves candles as a columns list plus heterogeneous data rows; cells
// are matched to fields by column name, not position.
type candlesResponse struct {
	Candles struct {
		Columns []string            `json:"columns"`
		Data    [][]json.RawMessage `json:"data"`
	} `json:"candles"`
}

const candleTimeLayout = "2006-01-02 15:04:05"

func (res *candlesResponse) CreateDomain(ticker string) ([]*domain.Candle, error) {
	index := make(map[string]int, len(res.Candles.Columns))
	for i, name := range res.Candles.Columns {
		index[name] = i
	}

	candles := make([]*domain.Candle, 0, len(res.Candles.Data))
	for _, row := range res.Candles.Data {
		candle := &domain.Candle{Ticker: ticker}

		var err error
		if candle.Open, err = floatCell(row, index, "open"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.Close, err = floatCell(row, index, "close"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.High, err = floatCell(row, index, "high"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.Low, err = floatCell(row, index, "low"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.Value, err = floatCell(row, index, "value"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.Volume, err = floatCell(row, index, "volume"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.Begin, err = timeCell(row, index, "begin"); err != nil {
			return nil, errs.NewStack(err)
		}
		if candle.End, err = timeCell(row, index, "end"); err != nil {
			return nil, errs.NewStack(err)
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

func floatCell(row []json.RawMessage, index map[string]int, name string) (float64, error) {
	cell, err := rawCell(row, index, name)
	if err != nil {
		return 0, err
	}

	// ISS reports missing values as null.
	var value *float64
	if err := json.Unmarshal(cell, &value); err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	if value == nil {
		return 0, nil
	}

	return *value, nil
}

func timeCell(row []json.RawMessage, index map[string]int, name string) (time.Time, error) {
	cell, err := rawCell(row, index, name)
	if err != nil {
		return time.Time{}, err
	}

	var value string
	if err := json.Unmarshal(cell, &value); err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", name, err)
	}

	parsed, err := time.ParseInLocation(candleTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", name, err)
	}

	return parsed, nil
}

func rawCell(row []json.RawMessage, index map[string]int, name string) (json.RawMessage, error) {
	i, ok := index[name]
	if !ok {
		return nil, fmt.Errorf("column %q is missing", name)
	}
	if i >= len(row) {
		return nil, fmt.Errorf("row is shorter than columns list")
	}

	return row[i], nil
}
