package features

import (
	"fmt"

	"StockForecaster/internal/calculator"
	"StockForecaster/internal/model"
)

// CompleteRows returns the indices of rows where every schema column is defined, oldest first.
func CompleteRows(f *model.Frame) ([]int, error) {
	cols, err := schemaColumns(f)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i := 0; i < f.Len(); i++ {
		if complete(cols, i) {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// Assemble selects the most recent complete row of f and projects it onto the feature schema.
// Rows are never filled in; incomplete rows are skipped.
func Assemble(f *model.Frame) (*model.FeatureRow, error) {
	cols, err := schemaColumns(f)
	if err != nil {
		return nil, err
	}

	last := -1
	for i := f.Len() - 1; i >= 0; i-- {
		if complete(cols, i) {
			last = i
			break
		}
	}
	if last < 0 {
		return nil, model.NewPipelineError(model.CodeInsufficientHistory,
			fmt.Sprintf("not enough history to compute indicators for %s (%d bars, need at least %d complete rows); widen the lookback window",
				f.Symbol, f.Len(), calculator.LongestLookback), nil)
	}

	row := &model.FeatureRow{
		Symbol: f.Symbol,
		Date:   f.Dates[last],
		Names:  make([]string, len(model.FeatureSchema)),
		Values: make([]float64, len(model.FeatureSchema)),
	}
	copy(row.Names, model.FeatureSchema)
	for j, col := range cols {
		row.Values[j] = col[last].Float64
	}
	return row, nil
}

func schemaColumns(f *model.Frame) ([][]model.NullFloat, error) {
	cols := make([][]model.NullFloat, len(model.FeatureSchema))
	for j, name := range model.FeatureSchema {
		col, ok := f.Column(name)
		if !ok {
			return nil, model.NewPipelineError(model.CodeSchemaMismatch,
				fmt.Sprintf("feature column %s missing for %s", name, f.Symbol), nil)
		}
		cols[j] = col
	}
	return cols, nil
}

func complete(cols [][]model.NullFloat, i int) bool {
	for _, col := range cols {
		if !col[i].Valid {
			return false
		}
	}
	return true
}
