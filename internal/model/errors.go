package model

import "errors"

// Error kinds shared across the analysis and trading pipeline. Callers wrap
// these with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrNoData means a price series came back empty for the symbol.
	ErrNoData = errors.New("no price data")

	// ErrInsufficientHistory means an indicator window or a statement-year
	// lookback exceeds the available history. Short input aborts the
	// computation instead of silently truncating the window.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrDivisionUndefined means a ratio had a zero denominator and no
	// documented neutral value exists for it.
	ErrDivisionUndefined = errors.New("division undefined")

	// ErrOrderSubmission means the brokerage rejected an order. It is
	// isolated per symbol and never aborts the surrounding pass.
	ErrOrderSubmission = errors.New("order submission failed")
)
