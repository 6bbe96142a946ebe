// Package usecase はrankingフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrEmptyQuery is returned when the query is missing or blank after trimming.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrDataUnavailable is returned when the ranking sheet cannot be fetched
	// or contains no data rows.
	ErrDataUnavailable = errors.New("ranking data unavailable")

	// ErrAssistantFailure is returned when the assistant run ends in a
	// non-completed terminal state or the poll attempt budget is exceeded.
	ErrAssistantFailure = errors.New("assistant failure")
)
