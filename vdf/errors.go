package vdf

import "errors"

// Error taxonomy. Stages wrap these with context via fmt.Errorf("...: %w", err);
// callers match them with errors.Is.
var (
	// ErrUnknownFormat reports an input file whose name matches no known simulation format.
	ErrUnknownFormat = errors.New("unknown file type")

	// ErrReaderUnavailable reports a recognized format with no registered reader.
	ErrReaderUnavailable = errors.New("no reader registered for format")

	// ErrUnsupportedMethod reports a clustering method name outside {kmeans, GMM}.
	ErrUnsupportedMethod = errors.New("unsupported clustering method")

	// ErrUnsupportedConfig reports a generator (dims, clusters) pair without a preset mixture.
	ErrUnsupportedConfig = errors.New("unsupported generator configuration")

	// ErrInvalidConfig reports an out-of-range configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNumerical reports input that cannot be processed numerically
	// (empty table, non-finite values, singular covariance).
	ErrNumerical = errors.New("numerical error")
)
