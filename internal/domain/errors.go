package domain

import "errors"

var (
	// ErrUnknownTopicReader signals a topic reader variant name with no registered factory.
	ErrUnknownTopicReader = errors.New("unknown topic reader")
	// ErrUnknownQueryBuilder signals a query builder variant name with no registered factory.
	ErrUnknownQueryBuilder = errors.New("unknown query builder")
	// ErrUnknownIndexBackend signals an index backend name with no registered opener.
	ErrUnknownIndexBackend = errors.New("unknown index backend")
	// ErrTopicFieldMissing signals a topic without the configured query field.
	ErrTopicFieldMissing = errors.New("topic field missing")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
