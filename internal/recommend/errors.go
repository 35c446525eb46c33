// Package recommend resolves a title against the dataset, ranks its nearest
// neighbours in the similarity matrix and enriches them with metadata.
package recommend

import "errors"

var (
	// ErrEmptyDataset is returned when there are no titles to resolve against.
	ErrEmptyDataset = errors.New("recommend: dataset is empty")

	// ErrNotFound is returned when a title cannot be resolved.
	ErrNotFound = errors.New("recommend: movie not found")

	// ErrIndexOutOfRange signals a row index outside the similarity matrix,
	// which means the movie table and matrix disagree.
	ErrIndexOutOfRange = errors.New("recommend: row index out of range")

	// ErrInvalidK is returned for a non-positive result count.
	ErrInvalidK = errors.New("recommend: k must be positive")
)
