package repository

import "time"

// SnapshotInfo describes the last imported registry.
type SnapshotInfo struct {
	ID         string    `json:"id"`
	ImportedAt time.Time `json:"imported_at"`
	Interfaces int       `json:"interfaces"`
	Relations  int       `json:"relations"`
	Files      []string  `json:"files"`
}
