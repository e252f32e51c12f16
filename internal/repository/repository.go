package repository

import (
	"context"

	"netplan-parser/internal/domain"
)

// Repository defines the interface for snapshot data access
type Repository interface {
	// Read operations
	GetInterface(ctx context.Context, name string) (*domain.InterfaceRecord, error)
	ListInterfaces(ctx context.Context, section domain.Section) ([]domain.InterfaceRecord, error)
	ListRelations(ctx context.Context, name string) ([]domain.Relation, error)
	GetSnapshotInfo(ctx context.Context) (*SnapshotInfo, error)

	// Bulk operations
	ImportRegistry(ctx context.Context, reg *domain.Registry) error

	// Close releases resources
	Close() error
}
