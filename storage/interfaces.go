package storage

import "internet-fijo/models"

// TableWriter is the interface any table export backend must satisfy.
type TableWriter interface {
	WriteTables(tables []models.Table) error
	Close() error
}
