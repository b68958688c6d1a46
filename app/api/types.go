package api

import (
	"github.com/ozdeals/dealpress/app/archive"
)

// ArchiveReader is the read-side contract the handlers need from the
// publish archive.
type ArchiveReader interface {
	Recent(limit int) ([]archive.PublishedDeal, error)
	GetStats() (archive.Stats, error)
}

var _ ArchiveReader = (*archive.Repository)(nil)

type Handler struct {
	archive ArchiveReader
	version string
}
