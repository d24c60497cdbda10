// Package store persists saved drafts.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/share"
)

var ErrNotFound = errors.New("saved draft not found")

// SavedDraft is one stored snapshot. ID is the snapshot's content ID, so
// saving identical drafts twice keeps a single row.
type SavedDraft struct {
	ID           string              `gorm:"primaryKey;size:32" json:"id"`
	Label        string              `gorm:"size:120" json:"label"`
	Format       engine.Format       `gorm:"size:16;not null" json:"format"`
	StartingSide engine.StartingSide `gorm:"size:16;not null" json:"starting_side"`
	Complete     bool                `gorm:"not null;default:false" json:"complete"`
	Payload      []byte              `gorm:"not null" json:"-"`
	CreatedAt    time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type Store interface {
	Save(ctx context.Context, d *SavedDraft) error
	Get(ctx context.Context, id string) (*SavedDraft, error)
	List(ctx context.Context, limit int) ([]SavedDraft, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewSavedDraft wraps a draft snapshot for storage.
func NewSavedDraft(label string, snap engine.Snapshot) (*SavedDraft, error) {
	id, err := share.ContentID(snap)
	if err != nil {
		return nil, err
	}
	payload, err := share.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return &SavedDraft{
		ID:           id,
		Label:        label,
		Format:       snap.Format,
		StartingSide: snap.StartingSide,
		Complete:     snap.Cursor >= len(engine.GenerateFlow(snap.Format, snap.StartingSide)),
		Payload:      payload,
	}, nil
}

func (d *SavedDraft) Snapshot() (engine.Snapshot, error) {
	return share.Unmarshal(d.Payload)
}
