// Package notify pushes recomputed dashboards to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/splitledger/internal/report"
)

// Publisher receives every dashboard produced after a committed change.
type Publisher interface {
	Publish(ctx context.Context, d report.Dashboard) error
}

// SnapshotMessage is the wire form of a published dashboard.
type SnapshotMessage struct {
	Version     uint64           `json:"version"`
	PublishedAt time.Time        `json:"publishedAt"`
	Dashboard   report.Dashboard `json:"dashboard"`
}

// NewSnapshotMessage wraps a dashboard for publishing.
func NewSnapshotMessage(d report.Dashboard) *SnapshotMessage {
	return &SnapshotMessage{
		Version:     d.Version,
		PublishedAt: time.Now().UTC(),
		Dashboard:   d,
	}
}

// ToJSON encodes the message.
func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotMessageFromJSON decodes a message produced by ToJSON.
func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var m SnapshotMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LogPublisher writes a one-line summary of each dashboard to slog.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, d report.Dashboard) error {
	slog.InfoContext(ctx, "Dashboard recomputed",
		"version", d.Version,
		"participants", len(d.Participants),
		"expenses", len(d.Expenses),
		"transfers", len(d.Settlements),
		"outstanding", d.Outstanding.StringFixed(2))
	return nil
}

// Multi fans a dashboard out to several publishers. Every publisher is
// tried; the errors are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, d report.Dashboard) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
