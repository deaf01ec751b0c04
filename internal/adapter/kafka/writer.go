// Package kafka exports snapshots to a Kafka topic so downstream
// consumers (dashboards, archival jobs) can follow the map without
// polling the HTTP API. The export is optional and off by default.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/odorlab/odormap/internal/view"
)

// Writer produces snapshot messages to a Kafka topic.
// It implements view.SnapshotSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the snapshot topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one snapshot and writes it to the topic.
func (w *Writer) Publish(ctx context.Context, snap view.Snapshot) error {
	msg, err := serializeSnapshot(snap)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeSnapshot marshals a snapshot into a Kafka message. The key
// identifies the selection, so a compacted topic retains the latest
// snapshot per selection.
func serializeSnapshot(snap view.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(selectionKey(snap.State)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mode", Value: []byte(snap.State.Mode)},
			{Key: "generated_at", Value: []byte(snap.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}

func selectionKey(st view.State) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s", st.Mode, st.Anchor, st.WeekIndex, st.Hour, st.MapView)
}
