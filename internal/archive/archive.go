// Package archive keeps a gzip-compressed Extended JSON copy of every batch
// of documents loaded into the destination collection.
package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"

	"order-etl/internal/model"

	"go.mongodb.org/mongo-driver/bson"
)

// Archiver stores a named copy of a batch of order documents.
type Archiver interface {
	// Archive writes docs under name, one relaxed Extended JSON document per line.
	Archive(ctx context.Context, name string, docs []model.OrderDocument) error
}

// ObjectName returns the archive name for a run.
func ObjectName(runID string) string {
	return "orders-" + runID + ".jsonl.gz"
}

// encode renders docs as gzip-compressed newline-delimited relaxed Extended JSON.
func encode(docs []model.OrderDocument) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	for i := range docs {
		line, err := bson.MarshalExtJSON(docs[i], false, false)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document %s: %w", docs[i].UID, err)
		}
		if _, err := gz.Write(line); err != nil {
			return nil, fmt.Errorf("failed to compress archive: %w", err)
		}
		if _, err := gz.Write([]byte{'\n'}); err != nil {
			return nil, fmt.Errorf("failed to compress archive: %w", err)
		}
	}

	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	return buf.Bytes(), nil
}
