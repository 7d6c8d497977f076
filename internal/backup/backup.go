// Package backup dumps every store collection to a JSON snapshot and restores it.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/store"
)

// FormatVersion is written into every snapshot; Restore rejects other versions.
const FormatVersion = 1

// Snapshot is the on-disk backup format.
type Snapshot struct {
	Version     int                            `json:"version"`
	CreatedAt   string                         `json:"created_at"`
	Collections map[string][]docstore.Document `json:"collections"`
}

// Stats counts documents per collection.
type Stats map[string]int

// Dump writes all documents of every store collection to w, ordered by id.
func Dump(ctx context.Context, docs docstore.Store, w io.Writer, now time.Time) (Stats, error) {
	snap := Snapshot{
		Version:     FormatVersion,
		CreatedAt:   model.FormatTimestamp(now),
		Collections: make(map[string][]docstore.Document, len(store.Collections)),
	}
	stats := Stats{}
	for _, coll := range store.Collections {
		rows, err := docs.Query(ctx, coll)
		if err != nil {
			return nil, errors.Wrapf(err, "dump %s", coll)
		}
		sort.Slice(rows, func(i, j int) bool { return idOf(rows[i]) < idOf(rows[j]) })
		snap.Collections[coll] = rows
		stats[coll] = len(rows)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, errors.Wrap(err, "write snapshot")
	}
	return stats, nil
}

// Restore upserts every document of the snapshot in r. Documents already in the
// store under other ids are left alone.
func Restore(ctx context.Context, docs docstore.Store, r io.Reader) (Stats, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	known := make(map[string]bool, len(store.Collections))
	for _, c := range store.Collections {
		known[c] = true
	}
	for coll := range snap.Collections {
		if !known[coll] {
			return nil, fmt.Errorf("unknown collection %q in snapshot", coll)
		}
	}

	stats := Stats{}
	for _, coll := range store.Collections {
		for i, doc := range snap.Collections[coll] {
			id := idOf(doc)
			if id == "" {
				return stats, fmt.Errorf("%s[%d]: missing %s", coll, i, docstore.IDField)
			}
			if err := docs.Put(ctx, coll, id, doc); err != nil {
				return stats, errors.Wrapf(err, "restore %s/%s", coll, id)
			}
			stats[coll]++
		}
	}
	return stats, nil
}

func idOf(doc docstore.Document) string {
	id, _ := doc[docstore.IDField].(string)
	return id
}
