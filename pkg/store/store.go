// Package store publishes rendered figures and keeps an index of them.
//
// A [Store] writes figure bytes under a key and returns the public URL the
// draft should link to. [FileStore] writes into a local site tree (for
// example the blog's public/ directory); [S3Store] uploads to a bucket.
//
// An [Index] records which figures were produced for which post so a
// reviewer or a cleanup job can find them later. [MongoIndex] persists
// records; [NopIndex] discards them.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChartDir is the site directory figures are published under.
const ChartDir = "postimages/charts"

// ContentTypeSVG is the media type of rendered figures.
const ContentTypeSVG = "image/svg+xml"

// Store publishes objects.
type Store interface {
	// Put writes data under key and returns its public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// FigureKey returns the object key of the n-th figure (1-based) of a post.
func FigureKey(slug string, n int) string {
	return fmt.Sprintf("%s/%s-%d.svg", ChartDir, slug, n)
}

// joinURL joins a base URL and a key with exactly one slash.
func joinURL(base, key string) string {
	if base == "" {
		return "/" + strings.TrimLeft(key, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// Record describes one published figure.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Slug      string    `json:"slug" bson:"slug"`
	Kind      string    `json:"kind" bson:"kind"`
	Key       string    `json:"key" bson:"key"`
	URL       string    `json:"url" bson:"url"`
	Hash      string    `json:"hash" bson:"hash"`
	Alt       string    `json:"alt,omitempty" bson:"alt,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord fills in the ID and creation time.
func NewRecord(slug, kind, key, url, hash string) Record {
	return Record{
		ID:        uuid.NewString(),
		Slug:      slug,
		Kind:      kind,
		Key:       key,
		URL:       url,
		Hash:      hash,
		CreatedAt: time.Now().UTC(),
	}
}

// Index records published figures.
type Index interface {
	Record(ctx context.Context, r Record) error
	// List returns the records of a post, oldest first.
	List(ctx context.Context, slug string) ([]Record, error)
	Close(ctx context.Context) error
}

// NopIndex discards records.
type NopIndex struct{}

func (NopIndex) Record(context.Context, Record) error           { return nil }
func (NopIndex) List(context.Context, string) ([]Record, error) { return nil, nil }
func (NopIndex) Close(context.Context) error                    { return nil }

var _ Index = NopIndex{}
