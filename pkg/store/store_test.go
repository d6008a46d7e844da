package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/figurine/pkg/errors"
)

func TestFigureKey(t *testing.T) {
	if got := FigureKey("why-serverless", 2); got != "postimages/charts/why-serverless-2.svg" {
		t.Errorf("FigureKey() = %q", got)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "a/b.svg", "https://cdn.example.com/a/b.svg"},
		{"https://cdn.example.com/", "/a/b.svg", "https://cdn.example.com/a/b.svg"},
		{"", "a/b.svg", "/a/b.svg"},
	}
	for _, tt := range tests {
		if got := joinURL(tt.base, tt.key); got != tt.want {
			t.Errorf("joinURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestFileStore(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, "")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	key := FigureKey("post", 1)
	url, err := s.Put(context.Background(), key, []byte("<svg/>"), ContentTypeSVG)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/postimages/charts/post-1.svg" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(root, "postimages", "charts", "post-1.svg"))
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("file content = %q, %v", data, err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, _ := NewFileStore(t.TempDir(), "https://blog.example.com")
	_, err := s.Put(context.Background(), "../outside.svg", nil, ContentTypeSVG)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Put(traversal) error = %v, want INVALID_PATH", err)
	}
}

func TestNewFileStoreValidation(t *testing.T) {
	if _, err := NewFileStore("", ""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("empty root error = %v", err)
	}
	if _, err := NewFileStore(t.TempDir(), "ftp://x"); err == nil {
		t.Error("non-http base URL should be rejected")
	}
}

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	older := NewRecord("post", "bar", "k1", "/k1", "h1")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := NewRecord("post", "pie", "k2", "/k2", "h2")
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)

	_ = idx.Record(ctx, newer)
	_ = idx.Record(ctx, older)
	_ = idx.Record(ctx, NewRecord("other", "venn", "k3", "/k3", "h3"))

	got, err := idx.List(ctx, "post")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Key != "k1" || got[1].Key != "k2" {
		t.Errorf("List() = %+v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Error("records should get distinct IDs")
	}
}

func TestNopIndex(t *testing.T) {
	var idx Index = NopIndex{}
	if err := idx.Record(context.Background(), Record{}); err != nil {
		t.Error(err)
	}
	if got, _ := idx.List(context.Background(), "x"); got != nil {
		t.Errorf("List() = %v, want nil", got)
	}
}
