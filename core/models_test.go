package core

import (
	"encoding/json"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "https://forum.example.com/uploads/a.png",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPost_SnapshotFieldNames(t *testing.T) {
	post := Post{
		PostNumber:      7,
		CreatedAt:       "2025-01-02T03:04:05.000Z",
		Content:         "hello",
		Images:          []string{"https://example.com/a.png"},
		PostURL:         "https://example.com/t/1/7",
		TextEmbedding:   []float32{1, 0},
		ImageEmbeddings: [][]float32{{0, 1}},
	}

	data, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, name := range []string{"post_number", "created_at", "content", "images", "post_url", "text_embedding", "image_embeddings"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("snapshot field %q missing from %s", name, data)
		}
	}
	if len(fields) != 7 {
		t.Errorf("expected exactly 7 snapshot fields, got %d", len(fields))
	}
}
