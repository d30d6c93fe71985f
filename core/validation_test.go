package core

import (
	"errors"
	"testing"
)

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr error
	}{
		{
			name: "valid post",
			post: &Post{
				PostNumber:    1,
				Content:       "How do I reset my password?",
				TextEmbedding: []float32{0.1, 0.2},
			},
			wantErr: nil,
		},
		{
			name: "valid post without image embeddings",
			post: &Post{
				PostNumber:      2,
				Content:         "Reply",
				Images:          []string{"https://example.com/a.png"},
				TextEmbedding:   []float32{1},
				ImageEmbeddings: nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil post",
			post:    nil,
			wantErr: ErrInvalidPost,
		},
		{
			name: "empty content",
			post: &Post{
				PostNumber:    3,
				Content:       "   ",
				TextEmbedding: []float32{1},
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "missing embedding",
			post: &Post{
				PostNumber: 4,
				Content:    "text",
			},
			wantErr: ErrMissingEmbedding,
		},
		{
			name: "zero embedding",
			post: &Post{
				PostNumber:    5,
				Content:       "text",
				TextEmbedding: []float32{0, 0, 0},
			},
			wantErr: ErrZeroMagnitude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePost(tt.post)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePost() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePost() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidPost) {
				t.Errorf("ValidatePost() error = %v, should wrap ErrInvalidPost", err)
			}
		})
	}
}

func TestValidateCollection(t *testing.T) {
	valid := &Post{PostNumber: 1, Content: "a", TextEmbedding: []float32{1}}
	invalid := &Post{PostNumber: 2, Content: "b"}

	if err := ValidateCollection(PostCollection{valid}); err != nil {
		t.Errorf("unexpected error for valid collection: %v", err)
	}
	if err := ValidateCollection(nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus for empty collection, got %v", err)
	}
	if err := ValidateCollection(PostCollection{valid, invalid}); !errors.Is(err, ErrMissingEmbedding) {
		t.Errorf("expected ErrMissingEmbedding, got %v", err)
	}
}

func TestValidateQuery(t *testing.T) {
	if err := ValidateQuery(&Query{Question: "what is a goroutine?"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateQuery(&Query{Question: "  "}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
	if err := ValidateQuery(nil); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for nil query, got %v", err)
	}
}
