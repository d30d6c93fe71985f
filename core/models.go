package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier used for keying cached artifacts.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Post is a single cached forum post together with its embeddings.
// The JSON layout is the on-disk snapshot format.
type Post struct {
	PostNumber      int         `json:"post_number"`
	CreatedAt       string      `json:"created_at"`       // Source timestamp, kept verbatim
	Content         string      `json:"content"`          // Plain text extracted from the rich-text body
	Images          []string    `json:"images"`           // Image URLs in post order, may be empty
	PostURL         string      `json:"post_url"`
	TextEmbedding   []float32   `json:"text_embedding"`   // Always present for cached posts
	ImageEmbeddings [][]float32 `json:"image_embeddings"` // Empty until computed
}

// PostCollection is the ordered set of cached posts. It is built once and
// shared read-only afterwards.
type PostCollection []*Post

// ReferenceDocument is a reference article identified by its front matter.
type ReferenceDocument struct {
	Title       string `yaml:"title"`
	OriginalURL string `yaml:"original_url"`
}

// ReferenceMatch is the best reference document for a query along with its score.
type ReferenceMatch struct {
	Document ReferenceDocument
	Score    float64
}

// Query is a single incoming question. Attachments are either http(s) URLs
// or encoded image payloads.
type Query struct {
	Question    string   `json:"question"`
	Attachments []string `json:"attachments,omitempty"`
}

// RankedResult pairs a post with its ranking score.
type RankedResult struct {
	Score float64
	Post  *Post
}

// Link is a single entry in an answer's link list.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Answer is the response produced for a Query.
type Answer struct {
	Answer string `json:"answer"`
	Links  []Link `json:"links"`
}
