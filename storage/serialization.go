// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"errors"
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// ImageEmbeddingRecord is the stored form of a memoized image embedding.
// The URL is kept alongside the vector so that a key collision is detected
// on read rather than returning another image's vector.
type ImageEmbeddingRecord struct {
	URL    string
	Vector []float32
}

// ImageEmbeddingRecordMUS serializes an ImageEmbeddingRecord in MUS format:
// the URL as a length-prefixed string, then the vector length as a varint
// followed by each element as a raw float32.
var ImageEmbeddingRecordMUS = imageEmbeddingRecordMUS{}

var _ mus.Serializer[ImageEmbeddingRecord] = ImageEmbeddingRecordMUS

type imageEmbeddingRecordMUS struct{}

func (s imageEmbeddingRecordMUS) Marshal(v ImageEmbeddingRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.URL, bs)
	n += varint.PositiveInt.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func (s imageEmbeddingRecordMUS) Unmarshal(bs []byte) (v ImageEmbeddingRecord, n int, err error) {
	v.URL, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var (
		dim int
		n1  int
	)
	dim, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if dim < 0 || dim > (len(bs)-n)/raw.Float32.Size(0) {
		err = fmt.Errorf("%w: vector of %d elements in %d bytes", ErrTruncatedData, dim, len(bs)-n)
		return
	}
	v.Vector = make([]float32, dim)
	for i := range v.Vector {
		v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s imageEmbeddingRecordMUS) Size(v ImageEmbeddingRecord) (size int) {
	size = ord.String.Size(v.URL)
	size += varint.PositiveInt.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += raw.Float32.Size(f)
	}
	return
}

func (s imageEmbeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MarshalImageEmbedding serializes a record to bytes.
func MarshalImageEmbedding(record *ImageEmbeddingRecord) []byte {
	buf := make([]byte, ImageEmbeddingRecordMUS.Size(*record))
	ImageEmbeddingRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalImageEmbedding deserializes a record from bytes.
// Trailing bytes after the record are rejected.
func UnmarshalImageEmbedding(data []byte) (*ImageEmbeddingRecord, error) {
	record, n, err := ImageEmbeddingRecordMUS.Unmarshal(data)
	if err != nil {
		if errors.Is(err, ErrTruncatedData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedData, len(data)-n)
	}
	return &record, nil
}
