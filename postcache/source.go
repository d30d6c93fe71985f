package postcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/poiesic/forumqa/core"
)

// rawThread is the forum thread export. Posts are kept raw so that one bad
// post cannot fail decoding of the whole document.
type rawThread struct {
	PostStream *struct {
		Posts []json.RawMessage `json:"posts"`
	} `json:"post_stream"`
}

// rawPost is a single post of the export. Pointer fields tell a missing field
// apart from a zero value.
type rawPost struct {
	PostNumber *int     `json:"post_number"`
	CreatedAt  *string  `json:"created_at"`
	Cooked     *string  `json:"cooked"`
	Images     []string `json:"images"`
	PostURL    *string  `json:"post_url"`
}

// readSource reads the thread export at path and returns its raw posts in order.
func readSource(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingSource, path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", core.ErrMalformedDocument, path, err)
	}

	var thread rawThread
	if err := json.Unmarshal(data, &thread); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", core.ErrMalformedDocument, path, err)
	}
	if thread.PostStream == nil {
		return nil, fmt.Errorf("%w: %s has no post_stream", core.ErrMalformedDocument, path)
	}

	return thread.PostStream.Posts, nil
}

// decodeRawPost decodes one raw post and checks that every required field is
// present. Images are optional. created_at is not interpreted.
func decodeRawPost(data json.RawMessage) (*rawPost, error) {
	var raw rawPost
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedDocument, err)
	}

	var missing []string
	if raw.PostNumber == nil {
		missing = append(missing, "post_number")
	}
	if raw.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	if raw.Cooked == nil {
		missing = append(missing, "cooked")
	}
	if raw.PostURL == nil {
		missing = append(missing, "post_url")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return &raw, nil
}
