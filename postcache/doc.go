// Package postcache loads or builds the embedded post collection.
//
// A collection is built from a raw forum thread export: each post's rendered
// body is reduced to plain text and embedded with the text embedder. The
// result is written as a JSON snapshot; later runs load the snapshot and make
// no embedding calls at all.
//
// Building is best effort per post. A post missing a required field, with no
// text, or whose embedding fails after retries is logged and left out; the
// build as a whole only fails when nothing survives.
package postcache
