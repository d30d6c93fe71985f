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

// Package search ranks cached forum posts against a question.
//
// Ranking is two-stage. Every post is first scored by the cosine similarity
// of its text embedding with the question's, and the best candidates (ten by
// default) are kept. When the question came with an image, each candidate's
// images are embedded and the best image match is averaged with the text
// score. Finally a fixed bonus is added to posts containing the question
// verbatim (case-insensitive), and the top results (three by default) are
// returned. Sorting is stable, so equal scores keep collection order.
//
// Image embedding is best effort throughout: an image that cannot be fetched
// or embedded simply contributes no score.
package search
