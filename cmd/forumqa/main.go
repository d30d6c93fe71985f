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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/forumqa"
	"github.com/poiesic/forumqa/ai"
	"github.com/poiesic/forumqa/core"
	"github.com/poiesic/forumqa/postcache"
	"github.com/poiesic/forumqa/reference"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	defaults := ai.DefaultConfig()

	return &cli.App{
		Name:  "forumqa",
		Usage: "Answer questions from a forum thread and reference documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"FORUMQA_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Path to the raw thread export (JSON)",
				Value:   "thread.json",
				EnvVars: []string{"FORUMQA_SOURCE"},
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Usage:   "Path to the embedded post snapshot",
				Value:   "posts.json",
				EnvVars: []string{"FORUMQA_SNAPSHOT"},
			},
			&cli.StringFlag{
				Name:    "references",
				Aliases: []string{"r"},
				Usage:   "Directory of reference documents with front matter",
				EnvVars: []string{"FORUMQA_REFERENCES"},
			},
			&cli.Float64Flag{
				Name:    "reference-threshold",
				Usage:   "Minimum title similarity for a reference link",
				Value:   reference.DefaultThreshold,
				EnvVars: []string{"FORUMQA_REFERENCE_THRESHOLD"},
			},
			&cli.StringFlag{
				Name:    "text-host",
				Usage:   "Text embedding service base URL",
				Value:   defaults.TextHost,
				EnvVars: []string{"FORUMQA_TEXT_HOST"},
			},
			&cli.StringFlag{
				Name:    "text-model",
				Usage:   "Text embedding model name",
				Value:   defaults.TextModel,
				EnvVars: []string{"FORUMQA_TEXT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "text-key",
				Usage:   "Text embedding API key",
				EnvVars: []string{"FORUMQA_TEXT_KEY"},
			},
			&cli.StringFlag{
				Name:    "image-host",
				Usage:   "Image embedding endpoint URL",
				Value:   defaults.ImageHost,
				EnvVars: []string{"FORUMQA_IMAGE_HOST"},
			},
			&cli.StringFlag{
				Name:    "image-model",
				Usage:   "Image embedding model name",
				Value:   defaults.ImageModel,
				EnvVars: []string{"FORUMQA_IMAGE_MODEL"},
			},
			&cli.StringFlag{
				Name:    "image-key",
				Usage:   "Image embedding API key",
				EnvVars: []string{"FORUMQA_IMAGE_KEY"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Per-request timeout for embedding calls",
				Value:   ai.DefaultTimeout,
				EnvVars: []string{"FORUMQA_TIMEOUT"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the post snapshot from the thread export",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Rebuild even if a valid snapshot exists",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of posts embedded concurrently",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N posts",
						Value: postcache.DefaultProgressInterval,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum embedding attempts per post",
						Value: postcache.DefaultMaxAttempts,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: postcache.DefaultRetryDelay,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question and print the answer as JSON",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "attach",
						Aliases: []string{"a"},
						Usage:   "Image attachment: an http(s) URL or a base64 payload (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Indent the JSON output",
					},
				},
			},
		},
	}
}

func aiConfig(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithTextHost(c.String("text-host")),
		ai.WithTextModel(c.String("text-model")),
		ai.WithTextKey(c.String("text-key")),
		ai.WithImageHost(c.String("image-host")),
		ai.WithImageModel(c.String("image-model")),
		ai.WithImageKey(c.String("image-key")),
		ai.WithTimeout(c.Duration("timeout")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func newEngine(c *cli.Context, opts ...forumqa.EngineOption) (*forumqa.Engine, error) {
	config, err := aiConfig(c)
	if err != nil {
		return nil, err
	}

	opts = append([]forumqa.EngineOption{
		forumqa.WithAIConfig(config),
		forumqa.WithReferenceThreshold(c.Float64("reference-threshold")),
	}, opts...)
	if dir := c.String("references"); dir != "" {
		opts = append(opts, forumqa.WithReferenceDir(dir))
	}

	engine, err := forumqa.NewEngine(c.String("snapshot"), c.String("source"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

func buildCommand(c *cli.Context) error {
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	opts := []forumqa.EngineOption{
		forumqa.WithProgress(c.App.ErrWriter, c.Int("report-interval")),
		forumqa.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, forumqa.WithPoolSize(workers))
	}

	engine, err := newEngine(c, opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(c.App.ErrWriter, "Source: %s\n", c.String("source"))
	fmt.Fprintf(c.App.ErrWriter, "Snapshot: %s\n", c.String("snapshot"))
	fmt.Fprintf(c.App.ErrWriter, "Text model: %s\n", c.String("text-model"))
	fmt.Fprintln(c.App.ErrWriter)

	var posts core.PostCollection
	if c.Bool("force") {
		posts, err = engine.Rebuild(c.Context)
	} else {
		posts, err = engine.Collection(c.Context)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Cached %d posts\n", len(posts))
	return nil
}

func askCommand(c *cli.Context) error {
	query := core.Query{
		Question:    strings.Join(c.Args().Slice(), " "),
		Attachments: c.StringSlice("attach"),
	}
	if err := core.ValidateQuery(&query); err != nil {
		return err
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	answer, err := engine.Ask(c.Context, query)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(answer)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Logs go to stderr so stdout stays valid JSON for ask.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
