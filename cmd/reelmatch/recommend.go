// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/dataset"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

const titlePrompt = "What movie would you like a recommendation for? "

func (c *cli) recommend(ctx context.Context, cfg *config.Config, args []string) error {
	fs := c.flagSet("recommend")
	path := fs.String("dataset", cfg.Dataset.Path, "dataset CSV produced by reduce")
	n := fs.Int("n", cfg.Recommend.Limits.DefaultTopN, "number of recommendations")
	if err := parse(fs, args); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		fmt.Fprint(c.stdout, titlePrompt)
		line, err := bufio.NewReader(c.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read title: %w", err)
		}
		title = strings.TrimSpace(line)
	}
	if title == "" {
		return errors.New("no title given")
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, *c.logger)
	if err != nil {
		return err
	}
	if cfg.SnapshotsEnabled() {
		store, err := storage.NewStore(cfg.Dataset.SnapshotDir)
		if err != nil {
			return err
		}
		engine.SetSnapshotStore(store)
	}
	if _, err := engine.LoadFrom(ctx, dataset.NewFileLoader(*path, cfg.Dataset.ReadWorkers, *c.logger)); err != nil {
		return err
	}

	resp, err := engine.Recommend(ctx, title, *n)
	var unknown *recommend.UnknownTitleError
	if errors.As(err, &unknown) {
		fmt.Fprintln(c.stdout, unknown.Error())
		return errReported
	}
	if err != nil {
		return err
	}

	for i, rec := range resp.Items {
		fmt.Fprintf(c.stdout, "%2d. %s\n", i+1, rec.Title)
	}
	return nil
}
