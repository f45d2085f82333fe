//
//  Copyright 2026 rubberove, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package mint runs a batch of concurrent generators and writes identifiers.
package mint

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rubberove/switflake"
	"github.com/rubberove/switflake/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Record is JSON view of identifier
type Record struct {
	ID      switflake.ID `json:"id"`
	Decimal uint64       `json:"decimal"`
	Time    time.Time    `json:"time"`
	Node    uint64       `json:"node"`
	Slot    uint8        `json:"slot"`
	Counter uint8        `json:"counter"`
}

// NewRecord decodes fields of identifier
func NewRecord(id switflake.ID) Record {
	return Record{
		ID:      id,
		Decimal: uint64(id),
		Time:    id.Time().UTC(),
		Node:    id.Node(),
		Slot:    id.Slot(),
		Counter: id.Counter(),
	}
}

// Format renders identifier in one of supported formats
func Format(id switflake.ID, format string) (string, error) {
	switch format {
	case "decimal":
		return strconv.FormatUint(uint64(id), 10), nil
	case "hex":
		return fmt.Sprintf("%016x", uint64(id)), nil
	case "string":
		return id.String(), nil
	case "json":
		b, err := json.Marshal(NewRecord(id))
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// Run mints cfg.Count identifiers by each of cfg.Workers generators and
// writes them to w, one per line. Every generator is built before any worker
// starts, so the run fails fast with switflake.ErrPoolFull if the pool
// cannot serve all workers.
func Run(ctx context.Context, cfg config.Config, w io.Writer, log logrus.FieldLogger) error {
	gens := make([]*switflake.Generator, 0, cfg.Workers)
	defer func() {
		for _, g := range gens {
			g.Close()
		}
	}()

	for i := 0; i < cfg.Workers; i++ {
		g, err := switflake.New(cfg.Node)
		if err != nil {
			return fmt.Errorf("worker %d: %w", i, err)
		}
		gens = append(gens, g)

		log.WithFields(logrus.Fields{
			"worker": i,
			"node":   g.Node(),
			"slot":   g.Slot(),
		}).Debug("generator acquired slot")
	}
	log.WithField("slots", switflake.SlotsInUse()).Info("slot pool")

	ids := make(chan switflake.ID, cfg.Workers)
	group, ctx := errgroup.WithContext(ctx)

	for i, g := range gens {
		group.Go(func() error {
			for n := 0; n < cfg.Count; n++ {
				id, err := g.GenerateID()
				if err != nil {
					return fmt.Errorf("worker %d: %w", i, err)
				}

				select {
				case ids <- id:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			log.WithFields(logrus.Fields{
				"worker":    i,
				"remaining": g.Remaining(),
			}).Debug("worker done")
			return nil
		})
	}

	go func() {
		group.Wait()
		close(ids)
	}()

	buf := bufio.NewWriter(w)
	written := 0
	var werr error
	for id := range ids {
		if werr != nil {
			continue
		}

		line, err := Format(id, cfg.Format)
		if err == nil {
			_, err = fmt.Fprintln(buf, line)
		}
		if err != nil {
			werr = err
			continue
		}
		written++
	}

	if err := group.Wait(); err != nil {
		return err
	}
	if werr != nil {
		return fmt.Errorf("failed to write identifiers: %w", werr)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write identifiers: %w", err)
	}

	log.WithField("ids", written).Info("minted")
	return nil
}
