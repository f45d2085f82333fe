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

package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rubberove/switflake"
	"github.com/rubberove/switflake/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestRunConcurrentWorkers(t *testing.T) {
	cfg := config.Default()
	cfg.Node = 1
	cfg.Workers = 8
	cfg.Count = 64

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var buf bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &buf, logger))

	seen := map[uint64]struct{}{}
	for _, line := range lines(&buf) {
		v, err := strconv.ParseUint(line, 10, 64)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), switflake.ID(v).Node())
		seen[v] = struct{}{}
	}

	assert.Len(t, seen, 8*64)
	assert.Equal(t, 0, switflake.SlotsInUse())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "minted", hook.LastEntry().Message)
	assert.Equal(t, 8*64, hook.LastEntry().Data["ids"])
}

func TestRunPoolFull(t *testing.T) {
	held := make([]*switflake.Generator, 0, 8)
	for i := 0; i < 8; i++ {
		g, err := switflake.New(1)
		require.NoError(t, err)
		held = append(held, g)
	}

	logger, _ := test.NewNullLogger()
	cfg := config.Default()

	var buf bytes.Buffer
	err := Run(context.Background(), cfg, &buf, logger)
	assert.True(t, errors.Is(err, switflake.ErrPoolFull))
	assert.Empty(t, buf.String())

	for _, g := range held {
		g.Close()
	}
	assert.Equal(t, 0, switflake.SlotsInUse())
}

func TestRunSequenceExhausted(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Workers = 2
	cfg.Count = 256

	var buf bytes.Buffer
	err := Run(context.Background(), cfg, &buf, logger)
	assert.True(t, errors.Is(err, switflake.ErrSequenceExhausted))
	assert.Equal(t, 0, switflake.SlotsInUse())
}

func TestRunCancelled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Workers = 4
	cfg.Count = 255

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Run(ctx, cfg, &buf, logger)
	// buffered channel may absorb few ids before cancellation is observed
	if err != nil {
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.Equal(t, 0, switflake.SlotsInUse())
}

func TestFormat(t *testing.T) {
	g, err := switflake.New(0xabc, switflake.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }))
	require.NoError(t, err)
	defer g.Close()

	id, err := g.GenerateID()
	require.NoError(t, err)

	dec, err := Format(id, "decimal")
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(id), 10), dec)

	hex, err := Format(id, "hex")
	require.NoError(t, err)
	assert.Len(t, hex, 16)
	v, err := strconv.ParseUint(hex, 16, 64)
	require.NoError(t, err)
	assert.Equal(t, uint64(id), v)

	str, err := Format(id, "string")
	require.NoError(t, err)
	assert.Equal(t, id.String(), str)

	js, err := Format(id, "json")
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(js), &rec))
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, uint64(id), rec.Decimal)
	assert.Equal(t, uint64(0xabc), rec.Node)
	assert.Equal(t, g.Slot(), rec.Slot)
	assert.Equal(t, uint8(0), rec.Counter)
	assert.True(t, rec.Time.Equal(time.UnixMilli(1700000000000)))

	_, err = Format(id, "xml")
	assert.Error(t, err)
}
