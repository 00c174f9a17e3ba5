package models

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"modelconsole/internal/logging"
)

type fakeFetcher struct {
	fail     map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) FetchModelInfo(ctx context.Context, name string) (InfoRecord, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail[name] {
		return nil, errors.New("model not found")
	}
	return json.RawMessage(`{"license":"` + name + `"}`), nil
}

func TestShouldFetchInfo(t *testing.T) {
	assert.False(t, ShouldFetchInfo(0))
	assert.False(t, ShouldFetchInfo(1))
	assert.True(t, ShouldFetchInfo(2))
	assert.True(t, ShouldFetchInfo(10))
}

func TestFetchInfo_AllSucceed(t *testing.T) {
	fetcher := &fakeFetcher{}
	names := []string{"a", "b", "c"}

	info := FetchInfo(context.Background(), fetcher, names, 4, logging.NewNopLogger())

	assert.Len(t, info, 3)
	for _, name := range names {
		assert.JSONEq(t, `{"license":"`+name+`"}`, string(info[name]))
	}
}

func TestFetchInfo_FailuresAreAbsent(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]bool{"b": true}}

	info := FetchInfo(context.Background(), fetcher, []string{"a", "b", "c"}, 2, logging.NewNopLogger())

	assert.Len(t, info, 2)
	assert.Contains(t, info, "a")
	assert.NotContains(t, info, "b")
	assert.Contains(t, info, "c")
	assert.Len(t, fetcher.calls, 3, "every model is requested once")
}

func TestFetchInfo_RespectsLimit(t *testing.T) {
	fetcher := &fakeFetcher{delay: 20 * time.Millisecond}
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	info := FetchInfo(context.Background(), fetcher, names, 3, logging.NewNopLogger())

	assert.Len(t, info, len(names))
	assert.LessOrEqual(t, fetcher.peak.Load(), int32(3))
}

func TestFetchInfo_ZeroLimitStillRuns(t *testing.T) {
	fetcher := &fakeFetcher{}

	info := FetchInfo(context.Background(), fetcher, []string{"a", "b"}, 0, nil)

	assert.Len(t, info, 2)
	assert.Equal(t, int32(1), fetcher.peak.Load())
}
