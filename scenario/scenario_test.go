package scenario

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/kproc/kernel"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/timer"
)

const pipeline = `
name: pipeline
programs:
  parent:
    steps:
      - op: fork
        program: child
        quota: 2
        repeat: 2
      - op: tick
        repeat: 3
      - op: wait
        repeat: 2
  child:
    steps:
      - op: sbrk
        bytes: 4096
      - op: tick
        repeat: 3
      - op: sleep
        ticks: 1
processes:
  - name: parent
    program: parent
    quota: 1
`

func TestLoad(t *testing.T) {
	testCases := []struct {
		description string
		data        string
		expectLen   int
		expectErr   string
	}{
		{description: "valid", data: pipeline, expectLen: 2},
		{description: "malformed yaml", data: "programs: [", expectErr: "failed to decode"},
		{
			description: "unknown op",
			data:        "programs:\n  a:\n    steps:\n      - op: fly\n",
			expectErr:   "unsupported op",
		},
		{
			description: "unknown fork target",
			data:        "programs:\n  a:\n    steps:\n      - op: fork\n        program: b\n",
			expectErr:   "unknown program",
		},
		{
			description: "bad setquota",
			data:        "programs:\n  a:\n    steps:\n      - op: setquota\n",
			expectErr:   "quota must be at least 1",
		},
		{
			description: "unknown process program",
			data:        "programs: {}\nprocesses:\n  - name: x\n    program: y\n    quota: 1\n",
			expectErr:   "unknown program",
		},
		{
			description: "busy loop",
			data:        "programs:\n  a:\n    loop: true\n    steps:\n      - op: wait\n      - op: sleep\n        ticks: 0\n",
			expectErr:   "loop never ticks",
		},
		{
			description: "sleeping loop",
			data:        "programs:\n  a:\n    loop: true\n    steps:\n      - op: wait\n      - op: sleep\n        ticks: 1\n",
			expectLen:   1,
		},
		{
			description: "process without quota",
			data:        "programs:\n  a:\n    steps: []\nprocesses:\n  - name: x\n    program: a\n",
			expectErr:   "quota must be at least 1",
		},
	}
	for _, tc := range testCases {
		actual, err := Load([]byte(tc.data))
		if tc.expectErr != "" {
			require.Error(t, err, tc.description)
			assert.Contains(t, err.Error(), tc.expectErr, tc.description)
			continue
		}
		require.NoError(t, err, tc.description)
		assert.Len(t, actual.Programs, tc.expectLen, tc.description)
		if parent, ok := actual.Programs["parent"]; ok {
			assert.Equal(t, 2, parent.Steps[0].Repeat, tc.description)
		}
	}
}

func TestLoadURL(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	URL := "mem://localhost/kproc/scenario/pipeline.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0644, strings.NewReader(pipeline)))
	actual, err := LoadURL(ctx, fs, URL)
	require.NoError(t, err)
	assert.Equal(t, "pipeline", actual.Name)

	_, err = LoadURL(ctx, fs, "mem://localhost/kproc/scenario/missing.yaml")
	assert.Error(t, err)
}

type recorder struct {
	mu     sync.Mutex
	events map[proc.EventType]int
}

func (r *recorder) Notify(ev *proc.Lifecycle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.Type]++
}

func (r *recorder) count(t proc.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[t]
}

func TestCompile_Run(t *testing.T) {
	s, err := Load([]byte(pipeline))
	require.NoError(t, err)
	programs, err := s.Compile()
	require.NoError(t, err)

	clock := timer.New(time.Millisecond)
	events := &recorder{events: map[proc.EventType]int{}}
	cfg := kernel.DefaultConfig()
	cfg.NProc = 8
	k, err := kernel.New(cfg, kernel.WithClock(clock), kernel.WithObserver(events))
	require.NoError(t, err)
	clock.Bind(k)

	_, err = k.UserInit(kernel.Reaper)
	require.NoError(t, err)
	p := s.Processes[0]
	_, err = k.Spawn(p.Name, p.Quota, programs[p.Program])
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 2)
	go func() { done <- clock.Run(ctx) }()
	go func() { done <- k.Run(ctx) }()

	require.Eventually(t, func() bool {
		return events.count(proc.EventReap) == 3
	}, 5*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.NoError(t, <-done)
	defer k.Shutdown()

	assert.Equal(t, 4, events.count(proc.EventFork))
	assert.Equal(t, 3, events.count(proc.EventExit))
	assert.Len(t, k.Snapshot().InUse(), 1)
}
