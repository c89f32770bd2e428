package kproc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/scenario"
	"github.com/viant/kproc/service/dao"
	"github.com/viant/kproc/service/event"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const workload = `
name: workload
programs:
  worker:
    steps:
      - op: open
        path: /log
        create: true
      - op: tick
        repeat: 4
      - op: sleep
        ticks: 2
      - op: tick
        repeat: 2
processes:
  - name: worker
    program: worker
    quota: 2
    count: 3
`

// retainingExporter keeps spans across Shutdown.
type retainingExporter struct {
	*tracetest.InMemoryExporter
}

func (retainingExporter) Shutdown(context.Context) error { return nil }

func TestRuntime(t *testing.T) {
	cfg := kproc.DefaultConfig()
	cfg.Kernel.NCPU = 2
	cfg.Kernel.NProc = 8
	cfg.Timer.Interval = time.Millisecond
	cfg.Files.Root = "mem://localhost/kproc-runtime"
	cfg.Snapshots.URL = "mem://localhost/kproc-runtime/snapshots"

	exporter := retainingExporter{tracetest.NewInMemoryExporter()}
	registry := prometheus.NewRegistry()
	log := logger.NewMockLogger()
	var dispatched sync.Map
	srv, err := kproc.New(context.Background(), cfg,
		kproc.WithLogger(log),
		kproc.WithTracingExporter("kproc", "test", exporter),
		kproc.WithRegistry(registry),
		kproc.WithDispatchHook(func(cpu, pid int) { dispatched.Store(pid, cpu) }),
	)
	require.NoError(t, err)

	var mux sync.Mutex
	reaped := map[int]bool{}
	ctx := context.Background()
	srv.Events().SetListener(ctx, func(ev *event.Event[proc.Lifecycle]) {
		if ev.Data.Type == proc.EventReap {
			mux.Lock()
			reaped[ev.Data.PID] = true
			mux.Unlock()
		}
	})

	rt := srv.Runtime()
	require.NoError(t, rt.Start(ctx))
	assert.Error(t, rt.Start(ctx))

	s, err := scenario.Load([]byte(workload))
	require.NoError(t, err)
	pids, err := rt.RunScenario(s)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, pids)

	require.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(reaped) == 3
	}, 5*time.Second, time.Millisecond)

	snapshot, err := rt.SaveSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.InUse(), 1)
	loaded, err := rt.LoadSnapshot(ctx, snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Ticks, loaded.Ticks)
	listed, err := rt.Snapshots(ctx, dao.NewParameter(dao.ParamPID, 1))
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	counters := rt.Progress()
	assert.Equal(t, 4, counters.Spawned)
	assert.Equal(t, 1, counters.Live)
	assert.Equal(t, 3, counters.Exited)
	assert.Equal(t, 3, counters.Reaped)

	for _, pid := range pids {
		_, ok := dispatched.Load(pid)
		assert.True(t, ok, "pid %d never dispatched", pid)
	}
	series, err := testutil.GatherAndCount(registry, "kproc_lifecycle_events_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, series, 3)

	require.NoError(t, rt.Shutdown(ctx))
	require.NoError(t, rt.Shutdown(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "kproc.boot", spans[0].Name)
	assert.NotEmpty(t, spans[0].Events)
	assert.NotEmpty(t, log.Infos())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := kproc.DefaultConfig()
	cfg.Kernel.NProc = 0
	_, err := kproc.New(context.Background(), cfg)
	assert.Error(t, err)
}
