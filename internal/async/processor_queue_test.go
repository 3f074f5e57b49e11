package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
)

type recordingProcessor struct {
	mu      sync.Mutex
	active  int
	maxSeen int
	paths   []string
	reqIDs  []string
}

func (p *recordingProcessor) ProcessFile(ctx context.Context, path string) pipeline.UnitResult {
	p.mu.Lock()
	p.active++
	if p.active > p.maxSeen {
		p.maxSeen = p.active
	}
	p.paths = append(p.paths, path)
	p.reqIDs = append(p.reqIDs, common.RequestIDFromContext(ctx))
	p.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	p.mu.Lock()
	p.active--
	p.mu.Unlock()
	return pipeline.UnitResult{Source: path, Status: constants.UnitImported}
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestProcessorQueueRunsJobsInOrderOneAtATime(t *testing.T) {
	proc := &recordingProcessor{}
	var results []pipeline.UnitResult
	q := NewProcessorQueue(proc, quietLogger(), WithQueueSize(2), WithResultHandler(func(r pipeline.UnitResult) {
		results = append(results, r)
	}))

	want := []string{"a.pdf", "b.pdf", "c.txt", "d.json", "e.pdf"}
	for _, p := range want {
		if err := q.Enqueue(context.Background(), Job{Path: p, RequestID: "rid-" + p}); err != nil {
			t.Fatalf("enqueue %s: %v", p, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if proc.maxSeen != 1 {
		t.Fatalf("max concurrent = %d, want 1", proc.maxSeen)
	}
	if len(proc.paths) != len(want) {
		t.Fatalf("processed %v", proc.paths)
	}
	for i := range want {
		if proc.paths[i] != want[i] {
			t.Fatalf("order = %v", proc.paths)
		}
		if proc.reqIDs[i] != "rid-"+want[i] {
			t.Fatalf("request id = %q", proc.reqIDs[i])
		}
	}
	if len(results) != len(want) {
		t.Fatalf("results = %d", len(results))
	}
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&recordingProcessor{}, quietLogger())
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "late.pdf"})
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v", err)
	}
}
