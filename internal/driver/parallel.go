package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Stage of the per-file pipeline, reported through Sink.
type Stage uint8

const (
	StageRead Stage = iota
	StageFix
	StageWrite
)

// Status of a file within its current stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusClean
	StatusDone
	StatusError
)

// Event is one progress notification. An empty File describes the batch as
// a whole.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Sink receives progress events. Emit must be safe for concurrent use.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// ChannelSink forwards events into a channel, for the interactive renderer.
type ChannelSink struct {
	C chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{C: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(ev Event) { s.C <- ev }

// Close signals that no more events follow.
func (s *ChannelSink) Close() { close(s.C) }

// FixPaths обрабатывает файлы параллельно. Per-file failures land in their
// Result; the returned error is reserved for cancellation.
func (d *Driver) FixPaths(ctx context.Context, paths []string, jobs int, sink Sink) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				emit(sink, Event{File: path, Stage: StageFix, Status: StatusWorking})
				res := d.FixFile(gctx, path)
				results[i] = res
				emit(sink, Event{File: path, Stage: stageOf(res), Status: statusOf(res)})
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func stageOf(res Result) Stage {
	if res.Changed {
		return StageWrite
	}
	return StageFix
}

func statusOf(res Result) Status {
	switch {
	case res.Err != nil:
		return StatusError
	case res.Changed:
		return StatusDone
	default:
		return StatusClean
	}
}

func emit(sink Sink, ev Event) {
	if sink != nil {
		sink.Emit(ev)
	}
}
