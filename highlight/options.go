package highlight

import (
	"time"

	"github.com/npillmayer/hilite/eventloop"
)

// Defaults for highlighters.
const (
	DefaultClass      = "annotator-hl"
	DefaultChunkSize  = 10
	DefaultChunkDelay = 10 * time.Millisecond
)

// IDAttr is the attribute carrying the identifier of a marker's annotation.
const IDAttr = "data-annotation-id"

// Scheduler runs a task after a delay. If the task can no longer be run,
// the scheduler calls dropped instead. *eventloop.Loop is a Scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, task func(), dropped func(error))
}

// syncScheduler is used if no event loop is configured. It waits and then
// runs the task on the calling goroutine; it never drops a task.
type syncScheduler struct{}

func (syncScheduler) AfterFunc(d time.Duration, task func(), _ func(error)) {
	time.Sleep(d)
	task()
}

type props struct {
	class      string
	chunkSize  int
	chunkDelay time.Duration
	scheduler  Scheduler
}

func defaultProps() props {
	return props{
		class:      DefaultClass,
		chunkSize:  DefaultChunkSize,
		chunkDelay: DefaultChunkDelay,
		scheduler:  syncScheduler{},
	}
}

// Option is a type to help initializing highlighters at creation time.
type Option struct {
	config func(props) props
}

// HighlightClass sets the CSS class of marker elements.
// An empty class leaves the default in place.
func HighlightClass(class string) Option {
	return Option{config: func(p props) props {
		if class != "" {
			p.class = class
		}
		return p
	}}
}

// ChunkSize sets the number of annotations DrawAll draws before yielding.
// Values below 1 are replaced by 1.
//
//     h := highlight.New(root, highlight.ChunkSize(50))
//
func ChunkSize(n int) Option {
	return Option{config: func(p props) props {
		if n < 1 {
			n = 1
		}
		p.chunkSize = n
		return p
	}}
}

// ChunkDelay sets the pause between two chunks of DrawAll.
func ChunkDelay(d time.Duration) Option {
	return Option{config: func(p props) props {
		if d < 0 {
			d = 0
		}
		p.chunkDelay = d
		return p
	}}
}

// WithScheduler sets the scheduler continuing DrawAll after a pause.
func WithScheduler(s Scheduler) Option {
	return Option{config: func(p props) props {
		if s == nil {
			s = syncScheduler{}
		}
		p.scheduler = s
		return p
	}}
}

// WithLoop lets DrawAll yield to an event loop between chunks.
func WithLoop(loop *eventloop.Loop) Option {
	if loop == nil {
		return WithScheduler(nil)
	}
	return WithScheduler(loop)
}
