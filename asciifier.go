package asciify

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/wbrown/asciify/taskqueue"
)

// Asciifier converts a grayscale surface into a grid of symbols.
type Asciifier interface {
	// Generate matches the image cells covered by both img and out and
	// writes one symbol per cell. Cells of out beyond the image are left
	// untouched.
	Generate(img Surface, out *TextSurface)
	// ThreadCount returns the number of goroutines matching cells.
	ThreadCount() int
	// Context returns the matcher context in use.
	Context() Context
	// Close releases workers. The asciifier must not be used afterwards.
	Close()
}

// grid is the region of interest of one Generate call: the part of the
// image that both exists and falls inside the output grid.
type grid struct {
	cellW, cellH int
	roiW, roiH   int
	rows, cols   int
}

func newGrid(ctx Context, img Surface, out *TextSurface) grid {
	g := grid{cellW: ctx.CellWidth(), cellH: ctx.CellHeight()}
	g.roiW = min(img.Width(), out.Cols()*g.cellW)
	g.roiH = min(img.Height(), out.Rows()*g.cellH)
	g.cols = (g.roiW + g.cellW - 1) / g.cellW
	g.rows = (g.roiH + g.cellH - 1) / g.cellH
	return g
}

// strip returns the image band covering text row r.
func (g grid) strip(img Surface, r int) Surface {
	y := r * g.cellH
	return img.Window(0, y, g.roiW, min(g.cellH, g.roiH-y))
}

// matchRow fills dst with the symbols for the cells of one band. Cells at
// the right edge may be narrower than a cell.
func (g grid) matchRow(m Matcher, strip Surface, dst []Symbol) {
	for c := 0; c < g.cols; c++ {
		x := c * g.cellW
		dst[c] = m.Match(strip.Window(x, 0, min(g.cellW, g.roiW-x), strip.Height()))
	}
}

// Sequential matches every cell on the calling goroutine with a single
// reused Matcher.
type Sequential struct {
	ctx     Context
	matcher Matcher
}

// NewSequential creates a single-threaded asciifier.
func NewSequential(ctx Context) *Sequential {
	return &Sequential{ctx: ctx, matcher: ctx.NewMatcher()}
}

// Generate implements Asciifier.
func (s *Sequential) Generate(img Surface, out *TextSurface) {
	g := newGrid(s.ctx, img, out)
	for r := 0; r < g.rows; r++ {
		g.matchRow(s.matcher, g.strip(img, r), out.Row(r))
	}
}

// ThreadCount implements Asciifier.
func (s *Sequential) ThreadCount() int { return 1 }

// Context implements Asciifier.
func (s *Sequential) Context() Context { return s.ctx }

// Close implements Asciifier.
func (s *Sequential) Close() {}

// AsciifierOption configures a Parallel asciifier.
type AsciifierOption func(*asciifierConfig)

type asciifierConfig struct {
	threads int
}

// WithThreads sets the worker count. Values below one select the default
// of runtime.NumCPU()+1.
func WithThreads(n int) AsciifierOption {
	return func(c *asciifierConfig) {
		c.threads = n
	}
}

// DefaultThreads returns the worker count used when none is given.
func DefaultThreads() int {
	return runtime.NumCPU() + 1
}

// rowTask asks a worker to match one band of the image into one text row.
type rowTask struct {
	grid  grid
	strip Surface
	dst   []Symbol
}

// Parallel spreads rows of cells over a fixed pool of workers. Each worker
// owns a Matcher built once at startup; the Context is shared read-only.
type Parallel struct {
	ctx     Context
	threads int
	queue   *taskqueue.Queue[rowTask]
	wg      sync.WaitGroup
	// gen serializes Generate calls; the drain barrier is pool-wide.
	gen       sync.Mutex
	closeOnce sync.Once
}

// NewParallel starts a worker pool matching with ctx.
func NewParallel(ctx Context, opts ...AsciifierOption) *Parallel {
	cfg := asciifierConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.threads < 1 {
		cfg.threads = DefaultThreads()
	}

	p := &Parallel{
		ctx:     ctx,
		threads: cfg.threads,
		queue:   taskqueue.New[rowTask](),
	}
	p.wg.Add(p.threads)
	for i := 0; i < p.threads; i++ {
		go p.worker(ctx.NewMatcher())
	}
	Logger().Debug("worker pool started", "algorithm", ctx.Name(), "threads", p.threads)
	return p
}

func (p *Parallel) worker(m Matcher) {
	defer p.wg.Done()
	for {
		task, ok := p.queue.WaitPop()
		if !ok {
			return
		}
		task.grid.matchRow(m, task.strip, task.dst)
		p.queue.Done()
	}
}

// Generate implements Asciifier. It returns once every row is written.
func (p *Parallel) Generate(img Surface, out *TextSurface) {
	p.gen.Lock()
	defer p.gen.Unlock()

	g := newGrid(p.ctx, img, out)
	for r := 0; r < g.rows; r++ {
		task := rowTask{grid: g, strip: g.strip(img, r), dst: out.Row(r)}
		if !p.queue.Push(task) {
			panic("asciify: Generate called on a closed Parallel asciifier")
		}
	}
	p.queue.WaitEmpty()
}

// ThreadCount implements Asciifier.
func (p *Parallel) ThreadCount() int { return p.threads }

// Context implements Asciifier.
func (p *Parallel) Context() Context { return p.ctx }

// Close stops the workers and waits for them to exit.
func (p *Parallel) Close() {
	p.closeOnce.Do(func() {
		p.queue.Close()
		p.wg.Wait()
		Logger().Debug("worker pool stopped", "algorithm", p.ctx.Name(), "threads", p.threads)
	})
}

// New returns a Sequential asciifier for threads == 1 and a Parallel one
// otherwise.
func New(ctx Context, threads int) Asciifier {
	if threads == 1 {
		return NewSequential(ctx)
	}
	return NewParallel(ctx, WithThreads(threads))
}

// Dynamic forwards to an asciifier that can be replaced at runtime.
type Dynamic struct {
	mu      sync.RWMutex
	current Asciifier
}

// NewDynamic wraps a.
func NewDynamic(a Asciifier) *Dynamic {
	if a == nil {
		panic("asciify: NewDynamic with nil asciifier")
	}
	return &Dynamic{current: a}
}

// Switch installs a, closing the previous asciifier once no Generate call
// is using it.
func (d *Dynamic) Switch(a Asciifier) {
	if a == nil {
		panic("asciify: Switch to nil asciifier")
	}
	d.mu.Lock()
	prev := d.current
	d.current = a
	d.mu.Unlock()

	if prev != a {
		prev.Close()
	}
	Logger().Info("asciifier switched", "algorithm", a.Context().Name(),
		"threads", a.ThreadCount())
}

// SwitchAlgorithm builds a context from algorithm for store and switches to an
// asciifier with the given thread count, see New.
func (d *Dynamic) SwitchAlgorithm(algorithm string, store GlyphStore, threads int) error {
	ctx, err := NewContext(algorithm, store)
	if err != nil {
		return fmt.Errorf("cannot switch algorithm: %w", err)
	}
	d.Switch(New(ctx, threads))
	return nil
}

// Generate implements Asciifier.
func (d *Dynamic) Generate(img Surface, out *TextSurface) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.current.Generate(img, out)
}

// ThreadCount implements Asciifier.
func (d *Dynamic) ThreadCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current.ThreadCount()
}

// Context implements Asciifier.
func (d *Dynamic) Context() Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current.Context()
}

// Close closes the current asciifier.
func (d *Dynamic) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current.Close()
}
