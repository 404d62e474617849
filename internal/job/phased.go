package job

// Phase is the stage an activation is in.
type Phase int

const (
	PhaseRead Phase = iota
	PhaseExec
	PhaseWrite
)

func (p Phase) String() string {
	switch p {
	case PhaseRead:
		return "read"
	case PhaseExec:
		return "exec"
	case PhaseWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Phased is a task body that reads its inputs, computes and writes its
// outputs, spending a fixed number of ticks in each phase. It does one tick
// of work per Step and starts over after the write phase.
type Phased struct {
	name   string
	delays [3]int64

	phase       Phase
	left        int64 // ticks left in phase
	activations int64
	worked      int64
}

// NewPhased creates a body. Negative delays count as zero; exec is at least
// one tick.
func NewPhased(name string, read, exec, write int64) *Phased {
	if exec < 1 {
		exec = 1
	}
	p := &Phased{
		name:   name,
		delays: [3]int64{max(read, 0), exec, max(write, 0)},
	}
	p.enter(PhaseRead)
	return p
}

func (p *Phased) Name() string { return p.name }

// Step performs one tick of work.
func (p *Phased) Step(int64) {
	p.worked++
	p.left--
	p.skip()
}

// Budget is the number of ticks one activation takes.
func (p *Phased) Budget() int64 {
	return p.delays[PhaseRead] + p.delays[PhaseExec] + p.delays[PhaseWrite]
}

// Phase returns the phase the next tick of work belongs to.
func (p *Phased) Phase() Phase { return p.phase }

// Activations counts completed read/exec/write cycles.
func (p *Phased) Activations() int64 { return p.activations }

// Worked counts the ticks granted so far.
func (p *Phased) Worked() int64 { return p.worked }

func (p *Phased) enter(ph Phase) {
	p.phase = ph
	p.left = p.delays[ph]
	p.skip()
}

// skip moves past finished and empty phases.
func (p *Phased) skip() {
	for p.left == 0 {
		if p.phase == PhaseWrite {
			p.activations++
			p.phase = PhaseRead
		} else {
			p.phase++
		}
		p.left = p.delays[p.phase]
	}
}
