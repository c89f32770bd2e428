package kernel

// CPU is the per-logical-CPU state. Its fields are touched only by the CPU's
// scheduler goroutine and by the process goroutine currently dispatched on it;
// the two never run at the same time.
type CPU struct {
	id        int
	scheduler *Context // swtch here to enter the scheduler
	proc      *Proc    // process running on this cpu, or nil
	ncli      int      // depth of pushcli nesting
	intena    bool     // were interrupts enabled before pushcli?
	intrOn    bool
}

func newCPU(id int) *CPU {
	return &CPU{id: id, scheduler: newContext()}
}

// ID returns the cpu number
func (c *CPU) ID() int {
	return c.id
}

func (c *CPU) sti() {
	c.intrOn = true
}

func (c *CPU) cli() {
	c.intrOn = false
}

// pushcli/popcli are like cli/sti except that they are matched:
// it takes two popcli to undo two pushcli. If interrupts were off
// to begin with, they stay off.
func (c *CPU) pushcli() {
	if c == nil {
		return
	}
	enabled := c.intrOn
	c.cli()
	if c.ncli == 0 {
		c.intena = enabled
	}
	c.ncli++
}

func (c *CPU) popcli() {
	if c == nil {
		return
	}
	if c.intrOn {
		panicf("popcli - interruptible")
	}
	c.ncli--
	if c.ncli < 0 {
		panicf("popcli")
	}
	if c.ncli == 0 && c.intena {
		c.sti()
	}
}
