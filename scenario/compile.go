package scenario

import "github.com/viant/kproc/kernel"

// Compile turns every program into a kernel program.
func (s *Scenario) Compile() (map[string]kernel.Program, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ret := make(map[string]kernel.Program, len(s.Programs))
	for name, program := range s.Programs {
		ret[name] = compile(program, ret)
	}
	return ret, nil
}

// compile resolves fork targets through programs when the step runs, so
// programs may fork each other in any order.
func compile(program Program, programs map[string]kernel.Program) kernel.Program {
	return func(u *kernel.User) {
		for {
			for _, step := range program.Steps {
				n := step.Repeat
				if n == 0 {
					n = 1
				}
				for i := 0; i < n; i++ {
					execute(u, step, programs)
				}
			}
			if !program.Loop {
				return
			}
		}
	}
}

func execute(u *kernel.User, step Step, programs map[string]kernel.Program) {
	switch step.Op {
	case OpTick:
		u.Tick()
	case OpYield:
		u.Yield()
	case OpSleep:
		u.SleepTicks(step.Ticks)
	case OpFork:
		if step.Quota > 0 {
			u.Fork2(step.Quota, programs[step.Program])
		} else {
			u.Fork(programs[step.Program])
		}
	case OpWait:
		u.Wait()
	case OpSbrk:
		u.Sbrk(step.Bytes)
	case OpOpen:
		u.Open(step.Path, step.Create)
	case OpChdir:
		u.Chdir(step.Path)
	case OpSetQuota:
		u.SetQuota(u.PID(), step.Quota)
	case OpExit:
		u.Exit()
	}
}
