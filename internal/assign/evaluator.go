package assign

import (
	"fmt"

	"lnsSolver/internal/opt"
)

// Evaluator recomputes the objective of an assignment independently of the solver.
type Evaluator struct {
	inst *Instance
	load []int
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst, load: make([]int, inst.Machines)}, nil
}

// Cost returns [machines used, total cost], the same vector the rendered program minimises.
func (e *Evaluator) Cost(assign []int) (opt.Cost, error) {
	if e == nil || e.inst == nil {
		return nil, fmt.Errorf("nil evaluator")
	}
	if err := ValidateAssignment(assign, e.inst); err != nil {
		return nil, err
	}
	for m := range e.load {
		e.load[m] = 0
	}
	total := 0
	for j, m := range assign {
		e.load[m]++
		total += e.inst.Cost(j, m)
	}
	used := 0
	for m, n := range e.load {
		if n > e.inst.Capacity {
			return nil, fmt.Errorf("machine %d holds %d jobs (capacity %d)", m, n, e.inst.Capacity)
		}
		if n > 0 {
			used++
		}
	}
	return opt.Cost{used, total}, nil
}

func (e *Evaluator) MustCost(assign []int) opt.Cost {
	c, err := e.Cost(assign)
	if err != nil {
		panic(err)
	}
	return c
}

func ValidateAssignment(assign []int, inst *Instance) error {
	if len(assign) != inst.Jobs {
		return fmt.Errorf("assignment length must be %d (got %d)", inst.Jobs, len(assign))
	}
	for j, m := range assign {
		if m < 0 || m >= inst.Machines {
			return fmt.Errorf("assign[%d]=%d out of range [0,%d)", j, m, inst.Machines)
		}
	}
	return nil
}
