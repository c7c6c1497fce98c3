package assign

import (
	"fmt"
	"strings"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

func jobAlias(j, m int) string { return fmt.Sprintf("a_%d_%d", j, m) }
func usedAlias(m int) string   { return fmt.Sprintf("u_%d", m) }

// Program renders inst as a ground program. The objective is lexicographic:
// machines in use first, then the total assignment cost.
func Program(inst *Instance) (string, error) {
	if err := inst.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%% assignment: %d jobs, %d machines, capacity %d\n", inst.Jobs, inst.Machines, inst.Capacity)
	for j := 0; j < inst.Jobs; j++ {
		for m := 0; m < inst.Machines; m++ {
			fmt.Fprintf(&b, "atom %s assign(%d,%d)\n", jobAlias(j, m), j, m)
		}
	}
	for m := 0; m < inst.Machines; m++ {
		fmt.Fprintf(&b, "atom %s used(%d)\n", usedAlias(m), m)
	}

	row := make([]string, inst.Machines)
	for j := 0; j < inst.Jobs; j++ {
		for m := range row {
			row[m] = jobAlias(j, m)
		}
		fmt.Fprintf(&b, "count 1 1 %s\n", strings.Join(row, " "))
	}
	col := make([]string, inst.Jobs)
	for m := 0; m < inst.Machines; m++ {
		for j := range col {
			col[j] = jobAlias(j, m)
		}
		fmt.Fprintf(&b, "count 0 %d %s\n", inst.Capacity, strings.Join(col, " "))
		fmt.Fprintf(&b, "formula %s = (%s)\n", usedAlias(m), strings.Join(col, " | "))
	}

	for m := 0; m < inst.Machines; m++ {
		fmt.Fprintf(&b, "minimize 1@1 %s\n", usedAlias(m))
	}
	for j := 0; j < inst.Jobs; j++ {
		for m := 0; m < inst.Machines; m++ {
			if c := inst.Cost(j, m); c > 0 {
				fmt.Fprintf(&b, "minimize %d@0 %s\n", c, jobAlias(j, m))
			}
		}
	}
	b.WriteString("show assign/2\n")
	return b.String(), nil
}

// Decode reads the job-to-machine vector from the shown assign/2 facts of a model.
func Decode(inst *Instance, model *opt.Model) ([]int, error) {
	if model == nil {
		return nil, fmt.Errorf("no model")
	}
	out := make([]int, inst.Jobs)
	for i := range out {
		out[i] = -1
	}
	for _, s := range model.Shown {
		if !s.Match("assign", 2) {
			continue
		}
		j, m := s.Arg(0), s.Arg(1)
		if j.Kind() != term.KindNumber || m.Kind() != term.KindNumber {
			return nil, fmt.Errorf("non-numeric fact %s", s)
		}
		if j.Number() < 0 || j.Number() >= inst.Jobs {
			return nil, fmt.Errorf("job out of range in %s", s)
		}
		if out[j.Number()] != -1 {
			return nil, fmt.Errorf("job %d assigned twice", j.Number())
		}
		out[j.Number()] = m.Number()
	}
	return out, nil
}
