// Package assign generates job-to-machine assignment instances and renders them as ground programs.
package assign

import (
	"errors"
	"fmt"
	"math/rand"
)

type Instance struct {
	Jobs     int
	Machines int
	// Capacity is the maximum number of jobs per machine.
	Capacity int
	// Costs length must be Jobs*Machines.
	Costs []int
}

func NewInstance(jobs, machines, capacity int, costs []int) (*Instance, error) {
	inst := &Instance{Jobs: jobs, Machines: machines, Capacity: capacity, Costs: costs}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0 (got %d)", inst.Jobs)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("machines must be > 0 (got %d)", inst.Machines)
	}
	if inst.Capacity*inst.Machines < inst.Jobs {
		return fmt.Errorf("capacity %d on %d machines cannot hold %d jobs", inst.Capacity, inst.Machines, inst.Jobs)
	}
	if len(inst.Costs) != inst.Jobs*inst.Machines {
		return fmt.Errorf("costs length must be jobs*machines=%d (got %d)", inst.Jobs*inst.Machines, len(inst.Costs))
	}
	for i, v := range inst.Costs {
		if v < 0 {
			return fmt.Errorf("costs[%d] must be >= 0 (got %d)", i, v)
		}
	}
	return nil
}

func (inst *Instance) Cost(job, machine int) int {
	return inst.Costs[job*inst.Machines+machine]
}

// RandomInstance draws costs uniformly from [minCost, maxCost]; capacity leaves one spare slot per machine.
func RandomInstance(jobs, machines, minCost, maxCost int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if minCost < 0 || maxCost < 0 || maxCost < minCost {
		panic("invalid cost bounds")
	}
	costs := make([]int, jobs*machines)
	span := maxCost - minCost + 1
	for i := range costs {
		costs[i] = minCost
		if span > 1 {
			costs[i] += rng.Intn(span)
		}
	}
	capacity := 0
	if machines > 0 {
		capacity = (jobs+machines-1)/machines + 1
	}
	inst, err := NewInstance(jobs, machines, capacity, costs)
	if err != nil {
		panic(err)
	}
	return inst
}
