package bench

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"lnsSolver/internal/assign"
	"lnsSolver/internal/backend"
	"lnsSolver/internal/config"
	"lnsSolver/internal/lns"
	"lnsSolver/internal/opt"
)

// Algorithm — именованный портфель LNS (стратегия + операторы).
type Algorithm struct {
	Name      string
	Portfolio config.Portfolio
}

type Case struct {
	Jobs         int
	Machines     int
	InstanceSeed int64
}

type Record struct {
	Algo     string
	Jobs     int
	Machines int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	// Best — лексикографически лучшая стоимость [машины, сумма].
	Best     opt.Cost
	UsedMean float64

	CostBest int
	CostMean float64
	CostStd  float64

	IterMean float64
	Optimal  int
}

type Runner struct {
	Runs      int
	BaseSeed  int64
	TimeLimit time.Duration

	// PreOptimize — время предварительной оптимизации начального решения; 0 — один вызов.
	PreOptimize   time.Duration
	PerRunTimeout time.Duration // 0 = no timeout
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	instRng := randForSeed(c.InstanceSeed)
	inst := assign.RandomInstance(c.Jobs, c.Machines, 1, 99, instRng)
	src, err := assign.Program(inst)
	if err != nil {
		return Record{}, err
	}
	ev, err := assign.NewEvaluator(inst)
	if err != nil {
		return Record{}, err
	}

	costs := make([]opt.Cost, 0, r.Runs)
	iters := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	optimal := 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		b := backend.NewGini()
		ops, err := algo.Portfolio.Build(b, randForSeed(runSeed))
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}
		eng, err := lns.New(b, src, lns.BackendInitial{Backend: b, PreOptimize: r.PreOptimize},
			ops.Relax, ops.Search, ops.Strategy, lns.DefaultConfig())
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := eng.Solve(runCtx, r.TimeLimit)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil && ctx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled: %w", i, err)
		}
		if err != nil && runCtx.Err() == nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if res.Best == nil {
			return Record{}, fmt.Errorf("run %d: no solution within %v", i, r.TimeLimit)
		}
		got, err := assign.Decode(inst, res.Best.Model)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}
		check, err := ev.Cost(got)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: invalid assignment: %w", i, err)
		}
		if !check.Equal(res.Best.Cost) {
			return Record{}, fmt.Errorf("run %d: solver cost %v, evaluator cost %v", i, res.Best.Cost, check)
		}

		costs = append(costs, check)
		iters = append(iters, float64(res.Iterations))
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		if res.Exhausted {
			optimal++
		}
	}

	cs := CalcCostStats(costs)
	if len(cs.Levels) != 2 {
		return Record{}, fmt.Errorf("ожидалась стоимость из двух уровней, получено %d", len(cs.Levels))
	}
	used, total := cs.Levels[0], cs.Levels[1]
	tStats := CalcStats(timesMs)

	return Record{
		Algo:     algo.Name,
		Jobs:     c.Jobs,
		Machines: c.Machines,
		Runs:     r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		Best:     cs.Best,
		UsedMean: used.Mean,

		CostBest: total.Best,
		CostMean: total.Mean,
		CostStd:  total.Std,

		IterMean: CalcStats(iters).Mean,
		Optimal:  optimal,
	}, nil
}

// WriteCSV пишет записи в path, создавая недостающие каталоги.
func WriteCSV(path string, records []Record) (err error) {
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	w := csv.NewWriter(f)
	header := []string{
		"algo", "jobs", "machines", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"best", "used_mean",
		"cost_best", "cost_mean", "cost_std",
		"iter_mean", "optimal",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, r := range records {
		row := []string{
			r.Algo,
			strconv.Itoa(r.Jobs),
			strconv.Itoa(r.Machines),
			strconv.Itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			r.Best.String(),
			ftoa(r.UsedMean),

			strconv.Itoa(r.CostBest),
			ftoa(r.CostMean),
			ftoa(r.CostStd),

			ftoa(r.IterMean),
			strconv.Itoa(r.Optimal),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func randForSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
