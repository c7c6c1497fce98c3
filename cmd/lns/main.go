package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/golang/glog"

	"lnsSolver/internal/backend"
	"lnsSolver/internal/config"
	"lnsSolver/internal/lns"
	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

func main() {
	var (
		input      = flag.String("i", "", "файлы программы через запятую; по умолчанию stdin")
		timeLimit  = flag.Int("gt", 300, "глобальный лимит времени, секунды")
		configFile = flag.String("c", "", "файл портфеля (JSON/YAML)")
		quick      = flag.String("q", "", "быстрая конфигурация type,size,timeout")
		strat      = flag.String("strategy", "", "переопределить стратегию: random | dynamic | roulette")
		seed       = flag.Int64("sd", 0, "сид генератора; 0 — случайный")
		preOpt     = flag.Int("pt", 0, "время предварительной оптимизации начального решения, секунды")
		strict     = flag.Float64("strict", -1, "вероятность строгой границы для всех операторов поиска; <0 — из портфеля")
		tieReset   = flag.Bool("tie-reset", true, "сбрасывать повтор допущений после хода без изменения стоимости")
	)
	flag.Parse()
	defer glog.Flush()

	if err := run(*input, *timeLimit, *configFile, *quick, *strat, *seed, *preOpt, *strict, *tieReset); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(input string, timeLimit int, configFile, quick, strat string, seed int64, preOpt int, strict float64, tieReset bool) error {
	text, err := readProgram(input, flag.Args())
	if err != nil {
		return err
	}

	p, err := portfolio(configFile, quick)
	if err != nil {
		return err
	}
	if strat != "" {
		p.Strategy = strat
	}
	if strict >= 0 {
		for i := range p.SearchOperators {
			prob := strict
			p.SearchOperators[i].StrictBoundProb = &prob
		}
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	glog.Infof("сид: %d", seed)
	rng := rand.New(rand.NewSource(seed))

	b := backend.NewGini()
	ops, err := p.Build(b, rng)
	if err != nil {
		return err
	}
	cfg := lns.DefaultConfig()
	cfg.ResetAssumptionsOnTie = tieReset
	initial := lns.BackendInitial{Backend: b, PreOptimize: time.Duration(preOpt) * time.Second}
	eng, err := lns.New(b, text, initial, ops.Relax, ops.Search, ops.Strategy, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := eng.Solve(ctx, time.Duration(timeLimit)*time.Second)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Search interrupted!")
		err = nil
	}
	if err != nil {
		return err
	}
	glog.Infof("ходов: %d, улучшений: %d, unsat: %d, таймаутов: %d, остановка: %v, время: %v",
		res.Iterations, res.Improvements, res.Unsat, res.Timeouts, res.Meta["stopped"], res.Duration)
	report(os.Stdout, res)
	return nil
}

func portfolio(file, quick string) (config.Portfolio, error) {
	switch {
	case file != "" && quick != "":
		return config.Portfolio{}, fmt.Errorf("флаги -c и -q взаимоисключающие")
	case file != "":
		return config.Load(file)
	case quick != "":
		return config.Quick(quick)
	default:
		return config.Default(), nil
	}
}

func readProgram(input string, args []string) (string, error) {
	var files []string
	for _, f := range strings.Split(input, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	files = append(files, args...)
	if len(files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	var sb strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", err
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func report(w io.Writer, res opt.Result) {
	best := res.Best
	if best == nil || best.Model == nil {
		fmt.Fprintln(w, "No solution found!")
		return
	}
	fmt.Fprintln(w, joinSymbols(best.Model.Shown))
	fmt.Fprintln(w, "Costs: "+best.Cost.String())
	if res.Exhausted {
		fmt.Fprintln(w, "OPTIMUM FOUND")
	}
}

func joinSymbols(syms []term.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
