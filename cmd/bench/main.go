package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"lnsSolver/internal/bench"
	"lnsSolver/internal/config"
	"lnsSolver/internal/strategy"
)

func main() {
	// CLI флаги для настройки портфеля и политики запуска
	var (
		out          = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		pairs        = flag.String("pairs", "10x3,20x4,40x6", "конфигурации: количество работ Х количество станков (через запятую)")
		strategies   = flag.String("strategies", "random,dynamic,roulette", "список стратегий: random, dynamic, roulette (через запятую)")
		runs         = flag.Int("runs", 10, "количество запусков каждой стратегии (с разными сидами)")
		baseSeed     = flag.Int64("seed", 1000, "базовый сид для запусков")
		instanceSeed = flag.Int64("instance_seed", 777, "базовый сид для генерации экземпляров задачи (фиксирован для конфигурации)")
		timeLimit    = flag.Duration("time_limit", 5*time.Second, "глобальный лимит времени одного запуска LNS")
		preOpt       = flag.Duration("pre_optimize", 0, "время предварительной оптимизации начального решения; 0 — один вызов")
		perRunTO     = flag.Duration("per_run_timeout", 0, "жёсткий таймаут одного запуска; 0 — без ограничения")
		intensify    = flag.Bool("intensify", false, "повторять допущения после улучшения")

		// --- Портфель операторов ---
		configFile = flag.String("c", "", "файл портфеля (JSON/YAML); по умолчанию встроенный")
		quick      = flag.String("q", "", "быстрая конфигурация type,size,timeout")
	)
	flag.Parse()
	defer glog.Flush()

	ctx := context.Background()

	cases, err := parsePairs(*pairs, *instanceSeed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}

	base, err := loadPortfolio(*configFile, *quick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации портфеля:", err)
		os.Exit(2)
	}

	var selected []bench.Algorithm
	for _, name := range splitCSV(*strategies) {
		p := base
		p.Strategy = name
		p.Intensify = *intensify
		if err := p.StrategyConfig().Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Стратегия %q: %v; доступные: %v\n", name, err, available())
			os.Exit(2)
		}
		selected = append(selected, bench.Algorithm{Name: name, Portfolio: p})
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		TimeLimit:     *timeLimit,
		PreOptimize:   *preOpt,
		PerRunTimeout: *perRunTO,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			fmt.Printf("Запущена стратегия %s; %d работ %d машин (общее кол-во запусков=%d)...\n", a.Name, c.Jobs, c.Machines, runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  Стоимость: лучшая=%d средняя=%.2f стандартное отклонение=%.2f | машин=%.2f | ходов=%.1f | оптимум доказан %d/%d\n",
				rec.CostBest, rec.CostMean, rec.CostStd,
				rec.UsedMean, rec.IterMean, rec.Optimal, rec.Runs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи в CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

func loadPortfolio(file, quick string) (config.Portfolio, error) {
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

func available() []string {
	return []string{string(strategy.KindRandom), string(strategy.KindDynamic), string(strategy.KindRoulette)}
}

func parsePairs(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		jm := strings.Split(p, "x")
		if len(jm) != 2 {
			return nil, fmt.Errorf("пара %q невалидной схемы, пример: 20x4", p)
		}
		jobs, err := atoiStrict(jm[0])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества работ: %w", p, err)
		}
		machines, err := atoiStrict(jm[1])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества машин: %w", p, err)
		}
		if jobs <= 0 || machines <= 0 {
			return nil, fmt.Errorf("пара %q: количество работ и машин должно быть > 0", p)
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100 + int64(machines)

		cases = append(cases, bench.Case{
			Jobs:         jobs,
			Machines:     machines,
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
