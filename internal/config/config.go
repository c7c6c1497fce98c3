// Package config читает портфель операторов LNS: стратегию, операторы релаксации и поиска.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lnsSolver/internal/opt"
	"lnsSolver/internal/relax"
	"lnsSolver/internal/search"
	"lnsSolver/internal/strategy"
)

//go:embed default.json
var defaultPortfolio []byte

var (
	ErrQuickConfig      = errors.New("некорректная быстрая конфигурация")
	ErrUnknownSearch    = errors.New("неизвестный тип оператора поиска")
	ErrNoRelaxOperators = errors.New("портфель без операторов релаксации")
	ErrNoSearchOperator = errors.New("портфель без операторов поиска")
)

// Portfolio — файл конфигурации (JSON или YAML).
type Portfolio struct {
	Strategy        string       `yaml:"strategy"`
	Intensify       bool         `yaml:"intensify,omitempty"`
	StrategyArgs    StrategyArgs `yaml:"strategyArgs,omitempty"`
	RelaxOperators  []RelaxSpec  `yaml:"relaxOperators"`
	SearchOperators []SearchSpec `yaml:"searchOperators"`
}

// StrategyArgs переопределяют параметры стратегии; нулевые значения оставляют умолчания.
type StrategyArgs struct {
	UnsatStrikes   int     `yaml:"unsatStrikes,omitempty"`
	TimeoutStrikes int     `yaml:"timeoutStrikes,omitempty"`
	Alpha          float64 `yaml:"alpha,omitempty"`
}

type RelaxSpec struct {
	Type        string    `yaml:"type"`
	Sizes       []float64 `yaml:"sizes,omitempty"`
	InitialSize *float64  `yaml:"initialSize,omitempty"`
	// rates/initialRate — старые имена тех же полей.
	Rates       []float64 `yaml:"rates,omitempty"`
	InitialRate *float64  `yaml:"initialRate,omitempty"`
	Name        string    `yaml:"name,omitempty"`
}

type SearchSpec struct {
	Type string `yaml:"type"`

	// Timeouts и InitialTimeout в секундах.
	Timeouts        []float64 `yaml:"timeouts"`
	InitialTimeout  *float64  `yaml:"initialTimeout,omitempty"`
	StrictBoundProb *float64  `yaml:"strictBoundProb,omitempty"`
}

// Operators — собранный портфель, готовый для lns.New.
type Operators struct {
	Strategy strategy.Strategy
	Relax    []relax.Operator
	Search   []*search.Operator
}

func Default() Portfolio {
	p, err := Parse(bytes.NewReader(defaultPortfolio))
	if err != nil {
		panic(fmt.Sprintf("встроенная конфигурация: %v", err))
	}
	return p
}

// Parse читает портфель; неизвестные поля считаются ошибкой.
func Parse(r io.Reader) (Portfolio, error) {
	var p Portfolio
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Portfolio{}, fmt.Errorf("разбор конфигурации: %w", err)
	}
	return p, nil
}

func Load(path string) (Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Portfolio{}, err
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return Portfolio{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Quick разбирает строку "type,size,timeout": один оператор релаксации, один оператор
// поиска с лимитом в секундах и случайная стратегия с интенсификацией.
func Quick(s string) (Portfolio, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Portfolio{}, fmt.Errorf("%w %q: ожидается type,size,timeout", ErrQuickConfig, s)
	}
	typ := strings.TrimSpace(parts[0])
	size, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || size <= 0 || size >= 1 {
		return Portfolio{}, fmt.Errorf("%w %q: доля должна лежать в (0,1)", ErrQuickConfig, s)
	}
	timeout, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || timeout <= 0 {
		return Portfolio{}, fmt.Errorf("%w %q: лимит времени должен быть > 0", ErrQuickConfig, s)
	}
	return Portfolio{
		Strategy:        string(strategy.KindRandom),
		Intensify:       true,
		RelaxOperators:  []RelaxSpec{{Type: typ, Sizes: []float64{size}}},
		SearchOperators: []SearchSpec{{Type: "default", Timeouts: []float64{float64(timeout)}}},
	}, nil
}

func (s RelaxSpec) config() relax.Config {
	cfg := relax.Config{
		Type:        relax.Type(s.Type),
		Sizes:       s.Sizes,
		InitialSize: s.InitialSize,
		Name:        s.Name,
	}
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = s.Rates
	}
	if cfg.InitialSize == nil {
		cfg.InitialSize = s.InitialRate
	}
	return cfg
}

func seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}

func (s SearchSpec) config() (search.Config, error) {
	if s.Type != "" && s.Type != "default" {
		return search.Config{}, fmt.Errorf("%w %q", ErrUnknownSearch, s.Type)
	}
	cfg := search.DefaultConfig()
	cfg.Timeouts = make([]time.Duration, len(s.Timeouts))
	for i, v := range s.Timeouts {
		cfg.Timeouts[i] = seconds(v)
	}
	if s.InitialTimeout != nil {
		d := seconds(*s.InitialTimeout)
		cfg.InitialTimeout = &d
	}
	if s.StrictBoundProb != nil {
		cfg.StrictBoundProb = *s.StrictBoundProb
	}
	return cfg, nil
}

// StrategyConfig переводит имя и аргументы стратегии в strategy.Config.
func (p Portfolio) StrategyConfig() strategy.Config {
	kind := strategy.Kind(p.Strategy)
	if kind == "" {
		kind = strategy.KindRandom
	}
	cfg := strategy.DefaultConfig(kind)
	cfg.Intensify = p.Intensify
	if p.StrategyArgs.UnsatStrikes > 0 {
		cfg.UnsatStrikeLimit = p.StrategyArgs.UnsatStrikes
	}
	if p.StrategyArgs.TimeoutStrikes > 0 {
		cfg.TimeoutStrikeLimit = p.StrategyArgs.TimeoutStrikes
	}
	if p.StrategyArgs.Alpha > 0 {
		cfg.Alpha = p.StrategyArgs.Alpha
	}
	return cfg
}

// Build создаёт операторы и стратегию. Все они делят один генератор rng.
func (p Portfolio) Build(backend opt.Backend, rng *rand.Rand) (Operators, error) {
	if len(p.RelaxOperators) == 0 {
		return Operators{}, ErrNoRelaxOperators
	}
	if len(p.SearchOperators) == 0 {
		return Operators{}, ErrNoSearchOperator
	}
	var ops Operators
	for i, spec := range p.RelaxOperators {
		r, err := relax.New(spec.config(), rng)
		if err != nil {
			return Operators{}, fmt.Errorf("relaxOperators[%d]: %w", i, err)
		}
		ops.Relax = append(ops.Relax, r)
	}
	for i, spec := range p.SearchOperators {
		cfg, err := spec.config()
		if err != nil {
			return Operators{}, fmt.Errorf("searchOperators[%d]: %w", i, err)
		}
		s, err := search.New(cfg, backend, rng)
		if err != nil {
			return Operators{}, fmt.Errorf("searchOperators[%d]: %w", i, err)
		}
		ops.Search = append(ops.Search, s)
	}
	strat, err := strategy.New(p.StrategyConfig(), rng)
	if err != nil {
		return Operators{}, fmt.Errorf("strategy: %w", err)
	}
	ops.Strategy = strat
	return ops, nil
}
