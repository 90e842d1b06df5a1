package ga

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/khryptorgraphics/flowsched/pkg/random"
)

// Config holds the GA runner parameters.
type Config struct {
	// PopulationSize is the number of individuals per generation.
	PopulationSize int `json:"population_size" yaml:"population_size"`
	// MaxGenerations bounds the evolution loop.
	MaxGenerations int `json:"max_generations" yaml:"max_generations"`
	// CrossoverRate is the probability that a parent pair recombines.
	CrossoverRate float64 `json:"crossover_rate" yaml:"crossover_rate"`
	// MutationRate is the per-child mutation probability.
	MutationRate float64 `json:"mutation_rate" yaml:"mutation_rate"`
	// ElitismCount is the number of best individuals copied verbatim.
	ElitismCount int `json:"elitism_count" yaml:"elitism_count"`
	// TournamentSize is the selection tournament size.
	TournamentSize int `json:"tournament_size" yaml:"tournament_size"`
	// Seed seeds the run's random source.
	Seed int64 `json:"seed" yaml:"seed"`
	// Parallel enables concurrent fitness evaluation. Evaluation is
	// pure and the random source is consumed only on the sequential
	// path, so results are identical with and without parallelism.
	Parallel bool `json:"parallel" yaml:"parallel"`
	// Workers bounds the evaluation pool; 0 means GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns the default runner parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 50,
		MaxGenerations: 100,
		CrossoverRate:  0.9,
		MutationRate:   0.2,
		ElitismCount:   2,
		TournamentSize: 3,
	}
}

// normalized clamps the configuration into a runnable range.
func (c Config) normalized() Config {
	if c.PopulationSize < 2 {
		c.PopulationSize = 2
	}
	if c.MaxGenerations < 1 {
		c.MaxGenerations = 1
	}
	if c.TournamentSize < 1 {
		c.TournamentSize = 1
	}
	if c.ElitismCount < 0 {
		c.ElitismCount = 0
	}
	if c.ElitismCount >= c.PopulationSize {
		c.ElitismCount = c.PopulationSize - 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Result carries the outcome of a GA run.
type Result struct {
	// Best is the best chromosome found across all generations.
	Best *Chromosome
	// BestFitness is its fitness.
	BestFitness float64
	// Generations is the number of generations executed.
	Generations int
	// History records the best fitness after each generation.
	History []float64
}

// Runner executes the generational GA loop: tournament selection,
// elitism, crossover, mutation, and fitness evaluation.
type Runner struct {
	config Config
	logger zerolog.Logger
}

// NewRunner creates a runner with the given configuration.
func NewRunner(config Config) *Runner {
	return &Runner{config: config.normalized(), logger: zerolog.Nop()}
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger zerolog.Logger) *Runner {
	r.logger = logger
	return r
}

// Run evolves the problem's population and returns the best individual.
// Two runs with identical seed and configuration produce identical
// results.
func (r *Runner) Run(problem *Problem) *Result {
	cfg := r.config
	rng := random.New(cfg.Seed)

	population := make([]*Chromosome, cfg.PopulationSize)
	for i := range population {
		population[i] = problem.CreateIndividual(rng)
	}
	r.evaluate(problem, population)

	best := r.bestOf(population).Clone()
	history := make([]float64, 0, cfg.MaxGenerations)

	generations := 0
	for gen := 0; gen < cfg.MaxGenerations; gen++ {
		generations++

		next := make([]*Chromosome, 0, cfg.PopulationSize)
		for _, elite := range r.elites(population) {
			next = append(next, elite.Clone())
		}

		for len(next) < cfg.PopulationSize {
			parentA := r.tournament(population, rng)
			parentB := r.tournament(population, rng)

			var children []*Chromosome
			if rng.Bool(cfg.CrossoverRate) {
				children = problem.Crossover(parentA, parentB, rng)
			} else {
				children = []*Chromosome{parentA.Clone(), parentB.Clone()}
			}

			for _, child := range children {
				if len(next) >= cfg.PopulationSize {
					break
				}
				if rng.Bool(cfg.MutationRate) {
					problem.Mutate(child, rng)
					child.SetFitness(math.Inf(1))
				}
				next = append(next, child)
			}
		}

		population = next
		r.evaluate(problem, population)

		if candidate := r.bestOf(population); candidate.Fitness() < best.Fitness() {
			best = candidate.Clone()
		}
		history = append(history, best.Fitness())
	}

	r.logger.Debug().
		Int("generations", generations).
		Float64("best_fitness", best.Fitness()).
		Msg("ga run complete")

	return &Result{
		Best:        best,
		BestFitness: best.Fitness(),
		Generations: generations,
		History:     history,
	}
}

// evaluate scores every unevaluated individual in place.
func (r *Runner) evaluate(problem *Problem, population []*Chromosome) {
	if !r.config.Parallel {
		for _, c := range population {
			if math.IsInf(c.Fitness(), 1) {
				c.SetFitness(problem.Evaluate(c))
			}
		}
		return
	}

	var wg sync.WaitGroup
	jobs := make(chan *Chromosome)
	for w := 0; w < r.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				c.SetFitness(problem.Evaluate(c))
			}
		}()
	}
	for _, c := range population {
		if math.IsInf(c.Fitness(), 1) {
			jobs <- c
		}
	}
	close(jobs)
	wg.Wait()
}

// elites returns the ElitismCount best individuals.
func (r *Runner) elites(population []*Chromosome) []*Chromosome {
	if r.config.ElitismCount == 0 {
		return nil
	}
	ranked := append([]*Chromosome(nil), population...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness() < ranked[j].Fitness()
	})
	return ranked[:r.config.ElitismCount]
}

// tournament picks TournamentSize random individuals and returns the
// fittest.
func (r *Runner) tournament(population []*Chromosome, rng random.Source) *Chromosome {
	best := population[rng.Intn(len(population))]
	for i := 1; i < r.config.TournamentSize; i++ {
		challenger := population[rng.Intn(len(population))]
		if challenger.Fitness() < best.Fitness() {
			best = challenger
		}
	}
	return best
}

// bestOf returns the fittest individual of a population.
func (r *Runner) bestOf(population []*Chromosome) *Chromosome {
	best := population[0]
	for _, c := range population[1:] {
		if c.Fitness() < best.Fitness() {
			best = c
		}
	}
	return best
}
