package ga

import "github.com/khryptorgraphics/flowsched/pkg/random"

// CrossoverType selects the OSV crossover strategy.
type CrossoverType string

const (
	// CrossoverPOX is Precedence Operation Crossover.
	CrossoverPOX CrossoverType = "pox"
	// CrossoverLOX is Linear Order Crossover.
	CrossoverLOX CrossoverType = "lox"
	// CrossoverJOX is Job-based Order Crossover.
	CrossoverJOX CrossoverType = "jox"
)

// MutationType selects the OSV mutation strategy. The zero value picks
// uniformly between swap and insert on every call.
type MutationType string

const (
	// MutationSwap exchanges two positions.
	MutationSwap MutationType = "swap"
	// MutationInsert removes and reinserts an element.
	MutationInsert MutationType = "insert"
	// MutationInvert reverses a segment.
	MutationInvert MutationType = "invert"
)

// Operators bundles runtime-selectable crossover and mutation
// strategies so callers can switch operators via configuration without
// touching the problem definition.
type Operators struct {
	// Crossover strategy; empty means POX.
	Crossover CrossoverType `json:"crossover" yaml:"crossover"`
	// Mutation strategy; empty means a uniform swap/insert mix.
	Mutation MutationType `json:"mutation" yaml:"mutation"`
}

// DefaultOperators returns the POX + swap/insert-mix configuration.
func DefaultOperators() Operators {
	return Operators{Crossover: CrossoverPOX}
}

// ApplyCrossover recombines two parents with the configured strategy.
func (o Operators) ApplyCrossover(p1, p2 *Chromosome, activities []ActivityInfo, rng random.Source) (*Chromosome, *Chromosome) {
	switch o.Crossover {
	case CrossoverLOX:
		return LOXCrossover(p1, p2, activities, rng)
	case CrossoverJOX:
		return JOXCrossover(p1, p2, activities, rng)
	default:
		return POXCrossover(p1, p2, activities, rng)
	}
}

// ApplyMutation mutates the OSV with the configured strategy and then
// always applies MAV mutation, giving two diversification sources per
// call.
func (o Operators) ApplyMutation(c *Chromosome, activities []ActivityInfo, rng random.Source) {
	switch o.Mutation {
	case MutationSwap:
		SwapMutation(c, rng)
	case MutationInsert:
		InsertMutation(c, rng)
	case MutationInvert:
		InvertMutation(c, rng)
	default:
		if rng.Bool(0.5) {
			SwapMutation(c, rng)
		} else {
			InsertMutation(c, rng)
		}
	}
	MAVMutation(c, activities, rng)
}
