package models

// DistKind names a closed-form sampling distribution.
type DistKind string

const (
	DistLogNormal   DistKind = "lognormal"
	DistUniform     DistKind = "uniform"
	DistCategorical DistKind = "categorical"
	DistBernoulli   DistKind = "bernoulli"
)

// DistSpec is a declarative distribution: the sampler interprets it, the
// catalog supplies it. Bounds are enforced by clipping after sampling;
// Gate is the probability the value is forced to zero before clipping
// (e.g. a line of business a syndicate simply does not write).
type DistSpec struct {
	Kind  DistKind `yaml:"kind"`
	Mu    float64  `yaml:"mu"`    // lognormal: mean of log
	Sigma float64  `yaml:"sigma"` // lognormal: stddev of log
	A     float64  `yaml:"a"`     // uniform: lower
	B     float64  `yaml:"b"`     // uniform: upper
	P     float64  `yaml:"p"`     // bernoulli: success probability
	Lo    float64  `yaml:"lo"`    // clip floor (with Hi; ignored when both zero)
	Hi    float64  `yaml:"hi"`    // clip cap
	Gate  float64  `yaml:"gate"`  // probability of forced zero
}

// Bounded reports whether the spec carries clip bounds.
func (s DistSpec) Bounded() bool {
	return s.Lo != 0 || s.Hi != 0
}
