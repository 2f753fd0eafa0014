// Package sampler draws the free (independently sampled) quantities of
// a run. Every draw is a pure function of (base seed, key); a go-cache
// backed store additionally guarantees each logical quantity is sampled
// exactly once per run, so every form that references it sees the
// identical value.
package sampler

import (
	"fmt"
	"math"

	"github.com/patrickmn/go-cache"
	"github.com/username/syndforge/src/models"
	"github.com/username/syndforge/src/randctx"
	"github.com/username/syndforge/src/utils"
)

// Key identifies one logical sampled quantity. Class is empty for
// syndicate-level fields.
type Key struct {
	Syndicate models.Syndicate
	Period    models.Period
	Class     string
	Field     string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.Syndicate, k.Period, k.Class, k.Field)
}

type Store struct {
	rng    *randctx.Context
	values *cache.Cache
}

func New(rng *randctx.Context) *Store {
	return &Store{
		rng: rng,
		// Values live for the whole run; the run discards the store.
		values: cache.New(cache.NoExpiration, 0),
	}
}

// Amount samples a numeric quantity for key according to spec. Repeat
// calls with the same key return the stored first draw. Gating is
// applied before clipping: a gated-out value is exactly zero even when
// the clip floor is positive.
func (s *Store) Amount(key Key, spec models.DistSpec) (float64, error) {
	ck := key.String()
	if v, found := s.values.Get(ck); found {
		return v.(float64), nil
	}

	v, err := s.draw(key, spec)
	if err != nil {
		return 0, err
	}
	s.values.Set(ck, v, cache.NoExpiration)
	return v, nil
}

func (s *Store) draw(key Key, spec models.DistSpec) (float64, error) {
	if spec.Bounded() && spec.Lo > spec.Hi {
		return 0, fmt.Errorf("%w: inverted bounds lo=%.4f hi=%.4f for %s", models.ErrDomain, spec.Lo, spec.Hi, key)
	}

	stream := s.rng.Stream(key.Syndicate.String(), key.Period.String(), key.Class, key.Field)

	if spec.Gate > 0 && stream.Float64() < spec.Gate {
		return 0, nil
	}

	var v float64
	switch spec.Kind {
	case models.DistLogNormal:
		v = math.Exp(spec.Mu + spec.Sigma*stream.NormFloat64())
	case models.DistUniform:
		v = spec.A + (spec.B-spec.A)*stream.Float64()
	case models.DistBernoulli:
		if stream.Float64() < spec.P {
			v = 1
		}
	default:
		return 0, fmt.Errorf("%w: distribution kind %q is not numeric", models.ErrConfiguration, spec.Kind)
	}

	if spec.Bounded() {
		v = utils.Clip(v, spec.Lo, spec.Hi)
	}
	return v, nil
}

// Pick draws one code from a weighted taxonomy slice, deterministically
// per key. Like Amount, the first pick for a key is stored and reused.
func (s *Store) Pick(key Key, codes []models.Code) (string, error) {
	ck := key.String()
	if v, found := s.values.Get(ck); found {
		return v.(string), nil
	}

	var total float64
	for _, c := range codes {
		if c.Weight < 0 {
			return "", fmt.Errorf("%w: negative weight %.4f on code %q", models.ErrConfiguration, c.Weight, c.Code)
		}
		total += c.Weight
	}
	if total <= 0 {
		return "", fmt.Errorf("%w: no positive weights to pick from for %s", models.ErrConfiguration, key)
	}

	stream := s.rng.Stream(key.Syndicate.String(), key.Period.String(), key.Class, key.Field)
	r := stream.Float64() * total
	for _, c := range codes {
		r -= c.Weight
		if r < 0 {
			s.values.Set(ck, c.Code, cache.NoExpiration)
			return c.Code, nil
		}
	}
	// Float roundoff can leave r at ~0 after the loop; take the last code.
	last := codes[len(codes)-1].Code
	s.values.Set(ck, last, cache.NoExpiration)
	return last, nil
}
