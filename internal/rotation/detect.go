package rotation

import (
	"github.com/google/uuid"
)

// Detect scans one hero's timeline for sustained lane departures. A
// rotation begins when the sampled lane differs from the assigned lane for
// at least MinOffLaneSamples consecutive samples, with the departure time
// taken from the first sample of the run. It ends when the hero is next
// sampled back in the assigned lane, or stays open if the timeline ends
// first.
func Detect(tl Timeline, cfg Config) []*Rotation {
	var out []*Rotation

	var run []Sample // current consecutive off-lane run
	var open *Rotation

	for _, s := range tl.Samples {
		if s.Lane == tl.AssignedLane {
			if open != nil {
				open.ReturnTime = s.Time
				open.Returned = true
				open = nil
			}
			run = nil
			continue
		}

		if open != nil {
			continue
		}

		run = append(run, s)
		if len(run) < cfg.MinOffLaneSamples {
			continue
		}

		open = &Rotation{
			ID:            uuid.NewString(),
			Hero:          tl.Hero,
			FromLane:      tl.AssignedLane,
			ToLane:        run[0].Region,
			DepartureTime: run[0].Time,
		}
		out = append(out, open)
		run = nil
	}

	return out
}

// DetectAll runs detection over every hero timeline and collects the
// rotations into a queryable set.
func DetectAll(timelines []Timeline, cfg Config) *Set {
	var all []*Rotation
	for _, tl := range timelines {
		all = append(all, Detect(tl, cfg)...)
	}
	return NewSet(all)
}
