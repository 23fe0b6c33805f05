package combat

import (
	"testing"
)

// pipeline runs windowing and assembly in one step for test convenience.
func pipeline(b *eventBuilder, cfg Config) []*Fight {
	return Assemble(Window(b.evts, cfg), cfg)
}

func TestAssemble_MergesWindowsWithinCombatGap(t *testing.T) {
	cfg := DefaultConfig()

	// Burst, 8 second lull, second burst with a shared participant.
	var b eventBuilder
	b.damage(100, juggernaut, medusa, "")
	b.damage(101, medusa, juggernaut, "")
	b.damage(102, juggernaut, medusa, "")
	b.damage(110, juggernaut, disruptor, "")
	b.damage(111, disruptor, juggernaut, "")

	fights := pipeline(&b, cfg)
	if len(fights) != 1 {
		t.Fatalf("Windows 8s apart sharing juggernaut should merge, got %d fights", len(fights))
	}

	f := fights[0]
	if f.Start != 100 || f.End != 111 {
		t.Errorf("Fight span = [%v, %v], want [100, 111]", f.Start, f.End)
	}
	if f.Duration != 11 {
		t.Errorf("Fight duration = %v, want 11", f.Duration)
	}
	if len(f.Participants) != 3 {
		t.Errorf("Fight participants = %d, want 3", len(f.Participants))
	}
}

func TestAssemble_SplitsBeyondCombatGap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSignificantEvents = 2

	var b eventBuilder
	b.damage(100, juggernaut, medusa, "")
	b.damage(101, medusa, juggernaut, "")
	b.damage(110, juggernaut, medusa, "")
	b.damage(111, medusa, juggernaut, "")

	fights := pipeline(&b, cfg)
	if len(fights) != 2 {
		t.Fatalf("Lull of 9s exceeds the combat gap, want 2 fights, got %d", len(fights))
	}
}

func TestAssemble_DiscardsHarassment(t *testing.T) {
	// Four pokes: below the significant-event floor.
	var b eventBuilder
	b.damage(100, pugna, pangolier, "pugna_nether_blast")
	b.damage(101, pangolier, pugna, "")
	b.damage(102, pugna, pangolier, "")
	b.damage(103, pangolier, pugna, "")

	if fights := pipeline(&b, DefaultConfig()); len(fights) != 0 {
		t.Errorf("Harassment below %d events must be discarded, got %d fights",
			DefaultMinSignificantEvents, len(fights))
	}
}

func TestAssemble_TeamfightClassification(t *testing.T) {
	t.Run("BothTeamsThreeDeaths", func(t *testing.T) {
		var b eventBuilder
		b.damage(500, earthshaker, medusa, "")
		b.damage(500.5, nevermore, disruptor, "")
		b.damage(501, medusa, earthshaker, "")
		b.death(502, earthshaker, medusa)
		b.death(503, nevermore, disruptor)
		b.death(504, medusa, nevermore)

		fights := pipeline(&b, DefaultConfig())
		if len(fights) != 1 {
			t.Fatalf("Expected one fight, got %d", len(fights))
		}
		if !fights[0].IsTeamfight {
			t.Error("Both teams, 4 heroes, 3 deaths: should be a teamfight")
		}
	})

	t.Run("TwoDeathsIsSkirmish", func(t *testing.T) {
		var b eventBuilder
		b.damage(500, earthshaker, medusa, "")
		b.damage(501, medusa, earthshaker, "")
		b.damage(501.5, nevermore, medusa, "")
		b.death(502, earthshaker, medusa)
		b.death(503, medusa, nevermore)

		fights := pipeline(&b, DefaultConfig())
		if len(fights) != 1 {
			t.Fatalf("Expected one fight, got %d", len(fights))
		}
		if fights[0].IsTeamfight {
			t.Error("Only 2 deaths: should be a skirmish")
		}
	})

	t.Run("OneSidedDiveIsSkirmish", func(t *testing.T) {
		// All participants radiant (tower dive, no defender response).
		var b eventBuilder
		b.damage(600, earthshaker, nevermore, "")
		b.damage(601, nevermore, earthshaker, "")
		b.damage(602, earthshaker, nevermore, "")
		b.death(603, earthshaker, nevermore)
		b.death(604, nevermore, earthshaker)
		b.death(605, earthshaker, juggernaut)

		fights := pipeline(&b, DefaultConfig())
		if len(fights) != 1 {
			t.Fatalf("Expected one fight, got %d", len(fights))
		}
		if fights[0].IsTeamfight {
			t.Error("Single-team participant set cannot be a teamfight")
		}
	})
}

func TestAssemble_EmptyInput(t *testing.T) {
	if fights := Assemble(nil, DefaultConfig()); len(fights) != 0 {
		t.Errorf("A fight-free segment is valid, want 0 fights, got %d", len(fights))
	}
}

func TestAssemble_FightEventsSortedAndBounded(t *testing.T) {
	var b eventBuilder
	b.damage(100, juggernaut, medusa, "")
	b.damage(100.5, medusa, juggernaut, "")
	b.damage(101, juggernaut, medusa, "")
	b.damage(108, pugna, medusa, "")
	b.damage(108.5, medusa, pugna, "")

	fights := pipeline(&b, DefaultConfig())
	if len(fights) != 1 {
		t.Fatalf("Expected one fight, got %d", len(fights))
	}

	f := fights[0]
	for i, e := range f.Events {
		if e.Time < f.Start || e.Time > f.End {
			t.Errorf("Event %d at %v outside fight span [%v, %v]", i, e.Time, f.Start, f.End)
		}
		if i > 0 && e.Before(f.Events[i-1]) {
			t.Fatal("Fight events not in time order")
		}
	}
	if f.ID == "" {
		t.Error("Fight must carry an identifier")
	}
}

func TestFightSet_Queries(t *testing.T) {
	var b1 eventBuilder
	b1.damage(100, juggernaut, medusa, "")
	b1.damage(101, medusa, juggernaut, "")
	b1.damage(102, juggernaut, medusa, "")
	b1.damage(103, medusa, juggernaut, "")
	b1.death(104, juggernaut, medusa)

	var b2 eventBuilder
	b2.damage(500, earthshaker, disruptor, "")
	b2.damage(500.5, nevermore, medusa, "")
	b2.damage(501, disruptor, earthshaker, "")
	b2.death(502, earthshaker, disruptor)
	b2.death(503, nevermore, medusa)
	b2.death(504, disruptor, nevermore)

	cfg := DefaultConfig()
	fights := append(pipeline(&b1, cfg), pipeline(&b2, cfg)...)
	set := NewFightSet(fights)

	if set.Len() != 2 {
		t.Fatalf("FightSet size = %d, want 2", set.Len())
	}

	if got := set.Overlapping(95, 103); len(got) != 1 || got[0].Start != 100 {
		t.Errorf("Overlapping(95,103) = %d fights, want the first fight only", len(got))
	}
	if got := set.Overlapping(200, 300); len(got) != 0 {
		t.Errorf("Overlapping(200,300) should be empty, got %d", len(got))
	}

	if got := set.ByHero("juggernaut"); len(got) != 1 {
		t.Errorf("ByHero(juggernaut) = %d fights, want 1", len(got))
	}
	if got := set.ByHero("medusa"); len(got) != 2 {
		t.Errorf("ByHero(medusa) = %d fights, want 2", len(got))
	}

	if f, ok := set.ByID(fights[0].ID); !ok || f != fights[0] {
		t.Error("ByID failed to find an indexed fight")
	}
	if _, ok := set.ByID("missing"); ok {
		t.Error("ByID found a fight that does not exist")
	}

	sum := set.Summary()
	if sum.TotalFights != 2 || sum.Teamfights != 1 || sum.Skirmishes != 1 {
		t.Errorf("Summary = %+v, want 2 fights, 1 teamfight, 1 skirmish", sum)
	}
	if sum.TotalDeaths != 4 {
		t.Errorf("Summary deaths = %d, want 4", sum.TotalDeaths)
	}
}
