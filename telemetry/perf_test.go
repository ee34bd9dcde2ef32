package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(4)

	p.StartPass()
	p.StartPhase(PhaseBaseline)
	time.Sleep(time.Millisecond)
	p.StartPhase(PhasePropagation)
	time.Sleep(time.Millisecond)
	p.EndPass()

	stats := p.Stats()
	if stats.AvgPassDuration <= 0 {
		t.Fatal("expected positive pass duration")
	}
	if stats.PhaseAvg[PhaseBaseline] <= 0 {
		t.Errorf("baseline phase not recorded: %v", stats.PhaseAvg)
	}
	if stats.PhaseAvg[PhasePropagation] <= 0 {
		t.Errorf("propagation phase not recorded: %v", stats.PhaseAvg)
	}
}

func TestPerfCollectorWindowWraps(t *testing.T) {
	p := NewPerfCollector(2)
	for i := 0; i < 5; i++ {
		p.StartPass()
		p.StartPhase(PhaseSnow)
		p.EndPass()
	}
	if p.sampleCount != 2 {
		t.Errorf("sampleCount = %d, want window size 2", p.sampleCount)
	}
}

func TestSortedPhasesOrder(t *testing.T) {
	s := PerfStats{
		PhaseAvg: map[string]time.Duration{
			"fast": time.Microsecond,
			"slow": time.Millisecond,
		},
	}
	names := s.SortedPhases()
	if len(names) != 2 || names[0] != "slow" {
		t.Errorf("SortedPhases = %v, want slow first", names)
	}
}
