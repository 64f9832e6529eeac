package domain

import "testing"

func TestStopBuilderAddDurationKeepsMinimum(t *testing.T) {
	b := NewStopBuilder(StopObservation{Name: "S Hackescher Markt"})
	b.AddDuration("A", 10)
	b.AddDuration("A", 15)
	if d, _ := b.Build().Duration("A"); d != 10 {
		t.Fatalf("duration = %d, want 10", d)
	}

	b = NewStopBuilder(StopObservation{Name: "S Hackescher Markt"})
	b.AddDuration("A", 15)
	b.AddDuration("A", 10)
	if d, _ := b.Build().Duration("A"); d != 10 {
		t.Fatalf("duration = %d, want 10", d)
	}

	b.AddDuration("A", 10)
	if d, _ := b.Build().Duration("A"); d != 10 {
		t.Fatalf("duplicate observation changed duration to %d", d)
	}
}

func TestWeightedDuration(t *testing.T) {
	b := NewStopBuilder(StopObservation{Name: "U Mehringdamm"})
	b.AddDuration("A", 10)
	b.AddDuration("B", 15)
	b.AddDuration("C", 20)

	if got := b.Build().WeightedDuration(); got != 15 {
		t.Fatalf("weighted duration = %d, want 15", got)
	}

	b.AddDuration("D", 6)
	// 51 / 4 truncates to 12
	if got := b.Build().WeightedDuration(); got != 12 {
		t.Fatalf("weighted duration = %d, want 12", got)
	}
}

func TestWeightedDurationPanicsWithoutDurations(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty duration profile")
		}
	}()
	NewStopBuilder(StopObservation{Name: "empty"}).Build().WeightedDuration()
}

func TestAddDurationNotFound(t *testing.T) {
	const maxDuration = 30

	fast := NewStopBuilder(StopObservation{Name: "fast"})
	fast.AddDuration("A", 15)
	fast.AddDurationNotFound("B", maxDuration)
	if d, _ := fast.Build().Duration("B"); d != 15 {
		t.Fatalf("imputed duration = %d, want 15", d)
	}

	slow := NewStopBuilder(StopObservation{Name: "slow"})
	slow.AddDuration("A", 25)
	slow.AddDurationNotFound("B", maxDuration)
	if d, _ := slow.Build().Duration("B"); d != 2*maxDuration {
		t.Fatalf("imputed duration = %d, want %d", d, 2*maxDuration)
	}

	boundary := NewStopBuilder(StopObservation{Name: "boundary"})
	boundary.AddDuration("A", ImputationThreshold)
	boundary.AddDurationNotFound("B", maxDuration)
	if d, _ := boundary.Build().Duration("B"); d != 2*maxDuration {
		t.Fatalf("imputed duration at threshold = %d, want %d", d, 2*maxDuration)
	}
}

func TestBuildIsDetachedFromBuilder(t *testing.T) {
	b := NewStopBuilder(StopObservation{Name: "U Nollendorfplatz"})
	b.AddDuration("A", 12)
	stop := b.Build()

	b.AddDuration("B", 40)
	if _, ok := stop.Duration("B"); ok {
		t.Fatal("built stop was mutated by its builder")
	}

	durations := stop.Durations()
	durations["A"] = 1
	if d, _ := stop.Duration("A"); d != 12 {
		t.Fatalf("Durations() exposed internal map, A = %d", d)
	}
}

func TestProductsAbbreviations(t *testing.T) {
	p := Products{Suburban: true, Subway: true, Bus: true, Regional: true}
	got := p.Abbreviations()
	want := []string{"S", "U", "B", "RB"}
	if len(got) != len(want) {
		t.Fatalf("abbreviations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("abbreviations = %v, want %v", got, want)
		}
	}
}
