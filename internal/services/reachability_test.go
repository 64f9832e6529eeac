package services

import (
	"context"
	"errors"
	"testing"
	"transit-reachability-service/internal/adapters/transport"
	"transit-reachability-service/internal/domain"

	"github.com/paulmach/orb"
)

type staticDistricts struct {
	build func() ([]*domain.District, error)
}

func (s staticDistricts) LoadDistricts(ctx context.Context) ([]*domain.District, error) {
	return s.build()
}

func fixtureObservations() []domain.DestinationObservations {
	return []domain.DestinationObservations{
		{
			Destination: domain.Destination{Name: "S+U Alexanderplatz", Coordinates: domain.Coordinates{Lat: 52.521512, Lon: 13.411267}},
			Buckets: []domain.ReachableBucket{
				{Duration: 4, Stops: []domain.StopObservation{obsStop("U Klosterstr.", 52.517, 13.412)}},
				{Duration: 9, Stops: []domain.StopObservation{
					obsStop("U Klosterstr.", 52.517, 13.412),
					obsStop("U Mehringdamm", 52.493567, 13.38814),
				}},
				{Duration: 40, Stops: []domain.StopObservation{obsStop("S Wannsee", 52.421, 13.179)}},
			},
		},
		{
			Destination: domain.Destination{Name: "U Nollendorfplatz", Coordinates: domain.Coordinates{Lat: 52.499644, Lon: 13.353825}},
			Buckets: []domain.ReachableBucket{
				{Duration: 8, Stops: []domain.StopObservation{obsStop("U Mehringdamm", 52.493567, 13.38814)}},
				{Duration: 14, Stops: []domain.StopObservation{obsStop("U Klosterstr.", 52.517, 13.412)}},
			},
		},
	}
}

func fixtureDistricts() ([]*domain.District, error) {
	mitte, err := domain.NewDistrict("Mitte", "Mitte", 1063, square(13.36, 52.50, 13.42, 52.54), nil)
	if err != nil {
		return nil, err
	}
	kreuzberg, err := domain.NewDistrict("Kreuzberg", "Friedrichshain-Kreuzberg", 1040,
		orb.MultiPolygon{square(13.37, 52.48, 13.43, 52.50)}, nil)
	if err != nil {
		return nil, err
	}
	spandau, err := domain.NewDistrict("Spandau", "Spandau", 2000, square(13.15, 52.52, 13.25, 52.56), nil)
	if err != nil {
		return nil, err
	}
	return []*domain.District{mitte, kreuzberg, spandau}, nil
}

func TestReachabilityRun(t *testing.T) {
	r := &Reachability{
		Provider:  transport.NewMockTransitProvider(fixtureObservations()),
		Districts: staticDistricts{build: fixtureDistricts},
	}

	result, err := r.Run(context.Background(), RunRequest{
		Destinations: []string{"S+U Alexanderplatz", "U Nollendorfplatz"},
		MaxDuration:  30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Destinations) != 2 || result.Destinations[0].Name != "S+U Alexanderplatz" {
		t.Fatalf("destinations = %v", result.Destinations)
	}

	// Wannsee: (40 + 60) / 2 = 50 > 30, filtered
	if len(result.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %v", result.Stops)
	}

	kloster := stopByName(result.Stops, "U Klosterstr.")
	if kloster == nil || kloster.WeightedDuration() != 9 {
		t.Fatalf("Klosterstr. weighted duration wrong: %v", kloster)
	}
	mehringdamm := stopByName(result.Stops, "U Mehringdamm")
	if mehringdamm == nil || mehringdamm.WeightedDuration() != 8 {
		t.Fatalf("Mehringdamm weighted duration wrong: %v", mehringdamm)
	}

	mitte, kreuzberg, spandau := result.Districts[0], result.Districts[1], result.Districts[2]
	if *mitte.Summary().WeightedAverage != 9 || mitte.Summary().Count != 1 {
		t.Fatalf("mitte summary = %+v", mitte.Summary())
	}
	if *kreuzberg.Summary().WeightedAverage != 8 {
		t.Fatalf("kreuzberg summary = %+v", kreuzberg.Summary())
	}
	if spandau.Summary().Count != 0 || result.Colors.ColorForOptional(spandau.Summary().WeightedAverage) != NoDataColor {
		t.Fatalf("spandau should be empty and black: %+v", spandau.Summary())
	}

	if result.Colors.Len() != 30 || result.MaxDuration != 30 {
		t.Fatalf("color mapper not sized to max duration")
	}
}

func TestReachabilityRunValidatesRequest(t *testing.T) {
	r := &Reachability{
		Provider:  transport.NewMockTransitProvider(nil),
		Districts: staticDistricts{build: fixtureDistricts},
	}

	if _, err := r.Run(context.Background(), RunRequest{MaxDuration: 30}); err == nil {
		t.Fatal("expected error without destinations")
	}
	if _, err := r.Run(context.Background(), RunRequest{Destinations: []string{"A"}}); err == nil {
		t.Fatal("expected error without max duration")
	}
}

func TestReachabilityRunAbortsOnStructuralErrors(t *testing.T) {
	boom := errors.New("bad geometry")
	r := &Reachability{
		Provider:  transport.NewMockTransitProvider(fixtureObservations()),
		Districts: staticDistricts{build: func() ([]*domain.District, error) { return nil, boom }},
	}

	_, err := r.Run(context.Background(), RunRequest{Destinations: []string{"S+U Alexanderplatz"}, MaxDuration: 30})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestFetchObservationsKeepsOrder(t *testing.T) {
	provider := transport.NewMockTransitProvider(fixtureObservations())

	out, err := FetchObservations(context.Background(), provider, []string{"U Nollendorfplatz", "S+U Alexanderplatz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Destination.Name != "U Nollendorfplatz" || out[1].Destination.Name != "S+U Alexanderplatz" {
		t.Fatalf("order not preserved: %s, %s", out[0].Destination.Name, out[1].Destination.Name)
	}
	if len(out[1].Buckets) != 3 {
		t.Fatalf("buckets = %d, want 3", len(out[1].Buckets))
	}
}

func TestFetchObservationsRejectsImpossibleCoordinates(t *testing.T) {
	observations := []domain.DestinationObservations{{
		Destination: domain.Destination{Name: "A", Coordinates: domain.Coordinates{Lat: 52.5, Lon: 13.4}},
		Buckets: []domain.ReachableBucket{
			{Duration: 3, Stops: []domain.StopObservation{obsStop("broken", 200, 13.4)}},
		},
	}}

	_, err := FetchObservations(context.Background(), transport.NewMockTransitProvider(observations), []string{"A"})
	if !errors.Is(err, domain.ErrInvalidCoordinates) {
		t.Fatalf("err = %v, want ErrInvalidCoordinates", err)
	}
}

func TestFetchObservationsUnknownDestination(t *testing.T) {
	_, err := FetchObservations(context.Background(), transport.NewMockTransitProvider(nil), []string{"Nowhere"})
	if err == nil {
		t.Fatal("expected error for unknown destination")
	}
}
