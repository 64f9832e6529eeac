package domain

// A configured point of interest whose transit reachability is measured.
// Destinations are values and never mutated after lookup.
type Destination struct {
	Name        string
	Coordinates Coordinates
	Products    Products
}

// A stop as observed in a single reachability bucket.
type StopObservation struct {
	Name        string
	Coordinates Coordinates
	Products    Products
}

// All stops reachable from a destination within Duration minutes.
// Buckets from the upstream API are cumulative, so a stop may appear in several.
type ReachableBucket struct {
	Duration int
	Stops    []StopObservation
}

// The complete set of buckets fetched for one destination.
type DestinationObservations struct {
	Destination Destination
	Buckets     []ReachableBucket
}
