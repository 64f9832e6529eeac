package domain

// Transit modes serving a stop or destination.
type Products struct {
	Suburban bool `json:"suburban"` // S-Bahn
	Subway   bool `json:"subway"`   // U-Bahn
	Tram     bool `json:"tram"`
	Bus      bool `json:"bus"`
	Ferry    bool `json:"ferry"`
	Express  bool `json:"express"`  // ICE/IC
	Regional bool `json:"regional"` // RE/RB
}

// Abbreviations returns the short labels of all enabled modes in a fixed order.
func (p Products) Abbreviations() []string {
	out := make([]string, 0, 7)
	flags := []struct {
		on    bool
		label string
	}{
		{p.Suburban, "S"},
		{p.Subway, "U"},
		{p.Tram, "T"},
		{p.Bus, "B"},
		{p.Ferry, "F"},
		{p.Express, "RE"},
		{p.Regional, "RB"},
	}
	for _, f := range flags {
		if f.on {
			out = append(out, f.label)
		}
	}
	return out
}
