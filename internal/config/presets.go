package config

// Materials are the stock ferromagnets of the demo, with real Curie
// temperatures in Kelvin.
var Materials = []MaterialConfig{
	{Name: "Fe", CurieTemp: 1043},
	{Name: "Ni", CurieTemp: 627},
	{Name: "Gd", CurieTemp: 293},
}

// Material looks a preset up by name, case-sensitively.
func Material(name string) *MaterialConfig {
	for i := range Materials {
		if Materials[i].Name == name {
			return &Materials[i]
		}
	}
	return nil
}

func MaterialNames() []string {
	names := make([]string, len(Materials))
	for i, m := range Materials {
		names[i] = m.Name
	}
	return names
}

// SpinodalProfile is a named run length / snapshot density combination.
type SpinodalProfile struct {
	Steps       int
	DenseUntil  int
	DenseEvery  int
	SparseEvery int
}

// SpinodalProfiles: "quick" matches the reference precompute (uniform
// sampling); "long" resolves the instability onset densely and then follows
// the slow coarsening sparsely.
var SpinodalProfiles = map[string]SpinodalProfile{
	"quick": {Steps: 1200, DenseUntil: 0, DenseEvery: 20, SparseEvery: 20},
	"long":  {Steps: 48000, DenseUntil: 2000, DenseEvery: 100, SparseEvery: 1000},
}

// ApplyProfile overwrites the schedule fields from a named profile.
func (c *SpinodalConfig) ApplyProfile(name string) bool {
	p, ok := SpinodalProfiles[name]
	if !ok {
		return false
	}
	c.Steps = p.Steps
	c.DenseUntil = p.DenseUntil
	c.DenseEvery = p.DenseEvery
	c.SparseEvery = p.SparseEvery
	return true
}

// SpinodalProfileNames lists the available profiles.
func SpinodalProfileNames() []string {
	names := make([]string, 0, len(SpinodalProfiles))
	for name := range SpinodalProfiles {
		names = append(names, name)
	}
	return names
}
