package motion

var Presets = map[string]*Config{
	"default":  {Mass: 1, Tension: 170, Friction: 26},
	"gentle":   {Mass: 1, Tension: 120, Friction: 14},
	"wobbly":   {Mass: 1, Tension: 180, Friction: 12},
	"stiff":    {Mass: 1, Tension: 210, Friction: 20},
	"slow":     {Mass: 1, Tension: 280, Friction: 60},
	"molasses": {Mass: 1, Tension: 280, Friction: 120},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone().Normalize()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
