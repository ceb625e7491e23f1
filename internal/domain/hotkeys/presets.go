package hotkeys

// Preset is a named, fixed symbol -> metric label table that can be loaded
// in one operation.
type Preset struct {
	Name string
	Keys map[string]string
}

// DefaultPreset covers the common live-tagging actions. Labels that are not
// in the current catalog are skipped at load time.
func DefaultPreset() Preset {
	return Preset{
		Name: "default",
		Keys: map[string]string{
			"t": "Tackle",
			"m": "Missed Tackle",
			"c": "Carry",
			"p": "Pass",
			"o": "Offload",
			"k": "Kick in Play",
			"y": "Try",
			"e": "Error",
			"n": "Penalty Conceded",
			"r": "Ruck Arrival",
			"l": "Lineout Win",
			"s": "Scrum Win",
		},
	}
}

// PresetByName looks up a built-in preset. The zero Preset and false are
// returned for unknown names.
func PresetByName(name string) (Preset, bool) {
	switch name {
	case "default":
		return DefaultPreset(), true
	}
	return Preset{}, false
}
