package config

import "sort"

var Presets = map[string]map[string]*Config{
	"quadratic": {
		"gentle": {
			Objective: "quadratic", Dim: 10, Tau: 1, Dt: 0.1,
			LowBound: 1e-4, HighBound: 1e-3, Steps: 500,
		},
		"stiff": {
			Objective: "quadratic", Dim: 50, Tau: 5, Dt: 0.01,
			LowBound: 1e-5, HighBound: 1e-4, Steps: 2000,
		},
		"heavy": {
			Objective: "quadratic", Dim: 10, Tau: -2, Dt: 0.1,
			LowBound: 1e-4, HighBound: 1e-3, Steps: 1000,
		},
	},
	"rosenbrock": {
		"classic": {
			Objective: "rosenbrock", Dim: 2, Tau: -2, Dt: 1e-3,
			LowBound: 1e-4, HighBound: 1e-3, Steps: 5000,
		},
		"long": {
			Objective: "rosenbrock", Dim: 20, Tau: -3, Dt: 1e-3,
			LowBound: 1e-5, HighBound: 1e-4, Steps: 20000,
		},
	},
	"rastrigin": {
		"local": {
			Objective: "rastrigin", Dim: 5, Tau: 0, Dt: 0.01,
			LowBound: 1e-4, HighBound: 1e-3, Steps: 1000,
		},
		"wander": {
			Objective: "rastrigin", Dim: 5, Tau: -1, Dt: 0.05,
			LowBound: 1e-3, HighBound: 1e-2, Steps: 2000,
			Init: InitConfig{Jitter: 0.5},
		},
	},
	"sphere": {
		"smoke": {
			Objective: "sphere", Dim: 3, Tau: 0, Dt: 0.01,
			LowBound: 1e-3, HighBound: 1e-2, Steps: 300,
		},
	},
}

func GetPreset(objective, preset string) *Config {
	objPresets, ok := Presets[objective]
	if !ok {
		return nil
	}
	cfg, ok := objPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(objective string) []string {
	objPresets, ok := Presets[objective]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(objPresets))
	for name := range objPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
