package chart

import (
	"fmt"
	"strings"
)

// Theme holds the color tokens the renderer reads, as CSS hsl() strings.
type Theme struct {
	Name          string
	Primary       string
	TextSecondary string
	BorderLight   string
	Background    string
}

// LightTheme returns the default light palette.
func LightTheme() Theme {
	return Theme{
		Name:          "light",
		Primary:       "hsl(221, 83%, 53%)",
		TextSecondary: "hsl(215, 16%, 47%)",
		BorderLight:   "hsl(214, 32%, 91%)",
		Background:    "hsl(0, 0%, 100%)",
	}
}

// DarkTheme returns the dark palette.
func DarkTheme() Theme {
	return Theme{
		Name:          "dark",
		Primary:       "hsl(217, 91%, 60%)",
		TextSecondary: "hsl(215, 20%, 65%)",
		BorderLight:   "hsl(217, 33%, 17%)",
		Background:    "hsl(222, 47%, 11%)",
	}
}

// ThemeByName returns the dark theme for "dark" and the light theme otherwise.
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "dark") {
		return DarkTheme()
	}
	return LightTheme()
}

// Validate checks that every token is an HSL color.
func (t Theme) Validate() error {
	tokens := []struct {
		name, value string
	}{
		{"Primary", t.Primary},
		{"TextSecondary", t.TextSecondary},
		{"BorderLight", t.BorderLight},
		{"Background", t.Background},
	}
	for _, tok := range tokens {
		if _, err := ParseHSL(tok.value); err != nil {
			return fmt.Errorf("theme %s: %w", tok.name, err)
		}
	}
	return nil
}
