package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"poassist/config"
)

const (
	providerNameWidth   = 16
	providerStatusWidth = 10
	providerDetailWidth = 32
)

// renderProviderTable summarizes each backend without showing secrets.
func renderProviderTable(reg *config.Registry) string {
	var lines []string
	lines = append(lines, padCell("Backend", providerNameWidth)+padCell("Status", providerStatusWidth)+"Details")

	for _, s := range reg.Providers() {
		status := "disabled"
		if s.Enabled {
			status = "enabled"
		}

		var details []string
		if ok, warn := reg.IsConfigured(s.ID); !ok {
			details = append(details, warn)
		} else {
			switch s.ID {
			case config.ProviderBedrock:
				details = append(details, "region "+s.Region, "key "+maskSecret(s.AccessKeyID))
			case config.ProviderLlama:
				details = append(details, s.BaseURL)
			default:
				details = append(details, "key "+maskSecret(s.APIKey))
			}
		}
		if s.Model != "" {
			details = append(details, "model "+s.Model)
		}

		detail := strings.Join(details, ", ")
		if runewidth.StringWidth(detail) > providerDetailWidth {
			detail = runewidth.Truncate(detail, providerDetailWidth, "...")
		}

		lines = append(lines, padCell(s.Name, providerNameWidth)+padCell(status, providerStatusWidth)+detail)
	}

	return strings.Join(lines, "\n")
}

func padCell(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return runewidth.Truncate(s, width-1, "") + " "
	}
	return runewidth.FillRight(s, width)
}

// maskSecret keeps the last four characters.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("•", len(s))
	}
	return strings.Repeat("•", 4) + s[len(s)-4:]
}
