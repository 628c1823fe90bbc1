package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims string fields, fills defaults, and
// reports anything the UI should surface before a save.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var vr Validation

	if out.App.Port == 0 {
		out.App.Port = 38472
	}
	if out.App.Port < 0 || out.App.Port > 65535 {
		vr.addErr("app.port must be 1..65535")
	}

	out.Catalog.Path = strings.TrimSpace(out.Catalog.Path)
	out.Enrichment.UserAgent = strings.TrimSpace(out.Enrichment.UserAgent)
	out.Enrichment.KeyringAccount = strings.TrimSpace(out.Enrichment.KeyringAccount)

	if out.Enrichment.RequestsPerSecond < 0 {
		vr.addErr("enrichment.requests_per_second must be >= 0")
	}
	if out.Enrichment.RequestsPerSecond == 0 {
		out.Enrichment.RequestsPerSecond = 1.0
	}
	if out.Enrichment.Burst < 0 {
		vr.addErr("enrichment.burst must be >= 0")
	}
	if out.Enrichment.Burst == 0 {
		out.Enrichment.Burst = 2
	}
	if out.Enrichment.RequestsPerSecond > 5 {
		vr.addWarn("enrichment.requests_per_second > 5 is aggressive for homepage probes")
	}

	return out, vr
}
