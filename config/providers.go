package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// ProviderID identifies one AI backend.
type ProviderID string

const (
	ProviderBedrock ProviderID = "bedrock"
	ProviderOpenAI  ProviderID = "openai"
	ProviderGemini  ProviderID = "gemini"
	ProviderLlama   ProviderID = "llama"
)

// ProviderOrder is the fixed order used for listing and validation.
var ProviderOrder = []ProviderID{ProviderBedrock, ProviderOpenAI, ProviderGemini, ProviderLlama}

// RegionPattern matches AWS region names such as us-east-1.
var RegionPattern = regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d$`)

// Secret fields live in the CredentialStore, never in providers.toml.
const (
	secretAPIKey          = "api_key"
	secretSecretAccessKey = "secret_access_key"
)

// ProviderSettings is the per-backend credential/config bag.
type ProviderSettings struct {
	ID              ProviderID `toml:"-"`
	Name            string     `toml:"name"`
	Enabled         bool       `toml:"enabled"`
	APIKey          string     `toml:"-"`
	BaseURL         string     `toml:"base_url,omitempty"`
	AccessKeyID     string     `toml:"access_key_id,omitempty"`
	SecretAccessKey string     `toml:"-"`
	Region          string     `toml:"region,omitempty"`
	Model           string     `toml:"model,omitempty"`
}

// SettingsUpdate is a partial update; nil fields are left untouched.
type SettingsUpdate struct {
	Enabled         *bool
	APIKey          *string
	BaseURL         *string
	AccessKeyID     *string
	SecretAccessKey *string
	Region          *string
	Model           *string
}

// ValidationResult is the outcome of Registry.ValidateAll.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// DefaultProviderSettings returns the settings a fresh install starts with.
func DefaultProviderSettings() map[ProviderID]ProviderSettings {
	return map[ProviderID]ProviderSettings{
		ProviderBedrock: {
			ID:      ProviderBedrock,
			Name:    "AWS Bedrock (Claude)",
			Enabled: true,
			Region:  "us-east-1",
		},
		ProviderOpenAI: {
			ID:      ProviderOpenAI,
			Name:    "OpenAI",
			Enabled: true,
		},
		ProviderGemini: {
			ID:      ProviderGemini,
			Name:    "Google Gemini",
			Enabled: false,
		},
		ProviderLlama: {
			ID:      ProviderLlama,
			Name:    "LLaMA",
			Enabled: false,
			BaseURL: "http://localhost:11434",
		},
	}
}

// Registry owns ProviderSettings for every backend. Readers get copies.
type Registry struct {
	mu       sync.RWMutex
	settings map[ProviderID]ProviderSettings

	// Persistence; both empty for an in-memory registry.
	dataDir string
	creds   *CredentialStore
}

// NewRegistry creates an in-memory registry holding the default settings.
func NewRegistry() *Registry {
	return &Registry{settings: DefaultProviderSettings()}
}

type providersFile struct {
	Providers map[string]ProviderSettings `toml:"providers"`
}

func providersPath(dataDir string) string {
	return filepath.Join(dataDir, "providers.toml")
}

// LoadRegistry reads providers.toml and merges secrets from creds. Missing
// files and missing providers fall back to the defaults.
func LoadRegistry(dataDir string, creds *CredentialStore) (*Registry, error) {
	r := NewRegistry()
	r.dataDir = dataDir
	r.creds = creds

	path := providersPath(dataDir)
	if FileExists(path) {
		var pf providersFile
		if _, err := toml.DecodeFile(path, &pf); err != nil {
			return nil, fmt.Errorf("failed to parse providers file: %w", err)
		}
		for id, s := range pf.Providers {
			pid := ProviderID(id)
			def, known := r.settings[pid]
			if !known {
				if DebugLog != nil {
					DebugLog.Printf("[Registry] Ignoring unknown provider %q in providers.toml", id)
				}
				continue
			}
			s.ID = pid
			if s.Name == "" {
				s.Name = def.Name
			}
			r.settings[pid] = s
		}
	}

	if creds != nil {
		for id, s := range r.settings {
			s.APIKey = creds.Get(id, secretAPIKey)
			s.SecretAccessKey = creds.Get(id, secretSecretAccessKey)
			r.settings[id] = s
		}
	}

	return r, nil
}

// Save writes providers.toml and the credential store. No-op for an
// in-memory registry.
func (r *Registry) Save() error {
	if r.dataDir == "" {
		return nil
	}

	r.mu.RLock()
	pf := providersFile{Providers: make(map[string]ProviderSettings, len(r.settings))}
	for id, s := range r.settings {
		pf.Providers[string(id)] = s
		if r.creds != nil {
			r.creds.Set(id, secretAPIKey, s.APIKey)
			r.creds.Set(id, secretSecretAccessKey, s.SecretAccessKey)
		}
	}
	r.mu.RUnlock()

	if err := writeTOML(providersPath(r.dataDir), r.dataDir, pf); err != nil {
		return fmt.Errorf("failed to save providers: %w", err)
	}

	if r.creds != nil {
		if err := r.creds.Save(r.dataDir); err != nil {
			return fmt.Errorf("failed to persist credentials: %w", err)
		}
	}

	return nil
}

// GetSettings returns a copy of the settings for id. Unknown ids yield the
// zero value.
func (r *Registry) GetSettings(id ProviderID) ProviderSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings[id]
}

// Providers returns all settings in ProviderOrder.
func (r *Registry) Providers() []ProviderSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderSettings, 0, len(ProviderOrder))
	for _, id := range ProviderOrder {
		out = append(out, r.settings[id])
	}
	return out
}

// UpdateSettings shallow-merges upd into the settings of id only.
func (r *Registry) UpdateSettings(id ProviderID, upd SettingsUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settings[id]
	if !ok {
		return fmt.Errorf("unknown provider: %s", id)
	}

	if upd.Enabled != nil {
		s.Enabled = *upd.Enabled
	}
	if upd.APIKey != nil {
		s.APIKey = *upd.APIKey
	}
	if upd.BaseURL != nil {
		s.BaseURL = *upd.BaseURL
	}
	if upd.AccessKeyID != nil {
		s.AccessKeyID = *upd.AccessKeyID
	}
	if upd.SecretAccessKey != nil {
		s.SecretAccessKey = *upd.SecretAccessKey
	}
	if upd.Region != nil {
		s.Region = *upd.Region
	}
	if upd.Model != nil {
		s.Model = *upd.Model
	}

	r.settings[id] = s

	if Debug && DebugLog != nil {
		DebugLog.Printf("[Registry] Updated settings for provider %s", id)
	}

	return nil
}

// ValidateAll runs structural checks on every enabled backend. It never
// touches the network.
func (r *Registry) ValidateAll() ValidationResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []string

	if s := r.settings[ProviderBedrock]; s.Enabled {
		switch {
		case strings.TrimSpace(s.AccessKeyID) == "":
			errs = append(errs, "AWS Access Key ID is required")
		case !strings.HasPrefix(s.AccessKeyID, "AKIA"):
			errs = append(errs, "Invalid AWS Access Key ID format")
		}

		if strings.TrimSpace(s.SecretAccessKey) == "" {
			errs = append(errs, "AWS Secret Access Key is required")
		}

		if !RegionPattern.MatchString(s.Region) {
			errs = append(errs, "Invalid AWS region format (e.g., us-east-1)")
		}
	}

	if s := r.settings[ProviderOpenAI]; s.Enabled && strings.TrimSpace(s.APIKey) == "" {
		errs = append(errs, "OpenAI API key is required")
	}

	if s := r.settings[ProviderGemini]; s.Enabled && strings.TrimSpace(s.APIKey) == "" {
		errs = append(errs, "Google Gemini API key is required")
	}

	if s := r.settings[ProviderLlama]; s.Enabled {
		switch {
		case strings.TrimSpace(s.BaseURL) == "":
			errs = append(errs, "LLaMA endpoint URL is required")
		case !ValidEndpoint(s.BaseURL):
			errs = append(errs, "Invalid LLaMA endpoint URL")
		}
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// IsConfigured reports whether the backend has the fields it needs to make a
// call, and if not, a warning naming what is missing. Enabled is ignored:
// a disabled but configured backend can still be selected.
func (r *Registry) IsConfigured(id ProviderID) (bool, string) {
	s := r.GetSettings(id)

	switch id {
	case ProviderBedrock:
		if strings.TrimSpace(s.AccessKeyID) == "" || strings.TrimSpace(s.SecretAccessKey) == "" {
			return false, "AWS Bedrock credentials are not configured."
		}
	case ProviderOpenAI:
		if strings.TrimSpace(s.APIKey) == "" {
			return false, "OpenAI API key is not configured."
		}
	case ProviderGemini:
		if strings.TrimSpace(s.APIKey) == "" {
			return false, "Google Gemini API key is not configured."
		}
	case ProviderLlama:
		if strings.TrimSpace(s.BaseURL) == "" {
			return false, "LLaMA endpoint is not configured."
		}
	default:
		return false, fmt.Sprintf("Unknown provider %s.", id)
	}

	return true, ""
}

// ParseSettingsField converts a user-facing field name and raw value into a
// single-field SettingsUpdate.
//
// Fields: enabled, api_key, base_url, access_key_id, secret_access_key,
// region, model.
func ParseSettingsField(field, value string) (SettingsUpdate, error) {
	var upd SettingsUpdate

	switch strings.ToLower(field) {
	case "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return upd, fmt.Errorf("enabled must be true or false: %w", err)
		}
		upd.Enabled = &b
	case "api_key", "apikey":
		upd.APIKey = &value
	case "base_url", "baseurl":
		upd.BaseURL = &value
	case "access_key_id":
		upd.AccessKeyID = &value
	case "secret_access_key":
		upd.SecretAccessKey = &value
	case "region":
		upd.Region = &value
	case "model":
		upd.Model = &value
	default:
		return upd, fmt.Errorf("unknown field: %s", field)
	}

	return upd, nil
}

// ValidEndpoint reports whether raw is an absolute http(s) URL.
func ValidEndpoint(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
