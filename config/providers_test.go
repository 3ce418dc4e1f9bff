package config

import (
	"reflect"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateSettingsRoundTrip(t *testing.T) {
	r := NewRegistry()

	before := map[ProviderID]ProviderSettings{}
	for _, id := range ProviderOrder {
		before[id] = r.GetSettings(id)
	}

	if err := r.UpdateSettings(ProviderOpenAI, SettingsUpdate{APIKey: strPtr("X")}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	if got := r.GetSettings(ProviderOpenAI).APIKey; got != "X" {
		t.Errorf("GetSettings(openai).APIKey = %q, want %q", got, "X")
	}

	// Shallow merge: untouched fields of the same backend stay as they were
	openai := r.GetSettings(ProviderOpenAI)
	if openai.Enabled != before[ProviderOpenAI].Enabled || openai.Name != before[ProviderOpenAI].Name {
		t.Errorf("UpdateSettings changed unrelated openai fields: %+v", openai)
	}

	for _, id := range ProviderOrder {
		if id == ProviderOpenAI {
			continue
		}
		if got := r.GetSettings(id); !reflect.DeepEqual(got, before[id]) {
			t.Errorf("settings for %s changed: got %+v, want %+v", id, got, before[id])
		}
	}
}

func TestUpdateSettingsUnknownProvider(t *testing.T) {
	r := NewRegistry()
	if err := r.UpdateSettings("anthropic", SettingsUpdate{APIKey: strPtr("x")}); err == nil {
		t.Error("UpdateSettings(unknown) expected error, got nil")
	}
}

func TestValidateAllDefaults(t *testing.T) {
	r := NewRegistry()
	res := r.ValidateAll()

	if res.IsValid {
		t.Fatal("ValidateAll() on defaults IsValid = true, want false")
	}

	want := []string{
		"AWS Access Key ID is required",
		"AWS Secret Access Key is required",
		"OpenAI API key is required",
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("ValidateAll().Errors = %q, want %q", res.Errors, want)
	}

	for _, e := range res.Errors {
		if strings.Contains(strings.ToLower(e), "gemini") {
			t.Errorf("disabled gemini produced error %q", e)
		}
	}
}

func TestValidateAll(t *testing.T) {
	tests := []struct {
		name       string
		updates    map[ProviderID]SettingsUpdate
		wantValid  bool
		wantErrors []string
	}{
		{
			name: "fully configured",
			updates: map[ProviderID]SettingsUpdate{
				ProviderBedrock: {AccessKeyID: strPtr("AKIAEXAMPLE"), SecretAccessKey: strPtr("secret")},
				ProviderOpenAI:  {APIKey: strPtr("sk-test")},
			},
			wantValid: true,
		},
		{
			name: "bad access key prefix and region",
			updates: map[ProviderID]SettingsUpdate{
				ProviderBedrock: {AccessKeyID: strPtr("ASIAEXAMPLE"), SecretAccessKey: strPtr("s"), Region: strPtr("US-EAST-1")},
				ProviderOpenAI:  {APIKey: strPtr("sk-test")},
			},
			wantErrors: []string{
				"Invalid AWS Access Key ID format",
				"Invalid AWS region format (e.g., us-east-1)",
			},
		},
		{
			name: "disabled backends are skipped",
			updates: map[ProviderID]SettingsUpdate{
				ProviderBedrock: {Enabled: boolPtr(false)},
				ProviderOpenAI:  {Enabled: boolPtr(false)},
			},
			wantValid: true,
		},
		{
			name: "gemini and llama enabled without config",
			updates: map[ProviderID]SettingsUpdate{
				ProviderBedrock: {Enabled: boolPtr(false)},
				ProviderOpenAI:  {Enabled: boolPtr(false)},
				ProviderGemini:  {Enabled: boolPtr(true)},
				ProviderLlama:   {Enabled: boolPtr(true), BaseURL: strPtr("localhost")},
			},
			wantErrors: []string{
				"Google Gemini API key is required",
				"Invalid LLaMA endpoint URL",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for id, upd := range tt.updates {
				if err := r.UpdateSettings(id, upd); err != nil {
					t.Fatalf("UpdateSettings(%s) error = %v", id, err)
				}
			}

			res := r.ValidateAll()
			if res.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors: %q)", res.IsValid, tt.wantValid, res.Errors)
			}
			if !reflect.DeepEqual(res.Errors, tt.wantErrors) {
				t.Errorf("Errors = %q, want %q", res.Errors, tt.wantErrors)
			}
		})
	}
}

func TestIsConfigured(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		id       ProviderID
		wantOK   bool
		wantWarn string
	}{
		{ProviderBedrock, false, "AWS Bedrock credentials are not configured."},
		{ProviderOpenAI, false, "OpenAI API key is not configured."},
		{ProviderGemini, false, "Google Gemini API key is not configured."},
		{ProviderLlama, true, ""},
	}

	for _, tt := range tests {
		ok, warn := r.IsConfigured(tt.id)
		if ok != tt.wantOK || warn != tt.wantWarn {
			t.Errorf("IsConfigured(%s) = (%v, %q), want (%v, %q)", tt.id, ok, warn, tt.wantOK, tt.wantWarn)
		}
	}
}

func TestParseSettingsField(t *testing.T) {
	upd, err := ParseSettingsField("enabled", "true")
	if err != nil || upd.Enabled == nil || !*upd.Enabled {
		t.Errorf("ParseSettingsField(enabled, true) = %+v, %v", upd, err)
	}

	upd, err = ParseSettingsField("region", "eu-west-1")
	if err != nil || upd.Region == nil || *upd.Region != "eu-west-1" {
		t.Errorf("ParseSettingsField(region) = %+v, %v", upd, err)
	}

	if _, err := ParseSettingsField("enabled", "maybe"); err == nil {
		t.Error("ParseSettingsField(enabled, maybe) expected error")
	}
	if _, err := ParseSettingsField("colour", "red"); err == nil {
		t.Error("ParseSettingsField(colour) expected error")
	}
}

func TestRegistryPersistence(t *testing.T) {
	dataDir := t.TempDir()

	creds := NewCredentialStore(SecurityPlainText, "")
	r, err := LoadRegistry(dataDir, creds)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	if err := r.UpdateSettings(ProviderOpenAI, SettingsUpdate{APIKey: strPtr("sk-persist")}); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateSettings(ProviderBedrock, SettingsUpdate{
		AccessKeyID:     strPtr("AKIAPERSIST"),
		SecretAccessKey: strPtr("shh"),
		Region:          strPtr("eu-central-1"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !FileExists(providersPath(dataDir)) {
		t.Fatal("providers.toml was not written")
	}

	reloadedCreds := NewCredentialStore(SecurityPlainText, "")
	if err := reloadedCreds.Load(dataDir); err != nil {
		t.Fatalf("credentials Load() error = %v", err)
	}
	r2, err := LoadRegistry(dataDir, reloadedCreds)
	if err != nil {
		t.Fatalf("LoadRegistry() reload error = %v", err)
	}

	if got := r2.GetSettings(ProviderOpenAI).APIKey; got != "sk-persist" {
		t.Errorf("reloaded openai APIKey = %q", got)
	}
	bedrock := r2.GetSettings(ProviderBedrock)
	if bedrock.AccessKeyID != "AKIAPERSIST" || bedrock.SecretAccessKey != "shh" || bedrock.Region != "eu-central-1" {
		t.Errorf("reloaded bedrock = %+v", bedrock)
	}
	if got := r2.GetSettings(ProviderLlama).BaseURL; got != "http://localhost:11434" {
		t.Errorf("reloaded llama BaseURL = %q", got)
	}
}
