package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/poassist",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		DefaultModel:       "claude-v2",
		CredentialSecurity: SecurityPlainText,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# poassist System Configuration
# Location: ~/.config/poassist/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the chat database, provider settings and credentials are stored
data_directory = "~/.local/share/poassist"
`
}

func GenerateUserConfigTemplate() string {
	return `# poassist User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Model selected on first start: claude-v2, gpt-4, gpt-3.5-turbo, gemini-pro, llama-2
default_model = "claude-v2"

# How provider secrets are stored on disk:
#   "plaintext" - credentials.toml with 0600 permissions
#   "ssh_key"   - credentials.enc, AES-256-GCM keyed from an SSH key signature
credential_security = "plaintext"

# SSH private key used when credential_security = "ssh_key"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
