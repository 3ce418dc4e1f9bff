package model

import (
	"errors"
	"fmt"
	"strings"

	"poassist/config"
)

// ModelSelection is the user-facing model choice. Each maps to exactly one
// backend.
type ModelSelection string

const (
	ModelClaudeV2   ModelSelection = "claude-v2"
	ModelGPT4       ModelSelection = "gpt-4"
	ModelGPT35Turbo ModelSelection = "gpt-3.5-turbo"
	ModelGeminiPro  ModelSelection = "gemini-pro"
	ModelLlama2     ModelSelection = "llama-2"

	DefaultModelSelection = ModelClaudeV2
)

// ModelInfo is the display metadata for a selection.
type ModelInfo struct {
	Name        string
	Provider    string
	Description string
	Backend     config.ProviderID
}

var modelSelections = []ModelSelection{
	ModelClaudeV2,
	ModelGPT4,
	ModelGPT35Turbo,
	ModelGeminiPro,
	ModelLlama2,
}

var modelInfo = map[ModelSelection]ModelInfo{
	ModelClaudeV2: {
		Name:        "Claude v2",
		Provider:    "AWS Bedrock",
		Description: "Anthropic's advanced language model, excellent at structured data extraction and analysis.",
		Backend:     config.ProviderBedrock,
	},
	ModelGPT4: {
		Name:        "GPT-4",
		Provider:    "OpenAI",
		Description: "OpenAI's most capable model, with strong reasoning and instruction following abilities.",
		Backend:     config.ProviderOpenAI,
	},
	ModelGPT35Turbo: {
		Name:        "GPT-3.5 Turbo",
		Provider:    "OpenAI",
		Description: "OpenAI's efficient model balancing performance and speed.",
		Backend:     config.ProviderOpenAI,
	},
	ModelGeminiPro: {
		Name:        "Gemini Pro",
		Provider:    "Google",
		Description: "Google's advanced language model with strong analytical capabilities.",
		Backend:     config.ProviderGemini,
	},
	ModelLlama2: {
		Name:        "LLaMA 2",
		Provider:    "Local/Custom",
		Description: "Open-source language model with competitive performance.",
		Backend:     config.ProviderLlama,
	},
}

// AllModelSelections returns every selection in display order.
func AllModelSelections() []ModelSelection {
	return append([]ModelSelection(nil), modelSelections...)
}

// ErrUnknownModel is returned for a selection outside AllModelSelections.
var ErrUnknownModel = errors.New("unknown model")

// ParseModelSelection accepts only the known selection ids.
func ParseModelSelection(s string) (ModelSelection, error) {
	sel := ModelSelection(strings.ToLower(strings.TrimSpace(s)))
	if !sel.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
	}
	return sel, nil
}

// Valid reports whether s is one of the known selections.
func (s ModelSelection) Valid() bool {
	_, ok := modelInfo[s]
	return ok
}

func (s ModelSelection) Info() ModelInfo {
	return modelInfo[s]
}

func (s ModelSelection) Backend() config.ProviderID {
	return modelInfo[s].Backend
}

func (s ModelSelection) String() string {
	return string(s)
}
