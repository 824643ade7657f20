package ai

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Each prompt directory is announced once, even when several clients
// share it.
var (
	seenPromptDirs   = make(map[string]bool)
	seenPromptDirsMu sync.Mutex
)

// PromptManager loads prompt templates from .txt files in a directory.
// Keeping prompts external lets their wording change without a rebuild.
type PromptManager struct {
	PromptsDir string
}

// NewPromptManager creates a prompt manager over the given directory
func NewPromptManager(promptsDir string) *PromptManager {
	seenPromptDirsMu.Lock()
	if !seenPromptDirs[promptsDir] {
		seenPromptDirs[promptsDir] = true
		log.Printf("[Prompts] Loading templates from %s", promptsDir)
	}
	seenPromptDirsMu.Unlock()

	return &PromptManager{PromptsDir: promptsDir}
}

// LoadPrompt reads the template <name>.txt from the prompt directory.
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	path := filepath.Join(pm.PromptsDir, name+".txt")

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("prompt template not found: %s", name)
		}
		return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
	}

	return string(content), nil
}

// RenderPrompt loads a template and substitutes every {PLACEHOLDER}
// with its replacement value.
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	rendered, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	for placeholder, value := range replacements {
		rendered = strings.ReplaceAll(rendered, "{"+placeholder+"}", value)
	}

	return rendered, nil
}
