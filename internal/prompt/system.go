package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:embed system/*.md
var embeddedSystem embed.FS

// DefaultSystem is the system prompt used for commentary generation.
const DefaultSystem = "commentary"

// System resolves a system prompt. Embedded prompts are matched by name
// first; anything else is read as a file path.
func System(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultSystem
	}
	data, err := embeddedSystem.ReadFile("system/" + nameOrPath + ".md")
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	data, err = os.ReadFile(nameOrPath)
	if err != nil {
		return "", fmt.Errorf("failed to load system prompt %q: %w", nameOrPath, err)
	}
	return strings.TrimSpace(string(data)), nil
}
