package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"

	"github.com/imamik/blueprints/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, execution settings equal to their defaults are omitted.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	out := *cfg
	if fullOutput {
		out.ApplyDefaults()
	} else {
		out = minimalConfig(out)
	}

	yamlBytes, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// minimalConfig clears settings that only restate defaults.
func minimalConfig(cfg config.Config) config.Config {
	if cfg.FieldManager == config.DefaultFieldManager {
		cfg.FieldManager = ""
	}
	if cfg.Templates.Region == cfg.Region {
		cfg.Templates.Region = ""
	}
	e := &cfg.Execution
	if ptr.Equal(e.MaxRetries, ptr.To(config.DefaultMaxRetries)) {
		e.MaxRetries = nil
	}
	if e.InitialDelay == config.DefaultInitialDelay {
		e.InitialDelay = 0
	}
	if ptr.Equal(e.Parallelism, ptr.To(config.DefaultParallelism)) {
		e.Parallelism = nil
	}
	if e.Timeout == config.DefaultTimeout {
		e.Timeout = 0
	}
	return cfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# blueprints add-on configuration
# Generated by: blueprints init
# Generated at: %s
# Output mode: %s%s
#
# AWS credentials are read from the default chain (environment, shared
# config, instance role).
#
# Usage:
#   blueprints plan -c %s
#   blueprints deploy -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
