// Package wizard provides an interactive configuration wizard for blueprints.
//
// It collects answers with charmbracelet/huh forms. RunWizard runs the
// question groups and returns a WizardResult, BuildConfig turns the result
// into a config.Config, and WriteConfig writes the YAML file.
package wizard
