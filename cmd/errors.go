package cmd

import (
	"fmt"
)

// fail prints an error block to stderr and exits with status 1.
// hint may be empty.
func fail(what string, err error, hint string) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", what)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
	deps.Exit(1)
}

func failConfig(path string, err error) {
	hint := "Run 'voicesheet config init' to write a sample config"
	if path != "" {
		hint = fmt.Sprintf("Check that your config file is valid TOML: %s", path)
	}
	fail("Failed to load configuration", err, hint)
}

func failStore(err error) {
	fail("Failed to open timesheet", err, "Timesheets must end in .xlsx or .csv")
}
