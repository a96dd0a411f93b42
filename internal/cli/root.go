package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "planguard",
	Short: "Check Terraform plans against infrastructure compliance rules",
	Long: `PlanGuard evaluates the resource changes in a Terraform plan against a set of
deny-rules and reports every violation it finds.

PlanGuard is check-only: it reads a plan, flags violations, and never mutates
infrastructure or state.

Examples:
	# Show available commands and global flags
	planguard --help

	# Check a plan
	terraform show -json tfplan | planguard check --plan -

	# List rules
	planguard rules list

	# Print build info
	planguard version

Output:
	By default, commands write human-readable output to stdout.
	Structured output is available via emitter flags (see each command's --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose progress diagnostics on stderr")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
