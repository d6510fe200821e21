// internal/cli/run.go
package cli

import (
	"fmt"
	"os"

	"github.com/arc-language/urecipe"
	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [recipe]",
	Short: "Run every step of a recipe",
	Long: `Run a recipe from system packages to deployment.

Steps run in order: system packages, source, configure, build, package
(only when --format is given) and deploy. A failure to install system
packages is reported as a warning; any other failure stops the run.

Examples:
  urecipe run
  urecipe run heaptrack --format tar.xz --format deb
  urecipe run heaptrack --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecipe,
}

func runRecipe(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(recipeName(args), newLogger(settings))
	if err != nil {
		return err
	}

	rep, err := p.Run(cmd.Context())
	printReport(rep)
	return err
}

func printReport(rep *urecipe.Report) {
	if rep == nil {
		return
	}

	for _, w := range rep.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
	}

	printLines("Commands:", rep.Commands)

	if rep.Definitions != nil {
		fmt.Print(rep.Definitions.Describe())
	}

	for _, a := range rep.Archives {
		fmt.Printf("✓ Archive: %s\n", a)
	}
	for _, d := range rep.Deployed {
		fmt.Printf("✓ Deployed: %s\n", d)
	}

	fmt.Printf("\n%s: completed %v\n", rep.Recipe, rep.Steps)
}

// printCommands lists what a dry run would have executed
func printCommands(rec *shell.Recorder) {
	if rec != nil {
		printLines("Commands:", rec.Lines())
	}
}

func printLines(title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Println(title)
	for _, l := range lines {
		fmt.Printf("  %s\n", l)
	}
}
