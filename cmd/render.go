package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Supernova3339/changerawr-sub000/internal/config"
	apperrors "github.com/Supernova3339/changerawr-sub000/internal/errors"
	"github.com/Supernova3339/changerawr-sub000/internal/markup"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Compile a markdown file (or stdin) to sanitized HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write HTML to file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source, err := readSource(args)
	if err != nil {
		return err
	}

	engine, err := markup.NewEngine(markup.Options{EnableCUM: cfg.Engine.CUMEnabled})
	if err != nil {
		return err
	}
	html := engine.Render(string(source))

	if renderOutput != "" {
		if err := os.WriteFile(renderOutput, []byte(html), 0o644); err != nil {
			return apperrors.NewIOError("writing output", renderOutput, err)
		}
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), html+"\n")
	return err
}

// readSource reads the named file, or stdin when no argument was given.
func readSource(args []string) ([]byte, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, apperrors.NewIOError("reading stdin", "-", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, apperrors.NewIOError("reading source", args[0], err)
	}
	return data, nil
}
