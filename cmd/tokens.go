package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Supernova3339/changerawr-sub000/internal/config"
	apperrors "github.com/Supernova3339/changerawr-sub000/internal/errors"
	"github.com/Supernova3339/changerawr-sub000/internal/markup"
)

var tokensFormat string

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Dump the parsed token tree for a markdown file (or stdin)",
	Long: `tokens runs only the parse pass and prints the resulting token tree,
which is the fastest way to see how a directive or a custom extension
is being recognized.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().StringVar(&tokensFormat, "format", "json", "output format (json or yaml)")
	rootCmd.AddCommand(tokensCmd)
}

// tokenView is the serialization shape for a token; Raw and empty
// fields are elided to keep dumps readable.
type tokenView struct {
	Kind     string       `json:"kind" yaml:"kind"`
	Raw      string       `json:"raw,omitempty" yaml:"raw,omitempty"`
	Attrs    markup.Attrs `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []tokenView  `json:"children,omitempty" yaml:"children,omitempty"`
}

func viewTokens(tokens []markup.Token) []tokenView {
	out := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tokenView{
			Kind:     t.Kind,
			Raw:      t.Raw,
			Attrs:    t.Attrs,
			Children: viewTokens(t.Children),
		})
	}
	return out
}

func runTokens(cmd *cobra.Command, args []string) error {
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
	view := viewTokens(engine.Parse(string(source)))

	switch tokensFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(view)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown format %q (want json or yaml)", tokensFormat))
	}
}
