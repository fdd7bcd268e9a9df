package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"job_scoring_backend/internal/scoring"

	"github.com/spf13/cobra"
)

// scoreInput is the document accepted by the score command.
type scoreInput struct {
	Questions []scoring.Question `json:"questions"`
	Answers   []scoring.Answer   `json:"answers"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score answers against a question catalogue offline",
	Long: `Reads a JSON document {"questions": [...], "answers": [...]} and prints
the scoring result. Use "-" as the file to read from stdin.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		strict, _ := cmd.Flags().GetBool("strict")
		validate, _ := cmd.Flags().GetBool("validate")

		in := cmd.InOrStdin()
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		return runScore(in, cmd.OutOrStdout(), strict, validate)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("file", "f", "-", "input JSON file")
	scoreCmd.Flags().Bool("strict", false, "reject answers to question types without a scoring rule")
	scoreCmd.Flags().Bool("validate", false, "validate the question catalogue before scoring")
}

func runScore(in io.Reader, out io.Writer, strict, validate bool) error {
	var input scoreInput
	if err := json.NewDecoder(in).Decode(&input); err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}

	if validate {
		if err := scoring.ValidateQuestions(input.Questions); err != nil {
			return fmt.Errorf("invalid questions: %w", err)
		}
	}

	var opts []scoring.Option
	if strict {
		opts = append(opts, scoring.WithStrictTypes())
	}

	res, err := scoring.New(opts...).Score(input.Questions, input.Answers)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
