package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rankcraft/backend/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a title, meta description and content file",
	Example: `  rankcraft analyze --title "Best SEO Guide" --meta "Learn SEO today." --content-file post.txt --keyword seo
  cat post.txt | rankcraft analyze --content-file - --keyword seo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		meta, _ := cmd.Flags().GetString("meta")
		keyword, _ := cmd.Flags().GetString("keyword")
		contentFile, _ := cmd.Flags().GetString("content-file")
		pretty, _ := cmd.Flags().GetBool("pretty")

		content, err := readContent(cmd.InOrStdin(), contentFile)
		if err != nil {
			return err
		}

		report := analyzer.FullSEOAnalysis(title, meta, content, keyword)

		enc := json.NewEncoder(cmd.OutOrStdout())
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(report)
	},
}

// readContent reads the body copy from path, or stdin when path is "-"
func readContent(stdin io.Reader, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read content from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("title", "", "Page title")
	analyzeCmd.Flags().String("meta", "", "Meta description")
	analyzeCmd.Flags().String("content-file", "", "File holding the body copy (- for stdin)")
	analyzeCmd.Flags().String("keyword", "", "Target keyword")
	analyzeCmd.Flags().Bool("pretty", false, "Indent the JSON output")
}
