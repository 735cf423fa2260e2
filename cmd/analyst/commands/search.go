package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "애널리스트 이름 검색",
	Long: `이름 일부로 애널리스트를 검색합니다 (대소문자 무시, 최소 2자).

Example:
  go run ./cmd/analyst search smith
  go run ./cmd/analyst search "j. smith"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// featuredCmd represents the featured command
var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "추천 애널리스트 샘플",
	RunE:  runFeatured,
}

var featuredCount int

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(featuredCmd)

	featuredCmd.Flags().IntVarP(&featuredCount, "count", "n", 5, "샘플 크기")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	term := strings.Join(args, " ")
	found, err := a.analysts.Search(cmd.Context(), term)
	if err != nil {
		return fmt.Errorf("search %q: %w", term, err)
	}

	PrintHeader(fmt.Sprintf("Search: %q (%d found)", term, len(found)))
	widths := []int{10, 32, 20}
	PrintTableHeader([]string{"ID", "Name", "Short"}, widths)
	for _, an := range found {
		PrintTableRow([]string{strconv.FormatInt(an.ID, 10), an.FullName, an.FirstInitialLastName}, widths)
	}
	return nil
}

func runFeatured(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sample, err := a.analysts.CachedFeatured(cmd.Context(), featuredCount)
	if err != nil {
		return fmt.Errorf("featured: %w", err)
	}

	PrintHeader("Featured analysts")
	for _, an := range sample {
		PrintKeyValue(strconv.FormatInt(an.ID, 10), an.FullName, 10)
	}
	return nil
}
