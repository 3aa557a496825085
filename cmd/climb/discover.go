package climb

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/climb/pkg/climb"
)

var (
	discoverRefresh  bool
	discoverMinScore int
	discoverLimit    int
)

func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Scan PATH for CLI tools and score them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd)
		},
	}
	cmd.Flags().BoolVar(&discoverRefresh, "refresh", false, "ignore the on-disk cache and re-probe every candidate")
	cmd.Flags().IntVar(&discoverMinScore, "min-score", 0, "drop candidates scoring below this (0 = use engine default)")
	cmd.Flags().IntVar(&discoverLimit, "limit", 0, "cap the number of results (0 = unlimited)")
	return cmd
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	richStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runDiscover(cmd *cobra.Command) error {
	results, err := climb.Discover(cmd.Context(), climb.DiscoverOptions{
		ForceRefresh: discoverRefresh,
		MinScore:     discoverMinScore,
		Limit:        discoverLimit,
		OnProgress: func(processed, total int) {
			fmt.Fprintf(cmd.OutOrStdout(), "\rprobing %d/%d...", processed, total)
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())

	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(fmt.Sprintf("%-20s %6s  %-8s  %-16s  %s", "NAME", "SCORE", "HELP", "CATEGORY", "PATH")))
	for _, r := range results {
		help := string(r.HelpQuality)
		line := fmt.Sprintf("%-20s %6d  %-8s  %-16s  %s", r.Name, r.Score, help, r.Category, r.Path)
		if r.HelpQuality == climb.HelpRich {
			fmt.Fprintln(cmd.OutOrStdout(), richStyle.Render(line))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(line))
		}
	}
	return nil
}
