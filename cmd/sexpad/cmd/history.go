package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored submissions",
	Long: `Lists submissions recorded by serve, tui or parse --record,
newest first.

Examples:
  sexpad history
  sexpad history --limit 5
  sexpad history show <id>
  sexpad history replay <id>`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyReplayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Parse a stored submission again and record the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryReplay,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyReplayCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of entries (default: reader.history_limit)")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "entries to skip")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService(st, nil, "sexpad-history")
	if err != nil {
		return err
	}

	limit := historyLimit
	if limit <= 0 {
		limit = appConfig.Reader.HistoryLimit
	}
	subs, err := svc.History(cmd.Context(), limit, historyOffset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(subs) == 0 {
		fmt.Fprintln(out, "No submissions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tRESULT\tSOURCE")
	for _, sub := range subs {
		result := fmt.Sprintf("%d expr", sub.ExprCount)
		if sub.Failed() {
			result = fmt.Sprintf("%s %d:%d", sub.ErrorKind, sub.ErrorLine, sub.ErrorColumn)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			sub.ID,
			sub.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			result,
			preview(sub.Source, 40),
		)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService(st, nil, "sexpad-history")
	if err != nil {
		return err
	}

	sub, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:      %s\n", sub.ID)
	fmt.Fprintf(out, "Created: %s\n", sub.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Source:\n%s\n", withNewline(sub.Source))
	if sub.Failed() {
		fmt.Fprintf(out, "Error:   %s\n", sub.ErrorMessage)
		return nil
	}
	fmt.Fprintf(out, "Canonical:\n%s", withNewline(sub.Canonical))
	return nil
}

func runHistoryReplay(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService(st, nil, "sexpad-history")
	if err != nil {
		return err
	}

	result, err := svc.Replay(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !result.OK() {
		return result.Error
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\n", result.ID)
	fmt.Fprint(out, withNewline(result.Canonical))
	return nil
}

// preview returns the first line of s, shortened to max runes
func preview(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
