package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/sexpad/internal/tui/scratchpad"
)

var tuiNoHistory bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal scratchpad",
	Long: `Opens an editor in the terminal. Each submission is read and shown
as canonical text and tree, or as an error with line and column.

Keys:
  ctrl+s, alt+enter  read the editor content
  ctrl+l             clear the output
  esc, ctrl+c        quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().BoolVar(&tuiNoHistory, "no-history", false, "do not store submissions")
}

func runTUI(cmd *cobra.Command, args []string) error {
	if tuiNoHistory {
		appConfig.Store.Driver = "memory"
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService(st, nil, "sexpad-tui")
	if err != nil {
		return err
	}

	cfg := scratchpad.DefaultConfig()
	cfg.Submitter = svc
	cfg.CharLimit = appConfig.Reader.MaxSourceLength
	cfg.MaxEntries = appConfig.Reader.HistoryLimit
	return scratchpad.Run(cfg)
}
