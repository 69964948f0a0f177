package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/sexpad/foundation/sexpr"
	"github.com/msto63/sexpad/foundation/sexpr/ast"
	"github.com/msto63/sexpad/foundation/sexpr/parser"
	"github.com/msto63/sexpad/internal/scratchpad/server"
	coreGrpc "github.com/msto63/sexpad/pkg/core/grpc"
)

var (
	parseOutput string
	parseRecord bool
	parseRemote string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Read S-expressions and print the result",
	Long: `Reads S-expressions from a file or stdin and prints them.

Output formats:
  sexpr  - canonical text (default)
  json   - tagged tree as JSON
  yaml   - tagged tree as YAML
  tree   - indented outline

Examples:
  sexpad parse program.scm
  echo '(a [b] "c")' | sexpad parse --output json
  sexpad parse --record notes.scm             # store in history
  sexpad parse --remote 127.0.0.1:9090 x.scm  # read via gRPC`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file|-]",
	Short: "Print the canonical rendering",
	Long: `Reads S-expressions and prints their canonical rendering:
comments and extra whitespace removed, all brackets as (), numbers
and strings normalised. One top-level expression per line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "List tokens with their positions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(tokensCmd)

	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "sexpr", "output format: sexpr, json, yaml or tree")
	parseCmd.Flags().BoolVar(&parseRecord, "record", false, "store the submission in the history")
	parseCmd.Flags().StringVar(&parseRemote, "remote", "", "gRPC address of a running sexpad server")
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	var exprs []ast.Expr
	switch {
	case parseRemote != "":
		exprs, err = parseRemoteSource(cmd.Context(), source)
	case parseRecord:
		exprs, err = parseAndRecord(cmd.Context(), source)
	default:
		exprs, err = sexpr.Parse(source)
	}
	if err != nil {
		return err
	}

	out, err := renderExprs(exprs, outputName(parseOutput))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func parseAndRecord(ctx context.Context, source string) ([]ast.Expr, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	svc, err := newService(st, nil, "sexpad-parse")
	if err != nil {
		return nil, err
	}
	result, err := svc.Submit(ctx, source)
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Exprs, nil
}

func parseRemoteSource(ctx context.Context, source string) ([]ast.Expr, error) {
	conn, err := coreGrpc.DialSimple(parseRemote)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	reply, err := server.NewReaderClient(conn).Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return reply.Exprs, nil
}

// renderExprs formats exprs in the named output format
func renderExprs(exprs []ast.Expr, format string) (string, error) {
	switch format {
	case "", "sexpr":
		return withNewline(sexpr.Stringify(exprs)), nil
	case "json":
		data, err := sexpr.DumpJSON(exprs)
		if err != nil {
			return "", err
		}
		return withNewline(string(data)), nil
	case "yaml":
		data, err := sexpr.DumpYAML(exprs)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "tree":
		return ast.NewTreePrinter().Print(exprs), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want sexpr, json, yaml or tree)", format)
	}
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func runFmt(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	text, err := sexpr.Canonicalize(source)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), withNewline(text))
	return nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	tokens, err := parser.Tokenize(source)
	for _, tok := range tokens {
		fmt.Fprintln(cmd.OutOrStdout(), tok.String())
	}
	return err
}
