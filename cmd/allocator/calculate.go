package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Allocator/internal/allocation"
)

func calculateCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute an allocation from a JSON request file (- for stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open request: %w", err)
				}
				defer f.Close()
				in = f
			}
			return calculate(in, cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "allocation request file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func calculate(in io.Reader, out io.Writer, asJSON bool) error {
	var req allocation.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	res, err := allocation.Allocate(req)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Lines)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TICKER\tAMOUNT\tVALUE\tPERCENT\t")
	for _, l := range res.Lines {
		fmt.Fprintf(tw, "%s\t%.8f\t%.2f\t%.4f%%\t\n", l.Ticker, l.Amount, l.Value, l.Percentage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if res.EqualWeight() {
		fmt.Fprintf(out, "\ncap %.4f is below 1/%d; allocated equal weights\n", res.RequestedCap, len(res.Lines))
	}
	return nil
}
