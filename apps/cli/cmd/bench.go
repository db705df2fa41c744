package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nanofish-go/nanofish/packages/bench"
	"github.com/nanofish-go/nanofish/packages/request"
)

var (
	benchEngine      engineFlags
	benchMethod      string
	benchData        string
	benchHeaders     []string
	benchRequests    int
	benchConcurrency int
	benchRate        float64
)

var benchCmd = &cobra.Command{
	Use:   "bench <url>",
	Short: "Hammer one endpoint and report latency percentiles",
	Args:  cobra.ExactArgs(1),
	RunE:  runBench,
}

func init() {
	benchEngine.register(benchCmd)
	benchCmd.Flags().StringVarP(&benchMethod, "method", "X", "GET", "HTTP method")
	benchCmd.Flags().StringVarP(&benchData, "data", "d", "", "Request body")
	benchCmd.Flags().StringArrayVarP(&benchHeaders, "header", "H", nil, "Request header \"Name: Value\" (repeatable)")
	benchCmd.Flags().IntVarP(&benchRequests, "requests", "n", 100, "Total number of requests")
	benchCmd.Flags().IntVarP(&benchConcurrency, "concurrency", "c", 4, "Parallel workers")
	benchCmd.Flags().Float64Var(&benchRate, "rate", 0, "Requests per second cap (0 = unpaced)")
}

func runBench(cmd *cobra.Command, args []string) error {
	method, ok := request.ParseMethod(benchMethod)
	if !ok {
		return fmt.Errorf("unsupported method %q", benchMethod)
	}
	headers, err := parseHeaderFlags(benchHeaders)
	if err != nil {
		return err
	}
	var body []byte
	if benchData != "" {
		body = []byte(benchData)
	}

	runner := bench.New(benchEngine.newClient(), bench.Config{
		Requests:    benchRequests,
		Concurrency: benchConcurrency,
		Rate:        benchRate,
		BufferSize:  benchEngine.bufferSize,
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "%d requests to %s, %d workers...\n",
		benchRequests, args[0], benchConcurrency)

	result := runner.Run(cmd.Context(), method, args[0], &headers, body)

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s  %d requests in %s (%.1f req/s)\n",
		bold("done"), result.Total(), result.Duration().Round(time.Millisecond), result.RPS())
	if errs := result.Errors(); errs > 0 {
		fmt.Fprintf(out, "%s  %d failed\n", color.RedString("errors"), errs)
	}
	fmt.Fprintf(out, "p50 %s   p95 %s   p99 %s\n",
		result.P50().Round(time.Microsecond),
		result.P95().Round(time.Microsecond),
		result.P99().Round(time.Microsecond))
	return nil
}
