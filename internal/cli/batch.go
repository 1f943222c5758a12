package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/evaluator"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"os"
	"runtime"
	"sync/atomic"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every password of a file, one per line, and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommand(cmd.Context(), cmd.OutOrStdout())
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line (required). Use - for stdin")
	batchCmd.MarkFlagRequired("in-file")
	batchCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of concurrent evaluations. If omitted or less than 1, defaults to twice the number of logical processors of the machine.")
	batchCmd.Flags().IntVar(&requestsPerSecond, "rps", 0, "Maximum evaluations started per second. 0 means no limit.")

	rootCmd.AddCommand(batchCmd)
}

// batchSummary counts the verdicts of a batch. Passwords are never kept.
type batchSummary struct {
	tiers  [strength.Breached + 1]uint64
	errors uint64
	total  uint64
}

func (s *batchSummary) add(tier strength.Tier) {
	atomic.AddUint64(&s.total, 1)
	atomic.AddUint64(&s.tiers[tier], 1)
}

func (s *batchSummary) fail() {
	atomic.AddUint64(&s.total, 1)
	atomic.AddUint64(&s.errors, 1)
}

func (s *batchSummary) count(tier strength.Tier) uint64 {
	return atomic.LoadUint64(&s.tiers[tier])
}

func (s *batchSummary) print(out io.Writer) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(out, "Evaluated %d passwords\n", atomic.LoadUint64(&s.total))
	for _, tier := range []strength.Tier{strength.Breached, strength.Weak, strength.Moderate, strength.Strong} {
		_, _ = p.Fprintf(out, "  %-9s %d\n", tier.String(), s.count(tier))
	}
	if n := atomic.LoadUint64(&s.errors); n > 0 {
		_, _ = p.Fprintf(out, "  %-9s %d\n", "errors", n)
	}
}

type batchRunner struct {
	ctx       context.Context
	evaluator *evaluator.Evaluator
	summary   *batchSummary
}

func (b *batchRunner) evaluateLine(line int, password string) {
	verdict, err := b.evaluator.Evaluate(b.ctx, password)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msgf("error evaluating line %d", line)
		}
		b.summary.fail()
		return
	}

	log.Debug().Msgf("line %d: %s", line, verdict.Tier)
	b.summary.add(verdict.Tier)
}

func batchCommand(ctx context.Context, out io.Writer) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	var in io.Reader
	if inputFile == "-" {
		in = os.Stdin
	} else {
		file, err := os.Open(inputFile)
		if err != nil {
			return err
		}

		defer func(file *os.File) {
			if err = file.Close(); err != nil {
				log.Error().Err(err).Msg("error closing passwords file")
			}
		}(file)
		in = file
	}

	svc, err := loadServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	summary, err := runBatch(ctx, in, svc.evaluator, threads, requestsPerSecond)
	if err != nil {
		return err
	}

	summary.print(out)
	return nil
}

func runBatch(ctx context.Context, in io.Reader, e *evaluator.Evaluator, workers int, rps int) (*batchSummary, error) {
	s := util.Stats("batch")
	defer s()

	if workers < 1 {
		workers = runtime.NumCPU() * 2
	}

	// This is a bounded thread pool. I just didn't want to implement it myself...
	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: rps,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return nil, err
	}
	defer tasks.Close()

	runner := &batchRunner{ctx: ctx, evaluator: e, summary: &batchSummary{}}

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		if ctx.Err() != nil {
			break
		}

		password := scanner.Text()
		if password == "" {
			continue
		}

		if err = tasks.Publish(runner.evaluateLine, line, password); err != nil {
			return nil, fmt.Errorf("error queueing line %d: %w", line, err)
		}
	}

	tasks.Wait()
	if err = scanner.Err(); err != nil {
		return nil, err
	}

	return runner.summary, ctx.Err()
}
