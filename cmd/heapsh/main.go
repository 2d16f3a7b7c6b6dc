package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		scriptPath string
		allocator  string
		blockSize  int
		blockCount int
		verbose    bool
		relative   bool
	)

	cmd := &cobra.Command{
		Use:   "heapsh [command args...]",
		Short: "replay a scripted sequence of allocator operations",
		Long: "heapsh dispatches a flat stream of command tokens, either given as " +
			"trailing arguments or read line by line from --script, against a " +
			"heap.Allocator or an internal/fixedalloc.Pool.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{})

			var r *Runner
			switch allocator {
			case "heap":
				r = NewRunner(log)
			case "fixed":
				r = NewFixedRunner(log, blockSize, blockCount)
			default:
				return errors.Errorf(`unknown --allocator %q, want "heap" or "fixed"`, allocator)
			}
			r.verbose = verbose
			r.relative = relative

			tokens := args
			if scriptPath != "" {
				fileTokens, err := readScript(scriptPath)
				if err != nil {
					return err
				}
				tokens = append(tokens, fileTokens...)
			}

			return r.Run(tokens)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "path to a script file, one or more whitespace-separated commands per line")
	cmd.Flags().StringVar(&allocator, "allocator", "heap", `allocator backend to drive: "heap" or "fixed"`)
	cmd.Flags().IntVar(&blockSize, "block-size", 2048, "block size for the fixed allocator backend")
	cmd.Flags().IntVar(&blockCount, "block-count", 64, "block count for the fixed allocator backend")
	cmd.Flags().BoolVar(&verbose, "verbose", true, "print section headers (-- heap --, -- slots --, ...)")
	cmd.Flags().BoolVar(&relative, "relative", false, "print addresses relative to the heap base instead of absolute")

	return cmd
}

func readScript(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tokens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens, sc.Err()
}
