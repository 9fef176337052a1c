// request-stats summarizes the tasks request events in API log output read
// from stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/pflag"
)

func main() {
	var (
		outPath     string
		eventName   string
		eventDomain string
	)
	flagSet := pflag.NewFlagSet("request-stats", pflag.ExitOnError)
	flagSet.StringVar(&outPath, "out", "", "path to write the aggregated JSON summary")
	flagSet.StringVar(&eventName, "event-name", tasksEventName, "observability event name to collect")
	flagSet.StringVar(&eventDomain, "event-domain", tasksEventDomain, "observability event domain to match")
	_ = flagSet.Parse(os.Args[1:])

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(2)
	}

	c := newCollector(eventName, eventDomain)
	if err := collect(c, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "read logs: %v\n", err)
		os.Exit(1)
	}
	summary := c.summary()
	if err := writeSummary(outPath, summary); err != nil {
		fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(summary.ShortString())
}

func collect(c *collector, r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) != 0 {
			c.ingest(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func writeSummary(path string, summary summaryOutput) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
