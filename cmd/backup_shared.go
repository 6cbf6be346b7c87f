package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func sectionsFromConfig(key string) []string {
	return normalizeSections(viper.GetStringSlice(key))
}

func normalizeSections(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" {
			continue
		}
		result = append(result, name)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// cliProgress prints one line per backup section.
type cliProgress struct {
	out    io.Writer
	verb   string
	totals map[string]int
	counts map[string]int
}

func newCLIProgress(out io.Writer, verb string) *cliProgress {
	return &cliProgress{
		out:    out,
		verb:   verb,
		totals: make(map[string]int),
		counts: make(map[string]int),
	}
}

func (p *cliProgress) StartSection(section string, total int) {
	if total < 0 {
		total = 0
	}
	p.totals[section] = total
	p.counts[section] = 0
}

func (p *cliProgress) Increment(section string, delta int) {
	if delta <= 0 {
		return
	}
	p.counts[section] += delta
}

func (p *cliProgress) FinishSection(section string) {
	fmt.Fprintf(p.out, "%s %-12s %d/%d record(s)\n", p.verb, section, p.counts[section], p.totals[section])
	delete(p.counts, section)
	delete(p.totals, section)
}
