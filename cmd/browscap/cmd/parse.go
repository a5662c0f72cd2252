package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/browscap"
	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/engine"
)

// result is the JSON form of one lookup.
type result struct {
	UserAgent    string                   `json:"user_agent"`
	Capabilities *capability.Capabilities `json:"capabilities"`
	Rule         string                   `json:"rule,omitempty"`
	Candidates   *int                     `json:"candidates,omitempty"`
	Checked      *int                     `json:"checked,omitempty"`
}

func newParseCommand(g *globals) *cobra.Command {
	var (
		asJSON  bool
		explain bool
	)

	c := &cobra.Command{
		Use:   "parse [user-agent ...]",
		Short: "Resolve user agents to capabilities",
		Long:  "Resolve each argument, or each line of stdin when no argument is given.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closer, err := g.load(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts, err := cfg.Options(log)
			if err != nil {
				return err
			}
			p, err := browscap.LoadFile(cfg.DataFile, opts)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			emit := func(ua string) error {
				if asJSON {
					return writeJSON(w, p, ua, explain)
				}
				return writeText(w, p, ua, explain)
			}

			if len(args) > 0 {
				for _, ua := range args {
					if err := emit(ua); err != nil {
						return err
					}
				}
				return nil
			}
			return eachLine(cmd.InOrStdin(), emit)
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per user agent")
	c.Flags().BoolVar(&explain, "explain", false, "Show the matched rule and the rules scanned")
	return c
}

func writeJSON(w io.Writer, p *browscap.Parser, ua string, explain bool) error {
	r := result{UserAgent: ua}
	if explain {
		tr := p.Explain(ua)
		r.Capabilities = tr.Capabilities
		if tr.Rule != nil {
			r.Rule = tr.Rule.Pattern()
		}
		r.Candidates, r.Checked = &tr.Candidates, &tr.Checked
	} else {
		r.Capabilities = p.Parse(ua)
	}
	return json.NewEncoder(w).Encode(r)
}

func writeText(w io.Writer, p *browscap.Parser, ua string, explain bool) error {
	var b strings.Builder
	fmt.Fprintln(&b, ua)

	var tr engine.Trace
	if explain {
		tr = p.Explain(ua)
	} else {
		tr.Capabilities = p.Parse(ua)
	}
	for _, f := range p.Fields() {
		fmt.Fprintf(&b, "  %s: %s\n", f, tr.Capabilities.Get(f))
	}
	if explain {
		rule := "(none)"
		if tr.Rule != nil {
			rule = tr.Rule.Pattern()
		}
		fmt.Fprintf(&b, "  rule: %s\n", rule)
		fmt.Fprintf(&b, "  scanned: %d of %d candidates, %d rules\n", tr.Checked, tr.Candidates, p.Stats().Rules)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// eachLine calls fn for every non-blank line of r.
func eachLine(r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}
