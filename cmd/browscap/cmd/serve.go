package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coregx/browscap/service"
)

func newServeCommand(g *globals) *cobra.Command {
	var watch bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Resolve user agents from stdin until it closes",
		Long: "Read one user agent per line from stdin and write one JSON object per line to stdout.\n" +
			"Results are cached, and with --watch the catalogue is reloaded when its file changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closer, err := g.load(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()
			if cmd.Flags().Changed("watch") {
				cfg.Watch = watch
			}

			sc, err := cfg.Service(log)
			if err != nil {
				return err
			}
			s, err := service.New(sc)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watched := make(chan error, 1)
			if cfg.Watch {
				go func() { watched <- s.Watch(ctx) }()
			} else {
				watched <- nil
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			enc := json.NewEncoder(w)
			err = eachLine(cmd.InOrStdin(), func(ua string) error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := enc.Encode(result{UserAgent: ua, Capabilities: s.Parse(ua)}); err != nil {
					return err
				}
				return w.Flush()
			})

			stop()
			if werr := <-watched; werr != nil {
				log.Error("catalogue watcher stopped", slog.Any("error", werr))
			}

			st := s.Stats()
			log.Info("serve finished",
				slog.Uint64("lookups", st.Lookups),
				slog.Uint64("cache_hits", st.CacheHits),
				slog.Uint64("reloads", st.Reloads),
			)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	c.Flags().BoolVar(&watch, "watch", false, "Reload the catalogue when its file changes")
	return c
}
