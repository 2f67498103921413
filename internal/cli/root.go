// Package cli is the setlist command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type appKey struct{}

// session carries the App opened for one invocation so it can be closed
// whether or not the command failed.
type session struct {
	opts globalOptions
	app  *App
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:           "setlist",
		Short:         "Music library with playlists, collections and a play sequencer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), s.opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s.app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&s.opts.configPath, "config", "", "config file (default: XDG config, then ./config.toml)")
	f.StringVar(&s.opts.dbPath, "db", "", "SQLite state file; forces the sqlite backend")
	f.StringVar(&s.opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&s.opts.offline, "offline", false, "do not rescan known directories on start")

	root.AddCommand(
		scanCmd(),
		songsCmd(),
		editCmd(),
		deleteCmd(),
		exportCmd(),
		importCmd(),
		statusCmd(),
		playlistCmd(),
		collectionCmd(),
		playCmd(),
		previewCmd(),
	)
	return root
}

func appFrom(cmd *cobra.Command) *App {
	a, _ := cmd.Context().Value(appKey{}).(*App)
	return a
}

// Run executes the command line given by args. The App opened for the
// command is closed afterwards, flushing pending saves.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	s := &session{}
	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if s.app != nil {
		err = errors.Join(err, s.app.Close())
	}
	return err
}

// Execute runs the process command line and returns its exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
