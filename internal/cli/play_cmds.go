package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/setlist/internal/errmsg"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/playback"
	"github.com/llehouerou/setlist/internal/render"
	"github.com/llehouerou/setlist/internal/sequence"
)

const defaultDwell = 3 * time.Second

// target selects what a sequence starts from. At most one field is set;
// none starts at the first library song.
type target struct {
	playlist   string
	collection string
	song       string
	row        int
	repeat     string
	shuffle    bool
	queue      []string
}

func (t *target) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&t.playlist, "playlist", "", "play this playlist")
	f.StringVar(&t.collection, "collection", "", "play this collection")
	f.StringVar(&t.song, "song", "", "play this song (row, id or base id)")
	f.IntVar(&t.row, "row", 0, "play the library from this row")
	f.StringVar(&t.repeat, "repeat", "none", "repeat mode: none, playlist or song")
	f.BoolVar(&t.shuffle, "shuffle", false, "shuffle the playlist or library")
	f.StringSliceVar(&t.queue, "queue", nil, "songs to play next, before the context continues")
}

// start builds an engine over the library and selects the first song.
func (t *target) start(a *App) (*sequence.Engine, sequence.Transition, error) {
	var none sequence.Transition

	set := 0
	for _, given := range []bool{t.playlist != "", t.collection != "", t.song != "", t.row != 0} {
		if given {
			set++
		}
	}
	if set > 1 {
		return nil, none, errors.New("--playlist, --collection, --song and --row are exclusive")
	}
	repeat, err := sequence.ParseRepeatMode(t.repeat)
	if err != nil {
		return nil, none, err
	}
	queued, err := a.findSongs(t.queue)
	if err != nil {
		return nil, none, errors.New(errmsg.Format(errmsg.OpQueueAdd, err))
	}

	eng := sequence.New(a.lib, sequence.WithLogger(a.logger))
	eng.SetRepeat(repeat)

	var tr sequence.Transition
	switch {
	case t.playlist != "":
		var p library.Playlist
		if p, err = a.findPlaylist(t.playlist); err == nil {
			tr, err = eng.PlayPlaylist(p)
		}
	case t.collection != "":
		var c library.Collection
		if c, err = a.findCollection(t.collection); err == nil {
			tr, err = eng.PlayCollection(c)
		}
	case t.song != "":
		var s library.Song
		if s, err = a.findSong(t.song); err == nil {
			tr, err = eng.PlayNow(s)
		}
	default:
		row := max(t.row, 1)
		tr, err = eng.PlayLibraryRow(row - 1)
	}
	if err != nil {
		return nil, none, errors.New(errmsg.Format(errmsg.OpPlaybackStart, err))
	}

	// shuffle order is built around the song just selected
	if t.shuffle {
		eng.SetShuffle(true)
	}
	eng.Enqueue(queued...)
	return eng, tr, nil
}

func playCmd() *cobra.Command {
	var (
		t     target
		count int
		dwell time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play through the library, a playlist or a collection",
		Long: "Play walks the sequence the way a player would. Audio is not decoded: each file plays for --dwell, " +
			"then the next song is selected. Songs that cannot be opened are reported and skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			if dwell <= 0 {
				return errors.New("--dwell must be positive")
			}

			eng, tr, err := t.start(a)
			if err != nil {
				return err
			}

			surface := playback.NewSurface(playback.FileMedia{Dwell: dwell}, a.logger)
			defer surface.Close()
			sub := surface.Subscribe()
			surface.NotifyMode(eng.Position().Repeat, eng.Position().Shuffle)
			surface.NotifyQueue(eng.Queued())

			st := render.S()
			status := ""
			started := 0
			load := func(tr sequence.Transition) {
				song, ok := eng.Current()
				if !ok {
					return
				}
				if s := statusLine(eng); s != status {
					status = s
					a.printf("%s\n", st.Title.Render(status))
				}
				started++
				a.printf("%s\n", st.Playing.Render("▶ "+render.SongLine(song)))
				// faults come back on the Error channel
				_, _ = surface.Load(ctx, song, tr)
			}
			load(tr)

			// a sequence of songs that all fail stops after one pass
			failures := 0
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-sub.Done:
					return nil
				case e := <-sub.Error:
					a.printf("%s\n", st.Error.Render(fmt.Sprintf("! %s: %v", e.Operation, e.Err)))
					failures++
					if failures > max(a.lib.Len(), 1) {
						return errors.New(errmsg.Format(errmsg.OpPlaybackNext, errors.New("no playable song")))
					}
				case <-sub.Finished:
					failures = 0
				}

				if count > 0 && started >= count {
					return nil
				}
				tr, err := eng.Next()
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpPlaybackNext, err))
				}
				if !tr.Changed {
					a.printf("%s\n", st.Muted.Render("End of sequence"))
					return nil
				}
				surface.NotifyQueue(eng.Queued())
				load(tr)
			}
		},
	}
	t.register(cmd)
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many songs (0 plays to the end)")
	cmd.Flags().DurationVar(&dwell, "dwell", defaultDwell, "how long each song plays")
	return cmd
}

func previewCmd() *cobra.Command {
	var (
		t     target
		limit int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what would play, without playing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			eng, _, err := t.start(a)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.GetPreviewLimit()
			}
			var current *library.Song
			if s, ok := eng.Current(); ok {
				current = &s
			}
			a.printf("%s", render.NowPlaying(statusLine(eng), current, "", eng.Upcoming(limit)))
			return nil
		},
	}
	t.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "number of upcoming songs to show")
	return cmd
}

// statusLine is the engine status followed by the active mode indicators.
func statusLine(eng *sequence.Engine) string {
	p := eng.Position()
	if mode := render.Mode(p.Repeat, p.Shuffle); mode != "" {
		return eng.Status() + "  " + mode
	}
	return eng.Status()
}
