package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/setlist/internal/errmsg"
	"github.com/llehouerou/setlist/internal/render"
)

func playlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"pl"},
		Short:   "Manage playlists",
		Long:    "Playlists are referenced by id or by name. Positions are numbered from 1.",
	}
	cmd.AddCommand(
		playlistListCmd(),
		playlistShowCmd(),
		playlistCreateCmd(),
		playlistDeleteCmd(),
		playlistRenameCmd(),
		playlistAddCmd(),
		playlistRemoveCmd(),
		playlistMoveCmd(),
	)
	return cmd
}

// parsePosition converts a 1-based position argument to an index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return n - 1, nil
}

func checkPosition(i, n int) error {
	if i >= n {
		return fmt.Errorf("position %d out of range (1-%d)", i+1, n)
	}
	return nil
}

func playlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			pls := a.lib.Playlists()
			if len(pls) == 0 {
				a.printf("%s\n", render.S().Muted.Render("No playlists"))
				return nil
			}
			a.printf("%s", render.PlaylistList(pls, 0))
			return nil
		},
	}
}

func playlistShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <playlist>",
		Short: "List the songs of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[0])
			if err != nil {
				return err
			}
			a.printf("%s %s\n", render.S().Title.Render(render.Sanitize(p.Name)), render.S().Muted.Render(p.ID))
			a.printf("%s", render.SongTable(p.Songs, render.TableOptions{Current: -1, Header: true}))
			return nil
		},
	}
}

func playlistCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [song...]",
		Short: "Create a playlist, optionally with songs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			songs, err := a.findSongs(args[1:])
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistCreate, args[0], err))
			}
			p := a.lib.CreatePlaylist(args[0])
			if len(songs) > 0 {
				if err := a.lib.AddToPlaylist(p.ID, songs...); err != nil {
					return errors.New(errmsg.FormatWith(errmsg.OpPlaylistAddTrack, args[0], err))
				}
			}
			a.changed()
			a.printf("Created playlist %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
}

func playlistDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <playlist>",
		Short: "Delete a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlaylistDelete, err))
			}
			if err := a.lib.DeletePlaylist(p.ID); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistDelete, p.Name, err))
			}
			a.changed()
			a.printf("Deleted playlist %s\n", p.Name)
			return nil
		},
	}
}

func playlistRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <playlist> <name>",
		Short: "Rename a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlaylistRename, err))
			}
			if err := a.lib.RenamePlaylist(p.ID, args[1]); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistRename, p.Name, err))
			}
			a.changed()
			a.printf("Renamed %s to %s\n", p.Name, args[1])
			return nil
		},
	}
}

func playlistAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <playlist> <song...>",
		Short: "Append songs to a playlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlaylistAddTrack, err))
			}
			songs, err := a.findSongs(args[1:])
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistAddTrack, p.Name, err))
			}
			if err := a.lib.AddToPlaylist(p.ID, songs...); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistAddTrack, p.Name, err))
			}
			a.changed()
			a.printf("Added %d songs to %s\n", len(songs), p.Name)
			return nil
		},
	}
}

func playlistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <playlist> <position>",
		Short: "Remove the song at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlaylistRemove, err))
			}
			i, err := parsePosition(args[1])
			if err == nil {
				err = checkPosition(i, p.Len())
			}
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistRemove, p.Name, err))
			}
			if err := a.lib.RemoveFromPlaylist(p.ID, i); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistRemove, p.Name, err))
			}
			a.changed()
			a.printf("Removed position %d from %s\n", i+1, p.Name)
			return nil
		},
	}
}

func playlistMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <playlist> <from> <to>",
		Short: "Move a song to another position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpPlaylistMove, err))
			}
			from, err := parsePosition(args[1])
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistMove, p.Name, err))
			}
			to, err := parsePosition(args[2])
			if err == nil {
				err = errors.Join(checkPosition(from, p.Len()), checkPosition(to, p.Len()))
			}
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistMove, p.Name, err))
			}
			if err := a.lib.MoveInPlaylist(p.ID, from, to); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpPlaylistMove, p.Name, err))
			}
			a.changed()
			a.printf("Moved %d to %d in %s\n", from+1, to+1, p.Name)
			return nil
		},
	}
}
