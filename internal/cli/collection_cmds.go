package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/setlist/internal/collection"
	"github.com/llehouerou/setlist/internal/errmsg"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/render"
)

func collectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Manage collections and their sections",
		Long:    "A collection is an ordered list of sections played back to back. Collections and sections are referenced by id or by name.",
	}
	cmd.AddCommand(
		collectionListCmd(),
		collectionShowCmd(),
		collectionCreateCmd(),
		collectionDeleteCmd(),
		sectionAddCmd(),
		sectionRemoveCmd(),
		sectionShuffleCmd(),
		sectionSetPlaylistCmd(),
		sectionAutoFillCmd(),
		sectionAddSongCmd(),
		sectionRemoveSongCmd(),
	)
	return cmd
}

// updateSection applies fn to one section of the collection named by
// args[0] and args[1], then saves.
func (a *App) updateSection(op errmsg.Op, args []string,
	fn func(c library.Collection, sec library.Section) (library.Collection, bool),
) (library.Collection, library.Section, error) {
	c, err := a.findCollection(args[0])
	if err != nil {
		return c, library.Section{}, errors.New(errmsg.Format(op, err))
	}
	sec, err := findSection(c, args[1])
	if err != nil {
		return c, sec, errors.New(errmsg.FormatWith(op, c.Name, err))
	}
	err = a.lib.UpdateCollection(c.ID, func(c library.Collection) (library.Collection, bool) {
		return fn(c, sec)
	})
	if err != nil {
		return c, sec, errors.New(errmsg.FormatWith(op, c.Name, err))
	}
	a.changed()
	updated, _ := a.lib.Collection(c.ID)
	return updated, sec, nil
}

func collectionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			cols := a.lib.Collections()
			if len(cols) == 0 {
				a.printf("%s\n", render.S().Muted.Render("No collections"))
				return nil
			}
			for _, c := range cols {
				a.printf("%s  %s\n", render.Sanitize(c.Name), render.S().Muted.Render(sectionCount(len(c.Sections))))
			}
			return nil
		},
	}
}

func sectionCount(n int) string {
	if n == 1 {
		return "1 section"
	}
	return strconv.Itoa(n) + " sections"
}

func collectionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection>",
		Short: "Show a collection's sections and how many songs each can play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			c, err := a.findCollection(args[0])
			if err != nil {
				return err
			}
			resolved := collection.Resolve(c, a.lib.Songs(), nil)
			playable := make([][]library.Song, len(resolved.Sections))
			for i, sec := range resolved.Sections {
				playable[i] = sec.Songs()
			}
			a.printf("%s", render.CollectionTree(c, playable))
			return nil
		},
	}
}

func collectionCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if strings.TrimSpace(args[0]) == "" {
				return errors.New(errmsg.Format(errmsg.OpCollectionCreate, errors.New("name is empty")))
			}
			c := a.lib.CreateCollection(args[0])
			a.changed()
			a.printf("Created collection %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
}

func collectionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			c, err := a.findCollection(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpCollectionDelete, err))
			}
			if err := a.lib.DeleteCollection(c.ID); err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpCollectionDelete, c.Name, err))
			}
			a.changed()
			a.printf("Deleted collection %s\n", c.Name)
			return nil
		},
	}
}

func sectionAddCmd() *cobra.Command {
	var (
		playlist string
		autoFill bool
		shuffled bool
	)
	cmd := &cobra.Command{
		Use:   "add-section <collection> <name>",
		Short: "Append a section",
		Long:  "Add-section appends a playlist section, optionally attached to a copy of an existing playlist, or an auto-fill section with --auto-fill.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			c, err := a.findCollection(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpSectionAdd, err))
			}
			if autoFill && playlist != "" {
				return errors.New(errmsg.FormatWith(errmsg.OpSectionAdd, c.Name,
					errors.New("--auto-fill and --playlist are exclusive")))
			}

			var sec library.Section
			switch {
			case autoFill:
				sec = library.NewSection(args[1], library.SectionAutoFill, nil)
			case playlist != "":
				p, err := a.findPlaylist(playlist)
				if err != nil {
					return errors.New(errmsg.FormatWith(errmsg.OpSectionAdd, c.Name, err))
				}
				sec = library.NewSection(args[1], library.SectionPlaylist, &p)
			default:
				sec = library.NewSection(args[1], library.SectionPlaylist, nil)
			}
			sec.Shuffle = shuffled

			err = a.lib.UpdateCollection(c.ID, func(c library.Collection) (library.Collection, bool) {
				return c.WithSection(sec), true
			})
			if err != nil {
				return errors.New(errmsg.FormatWith(errmsg.OpSectionAdd, c.Name, err))
			}
			a.changed()
			a.printf("Added section %s (%s) to %s\n", sec.Name, sec.ID, c.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&playlist, "playlist", "", "attach a copy of this playlist")
	cmd.Flags().BoolVar(&autoFill, "auto-fill", false, "create an auto-fill section")
	cmd.Flags().BoolVar(&shuffled, "shuffle", false, "shuffle the section on every play")
	return cmd
}

func sectionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-section <collection> <section>",
		Short: "Remove a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			c, sec, err := a.updateSection(errmsg.OpSectionDelete, args,
				func(c library.Collection, sec library.Section) (library.Collection, bool) {
					return c.WithoutSection(sec.ID), true
				})
			if err != nil {
				return err
			}
			a.printf("Removed section %s from %s\n", sec.Name, c.Name)
			return nil
		},
	}
}

func sectionShuffleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle <collection> <section>",
		Short: "Toggle shuffle on a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			c, sec, err := a.updateSection(errmsg.OpSectionUpdate, args,
				func(c library.Collection, sec library.Section) (library.Collection, bool) {
					return c.ToggleSectionShuffle(sec.ID)
				})
			if err != nil {
				return err
			}
			on := "off"
			if c.Sections[c.SectionIndex(sec.ID)].Shuffle {
				on = "on"
			}
			a.printf("Shuffle %s for %s\n", on, sec.Name)
			return nil
		},
	}
}

func sectionSetPlaylistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-playlist <collection> <section> <playlist>",
		Short: "Attach a copy of a playlist to a section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := a.findPlaylist(args[2])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpSectionUpdate, err))
			}
			_, sec, err := a.updateSection(errmsg.OpSectionUpdate, args,
				func(c library.Collection, sec library.Section) (library.Collection, bool) {
					return c.SetSectionPlaylist(sec.ID, p)
				})
			if err != nil {
				return err
			}
			a.printf("Section %s now plays %s\n", sec.Name, p.Name)
			return nil
		},
	}
}

func sectionAutoFillCmd() *cobra.Command {
	var (
		minLength int
		maxLength int
		target    int
		tags      []string
	)
	cmd := &cobra.Command{
		Use:   "auto-fill <collection> <section>",
		Short: "Set the constraints of an auto-fill section",
		Long:  "Auto-fill stores selection constraints on a section. The constraints are kept and exported; no selection is run on them.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			flags := cmd.Flags()
			cfg := library.AutoFillConfig{Tags: tags}
			if flags.Changed("min") {
				cfg.MinLength = &minLength
			}
			if flags.Changed("max") {
				cfg.MaxLength = &maxLength
			}
			if flags.Changed("target") {
				cfg.TargetDuration = &target
			}
			_, sec, err := a.updateSection(errmsg.OpSectionUpdate, args,
				func(c library.Collection, sec library.Section) (library.Collection, bool) {
					return c.SetAutoFill(sec.ID, cfg)
				})
			if err != nil {
				return err
			}
			a.printf("Updated auto-fill of %s\n", sec.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&minLength, "min", 0, "minimum number of songs")
	f.IntVar(&maxLength, "max", 0, "maximum number of songs")
	f.IntVar(&target, "target", 0, "target duration in seconds")
	f.StringSliceVar(&tags, "tags", nil, "tags to select on")
	return cmd
}

func sectionAddSongCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-song <collection> <section> <song...>",
		Short: "Append songs to a section",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			songs, err := a.findSongs(args[2:])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpSectionAddTrack, err))
			}
			_, sec, err := a.updateSection(errmsg.OpSectionAddTrack, args,
				func(c library.Collection, sec library.Section) (library.Collection, bool) {
					ok := true
					for _, s := range songs {
						var found bool
						c, found = c.AddSongToSection(sec.ID, s)
						ok = ok && found
					}
					return c, ok
				})
			if err != nil {
				return err
			}
			a.printf("Added %d songs to %s\n", len(songs), sec.Name)
			return nil
		},
	}
}

func sectionRemoveSongCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-song <collection> <section> <song-id>",
		Short: "Remove a song from a section by id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			id := library.ParseID(args[2])
			_, sec, err := a.updateSection(errmsg.OpSectionRemoveSong, args,
				func(c library.Collection, sec library.Section) (library.Collection, bool) {
					return c.RemoveSongFromSection(sec.ID, id)
				})
			if err != nil {
				return err
			}
			a.printf("Removed %s from %s\n", id, sec.Name)
			return nil
		},
	}
}
