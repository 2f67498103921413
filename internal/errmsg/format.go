// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryScan   Op = "scan library"
	OpLibraryLoad   Op = "load library"
	OpLibrarySave   Op = "save library"
	OpLibraryEdit   Op = "edit song"
	OpLibraryDelete Op = "delete song from library"
	OpLibrarySearch Op = "search library"

	// Import/export
	OpImportFile Op = "import library file"
	OpExportFile Op = "export library file"

	// Playlist operations
	OpPlaylistCreate   Op = "create playlist"
	OpPlaylistRename   Op = "rename playlist"
	OpPlaylistDelete   Op = "delete playlist"
	OpPlaylistAddTrack Op = "add song to playlist"
	OpPlaylistRemove   Op = "remove song from playlist"
	OpPlaylistMove     Op = "move playlist item"

	// Collection operations
	OpCollectionCreate  Op = "create collection"
	OpCollectionDelete  Op = "delete collection"
	OpSectionAdd        Op = "add section"
	OpSectionDelete     Op = "delete section"
	OpSectionUpdate     Op = "update section"
	OpSectionAddTrack   Op = "add song to section"
	OpSectionRemoveSong Op = "remove song from section"

	// Queue operations
	OpQueueAdd Op = "add to queue"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackNext  Op = "skip to next song"
	OpPlaybackPrev  Op = "go back to previous song"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpStateOpen  Op = "open state store"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
