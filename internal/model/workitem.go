package model

// WorkItem is a pending copy of one source file into a destination folder.
// Items are immutable once created: the classifier builds them and the
// transfer engine consumes each exactly once.
type WorkItem struct {
	// SourcePath is the absolute path of the file to copy.
	SourcePath string

	// DestFolder is the absolute path of the directory the file belongs in.
	// The folder may not exist yet; the engine creates it on demand.
	DestFolder string
}
