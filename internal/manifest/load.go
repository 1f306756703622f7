package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/mvfslib/mvfs"
	"github.com/mvfslib/mvfs/internal/util"
)

// Load parses a JSON array of Entry values.
func Load(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return entries, nil
}

// Result tallies how many entries of each kind Apply created.
type Result struct {
	FoldersCreated int
	FilesCreated   int
}

// Apply creates each entry's folder or file under root, synthesizing
// missing ancestor folders along the way. Grounded on cmd/main.go's
// AddDirNode/AddFileNode dispatch loop: a single bad entry is logged and
// skipped rather than aborting the whole batch.
func Apply(root *mvfs.Folder, entries []Entry) Result {
	logger := util.GetLogger("manifest.Apply")

	var result Result
	for _, e := range entries {
		switch e.Type {
		case FolderEntry:
			if _, err := root.CreateFolder(mvfs.ParsePath(e.Path), true); err != nil {
				logger.Warn().Str("path", e.Path).Err(err).Msg("failed to create folder entry")
				continue
			}
			result.FoldersCreated++

		case FileEntry:
			file, err := root.CreateFile(mvfs.ParsePath(e.Path), true)
			if err != nil {
				logger.Warn().Str("path", e.Path).Err(err).Msg("failed to create file entry")
				continue
			}
			if e.Content != nil {
				file.Write([]byte(*e.Content))
			}
			result.FilesCreated++

		default:
			logger.Warn().Str("path", e.Path).Str("type", string(e.Type)).Msg("unknown manifest entry type")
		}
	}

	logger.Info().
		Int("folders", result.FoldersCreated).
		Int("files", result.FilesCreated).
		Msg("applied manifest")
	return result
}

// LoadAndApply combines Load and Apply — the convenience cmd/mvfsdemo uses
// to turn a manifest file straight into tree contents.
func LoadAndApply(root *mvfs.Folder, data []byte) (Result, error) {
	entries, err := Load(data)
	if err != nil {
		return Result{}, err
	}
	return Apply(root, entries), nil
}
