package resolve

import (
	"path/filepath"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/catalog"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/imagefile"
)

// Status classifies the outcome of resolving one stem.
type Status string

const (
	StatusMatched   Status = "matched"
	StatusAmbiguous Status = "ambiguous"
	StatusNotFound  Status = "not-found"
)

// Action states what the write phase should do for a matched stem.
type Action string

const (
	// ActionWriteExisting updates the metadata of Target in place.
	ActionWriteExisting Action = "write-existing"
	// ActionCreateSidecar creates Target as a new sidecar derived from Anchor.
	ActionCreateSidecar Action = "create-sidecar"
	// ActionNone accompanies ambiguous and not-found outcomes.
	ActionNone Action = "none"
)

// Ambiguity reasons. These appear verbatim in reports.
const (
	ReasonMultipleSidecars  = "multiple sidecar files for stem"
	ReasonMultipleWritables = "multiple writable targets for stem"
	ReasonRawsSpanDirs      = "raw files for stem span multiple directories"
)

// Outcome is the resolution decision for one stem. Target is set only for
// matched outcomes and is never a raw file. Anchor is the raw file a new
// sidecar derives from. Candidates lists the paths behind an ambiguity.
type Outcome struct {
	Status     Status
	Action     Action
	Target     string
	Anchor     string
	Reason     string
	Candidates []string
}

// Resolve applies the target-selection policy to the catalogued files for a
// stem. The files slice is expected in lexicographic path order, as the
// catalog produces it; the first raw file in that order anchors a new
// sidecar when several raws share a directory.
func Resolve(stem string, files []catalog.File) Outcome {
	if len(files) == 0 {
		return Outcome{Status: StatusNotFound, Action: ActionNone}
	}

	var raws, writables, sidecars []catalog.File
	for _, f := range files {
		switch f.Class {
		case imagefile.ClassRaw:
			raws = append(raws, f)
		case imagefile.ClassWritable:
			writables = append(writables, f)
		case imagefile.ClassSidecar:
			sidecars = append(sidecars, f)
		}
	}

	switch {
	case len(sidecars) == 1:
		return Outcome{
			Status: StatusMatched,
			Action: ActionWriteExisting,
			Target: sidecars[0].Path,
		}
	case len(sidecars) > 1:
		return Outcome{
			Status:     StatusAmbiguous,
			Action:     ActionNone,
			Reason:     ReasonMultipleSidecars,
			Candidates: paths(sidecars),
		}
	}

	switch {
	case len(writables) == 1:
		return Outcome{
			Status: StatusMatched,
			Action: ActionWriteExisting,
			Target: writables[0].Path,
		}
	case len(writables) > 1:
		return Outcome{
			Status:     StatusAmbiguous,
			Action:     ActionNone,
			Reason:     ReasonMultipleWritables,
			Candidates: paths(writables),
		}
	}

	if len(raws) > 0 {
		dir := filepath.Dir(raws[0].Path)
		for _, f := range raws[1:] {
			if filepath.Dir(f.Path) != dir {
				return Outcome{
					Status:     StatusAmbiguous,
					Action:     ActionNone,
					Reason:     ReasonRawsSpanDirs,
					Candidates: paths(raws),
				}
			}
		}
		return Outcome{
			Status: StatusMatched,
			Action: ActionCreateSidecar,
			Target: filepath.Join(dir, imagefile.SidecarName(stem)),
			Anchor: raws[0].Path,
		}
	}

	return Outcome{Status: StatusNotFound, Action: ActionNone}
}

func paths(files []catalog.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
