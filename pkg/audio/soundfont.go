package audio

import (
	"bytes"
	"fmt"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/twinscript/pkg/fileutil"
)

// DefaultSoundFontName is looked up when no SoundFont is configured.
const DefaultSoundFontName = "GeneralUser-GS.sf2"

// LoadSoundFont reads and parses a SoundFont through fsys.
func LoadSoundFont(fsys fileutil.FileSystem, path string) (*meltysynth.SoundFont, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSoundFontNotFound, path)
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SoundFont: %w", err)
	}
	return sf, nil
}
