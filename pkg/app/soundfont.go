package app

import (
	"os"
	"path/filepath"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/twinscript/pkg/audio"
	"github.com/zurustar/twinscript/pkg/fileutil"
)

// SoundFontLocation represents the location of a SoundFont file.
type SoundFontLocation struct {
	// Path is the file name inside FileSystem
	Path string
	// FileSystem is rooted at the directory holding the file
	FileSystem fileutil.FileSystem
}

// findSoundFont searches for a SoundFont file in the following order:
//  1. The configured path (absolute, or relative to the current directory)
//  2. The configured name inside the scene directory
//  3. audio.DefaultSoundFontName in the scene directory
//  4. audio.DefaultSoundFontName in the current directory
//
// Returns nil if not found.
func findSoundFont(configured, sceneDir string) *SoundFontLocation {
	var candidates []string
	if configured != "" {
		candidates = append(candidates, configured)
		if !filepath.IsAbs(configured) && sceneDir != "" {
			candidates = append(candidates, filepath.Join(sceneDir, configured))
		}
	}
	if sceneDir != "" {
		candidates = append(candidates, filepath.Join(sceneDir, audio.DefaultSoundFontName))
	}
	candidates = append(candidates, audio.DefaultSoundFontName)

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return &SoundFontLocation{
				Path:       filepath.Base(c),
				FileSystem: fileutil.NewRealFS(filepath.Dir(c)),
			}
		}
	}
	return nil
}

// Load parses the SoundFont.
func (l *SoundFontLocation) Load() (*meltysynth.SoundFont, error) {
	return audio.LoadSoundFont(l.FileSystem, l.Path)
}
