package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

var (
	// ErrUnsupportedInput means the dropped path is neither a directory
	// nor a recognized archive container.
	ErrUnsupportedInput = errors.New("unsupported input: expected a directory or a .zip archive")
	// ErrNoArchiveFound means no data/tweets.js candidate exists under the
	// given root.
	ErrNoArchiveFound = errors.New("no Twitter archive found")
	// ErrTweetsFileMissing means a chosen root lost its tweets file between
	// discovery and resolution.
	ErrTweetsFileMissing = errors.New("archive root is missing its tweets file")
	// ErrExtractionFailed wraps zip extraction failures.
	ErrExtractionFailed = errors.New("archive extraction failed")
)

// tweetsFileNames are accepted record-file names under data/, in preference
// order. Official exports ship tweets.js; some tooling re-saves it as .json.
var tweetsFileNames = []string{"tweets.js", "tweets.json"}

// maxSearchDepth bounds the subtree search below the dropped directory.
const maxSearchDepth = 6

// Resolve locates a usable archive root for the given path. Directories are
// searched for data/tweets.js (directly, then up to maxSearchDepth levels
// down, newest candidate winning); .zip files are extracted into a sibling
// directory named after the file first.
func Resolve(input string) (entities.ArchiveLocation, error) {
	info, err := os.Stat(input)
	if err != nil {
		return entities.ArchiveLocation{}, fmt.Errorf("failed to stat %s: %w", input, err)
	}

	if info.IsDir() {
		return resolveDir(input)
	}

	if strings.EqualFold(filepath.Ext(input), ".zip") {
		dest := strings.TrimSuffix(input, filepath.Ext(input))
		if err := extractZip(input, dest); err != nil {
			return entities.ArchiveLocation{}, err
		}
		return resolveDir(dest)
	}

	return entities.ArchiveLocation{}, fmt.Errorf("%w: %s", ErrUnsupportedInput, input)
}

func resolveDir(dir string) (entities.ArchiveLocation, error) {
	// The dropped directory itself may already be the archive root.
	if name := tweetsFileIn(filepath.Join(dir, "data")); name != "" {
		return locationFor(dir, name)
	}

	root, err := searchRoot(dir)
	if err != nil {
		return entities.ArchiveLocation{}, err
	}

	name := tweetsFileIn(filepath.Join(root, "data"))
	if name == "" {
		return entities.ArchiveLocation{}, fmt.Errorf("%w: %s", ErrTweetsFileMissing, root)
	}
	return locationFor(root, name)
}

// searchRoot walks the subtree looking for <root>/data/tweets.js candidates,
// returning the one whose tweets file was modified most recently.
func searchRoot(dir string) (string, error) {
	var (
		bestRoot string
		bestTime time.Time
	)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep searching
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && strings.Count(rel, string(filepath.Separator)) >= maxSearchDepth {
			return fs.SkipDir
		}
		if d.Name() != "data" {
			return nil
		}
		name := tweetsFileIn(path)
		if name == "" {
			return nil
		}
		info, statErr := os.Stat(filepath.Join(path, name))
		if statErr != nil {
			return nil
		}
		if bestRoot == "" || info.ModTime().After(bestTime) {
			bestRoot = filepath.Dir(path)
			bestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if bestRoot == "" {
		return "", fmt.Errorf("%w under %s", ErrNoArchiveFound, dir)
	}
	return bestRoot, nil
}

func tweetsFileIn(dataDir string) string {
	for _, name := range tweetsFileNames {
		if info, err := os.Stat(filepath.Join(dataDir, name)); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

func locationFor(root, tweetsName string) (entities.ArchiveLocation, error) {
	dataDir := filepath.Join(root, "data")
	return entities.ArchiveLocation{
		Root:        root,
		TweetsPath:  filepath.Join(dataDir, tweetsName),
		AccountPath: filepath.Join(dataDir, "account.js"),
		MediaDir:    filepath.Join(dataDir, "tweets_media"),
	}, nil
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", ErrExtractionFailed, zipPath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", ErrExtractionFailed, destDir, err)
	}

	for _, file := range reader.File {
		destPath := filepath.Join(destDir, file.Name)
		// Reject entries escaping the destination (zip-slip).
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("%w: illegal path %s", ErrExtractionFailed, file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		if err := extractZipFile(file, destPath); err != nil {
			return fmt.Errorf("%w: failed to extract %s: %v", ErrExtractionFailed, file.Name, err)
		}
	}
	return nil
}

func extractZipFile(file *zip.File, destPath string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
