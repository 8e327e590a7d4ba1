package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"newsreel/internal/manifest"
	"newsreel/internal/services"
)

// ParseScenes reads a scene script: one beat per line, blank lines and
// lines starting with # ignored. Scene indexes follow input order.
func ParseScenes(r io.Reader) ([]manifest.Scene, error) {
	var scenes []manifest.Scene
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		scenes = append(scenes, manifest.Scene{Index: len(scenes), Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scene script: %w", err)
	}
	if len(scenes) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "parse scenes", "scene script contains no beats", nil)
	}
	return scenes, nil
}

// LoadScenes parses a scene script file.
func LoadScenes(path string) ([]manifest.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene script: %w", err)
	}
	defer file.Close()
	return ParseScenes(file)
}
