package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/loopline/pkg/pipeline"
)

// stdoutPath marks an artifact written to standard output.
const stdoutPath = "-"

// basePath derives the path an output extension is appended to. A known
// format extension on output is dropped; without output the input path
// minus its extension is used.
func basePath(output, input string) string {
	if output == "" {
		if input == stdoutPath {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single
// format read from stdin without -o goes to stdout.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 {
		switch {
		case output != "":
			paths[formats[0]] = output
		case input == stdoutPath:
			paths[formats[0]] = stdoutPath
		default:
			paths[formats[0]] = basePath("", input) + "." + formats[0]
		}
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every requested format and returns the written
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := outputPaths(formats, input, output)
	var written []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s output was produced", f)
		}
		path := paths[f]
		if path == stdoutPath {
			if _, err := os.Stdout.Write(data); err != nil {
				return written, err
			}
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
