package trainer

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/substrbayes/nbclass/app/storage"
)

// FileUpdater represents a file of learned samples that can be appended to and cleaned from.
// this is a helper for dynamic reloading of samples used by Trainer
type FileUpdater struct {
	fileName string
}

// NewFileUpdater creates a new FileUpdater
func NewFileUpdater(fileName string) *FileUpdater {
	return &FileUpdater{fileName: fileName}
}

// Append a message to the file, preventing duplicates
func (f *FileUpdater) Append(msg string) error {
	msg = strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
	lines, err := f.lines()
	if err != nil {
		return err
	}
	for _, line := range lines {
		// if a line matches the message, return right away
		if strings.EqualFold(strings.TrimSpace(line), msg) {
			return nil
		}
	}

	fh, err := os.OpenFile(f.fileName, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644) //nolint:gosec // keep it readable by all
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.fileName, err)
	}
	defer fh.Close()

	if _, err = fh.WriteString(msg + "\n"); err != nil {
		return fmt.Errorf("failed to write to %s: %w", f.fileName, err)
	}
	return nil
}

// Remove all occurrences of a message from the file
func (f *FileUpdater) Remove(msg string) error {
	msg = strings.TrimSpace(msg)
	lines, err := f.lines()
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != msg {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return fmt.Errorf("%w: %q in %s", storage.ErrSampleNotFound, msg, f.fileName)
	}

	fh, err := os.Create(f.fileName)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", f.fileName, err)
	}
	defer fh.Close()
	for _, line := range kept {
		if _, err := fh.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write to %s: %w", f.fileName, err)
		}
	}
	return nil
}

// lines returns all lines of the file, missing file has no lines
func (f *FileUpdater) lines() ([]string, error) {
	fh, err := os.Open(f.fileName)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.fileName, err)
	}
	defer fh.Close()

	res := []string{}
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		res = append(res, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.fileName, err)
	}
	return res, nil
}
