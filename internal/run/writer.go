package run

import (
	"bufio"
	"fmt"
	"os"
)

// WriteFile serializes results to path in ascending qid order, truncating any
// existing file. The skip-if-exists decision happens before this is called.
func WriteFile(path string, results *Results) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create run file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close run file %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, qid := range results.IDs() {
		block, _ := results.Get(qid)
		if _, err := w.WriteString(block); err != nil {
			return fmt.Errorf("write run file %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush run file %s: %w", path, err)
	}
	return nil
}
