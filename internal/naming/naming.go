// Package naming assigns sequential output filenames of the form
// prefix_NNN.ext, scanning the output directory for the highest number
// already taken.
package naming

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// NextNumber returns the sequence number the next output should use: one
// past the highest matching file in dir, or 1 when none match or the
// directory cannot be read. Concurrent writers may race for the same
// number; the last render wins the name.
func NextNumber(dir, prefix, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}

	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `.*_(\d{3})\.` + regexp.QuoteMeta(ext) + `$`)
	max := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// Format builds the filename for a given sequence number.
func Format(prefix string, n int, ext string) string {
	return fmt.Sprintf("%s_%03d.%s", prefix, n, ext)
}
