package detect

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/soocke/car-ar-go/assets"
)

// unusedLabel marks class ids the model never emits.
const unusedLabel = "-"

// Labels maps SSD class ids to class names.
type Labels []string

// ParseLabels reads one class name per line. Blank lines and lines starting
// with '#' are skipped.
func ParseLabels(r io.Reader) (Labels, error) {
	var out Labels
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("read labels: empty table")
	}
	return out, nil
}

// Name returns the class name for id and false for unknown or unused ids.
func (l Labels) Name(id int) (string, bool) {
	if id < 0 || id >= len(l) {
		return "", false
	}
	name := l[id]
	if name == unusedLabel || name == "" {
		return "", false
	}
	return name, true
}

var (
	cocoOnce   sync.Once
	cocoLabels Labels
)

// COCO returns the embedded COCO label table.
func COCO() Labels {
	cocoOnce.Do(func() {
		l, err := ParseLabels(bytes.NewReader(assets.COCOLabels))
		if err != nil {
			panic(fmt.Sprintf("embedded coco labels: %v", err))
		}
		cocoLabels = l
	})
	return cocoLabels
}
