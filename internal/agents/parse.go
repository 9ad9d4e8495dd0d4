package agents

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

// Rand is the single randomness source for the interview flow (follow-up
// counts, injection cadence, phrasing picks). Injecting it keeps scheduling
// decisions reproducible under a fixed seed.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Intn(n)
}

// parseListLines extracts numbered or bulleted items from free-form model
// output, stripping ordinal and bullet markers. Items at or below minLen
// bytes are discarded as noise.
func parseListLines(raw string, minLen int) []string {
	var items []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first := rune(line[0])
		if !(first >= '0' && first <= '9') && !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") {
			continue
		}
		item := line
		if i := strings.Index(item, "."); i >= 0 && i < 4 {
			item = item[i+1:]
		}
		item = strings.TrimLeft(item, "-• \t")
		item = strings.TrimSpace(item)
		if len(item) > minLen {
			items = append(items, item)
		}
	}
	return items
}

// parseScore extracts the numeric score from a "7/10 - explanation" style
// string. Malformed input reports ok=false instead of failing.
func parseScore(s string) (float64, bool) {
	left, _, found := strings.Cut(s, "/")
	if !found {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
