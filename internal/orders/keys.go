package orders

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// KeyFunc produces a line key.
type KeyFunc func() string

// NewLineKey concatenates the current unix milliseconds in base36 with six
// random base36 characters. Keys are unique in practice, not guaranteed.
func NewLineKey() string {
	return lineKeyAt(time.Now())
}

func lineKeyAt(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + string(suffix)
}
