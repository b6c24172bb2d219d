package board

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idMu    sync.Mutex
	entropy io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptorand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// monotonic: reports built in the same millisecond still sort in order
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// newID returns a time-sortable report identifier.
func newID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String()
}
