package store

import (
	"hash/fnv"
	"regexp"
	"strconv"
)

// Job handles are opaque strings of the form job_<unixmilli>_<suffix>,
// but the durable tier is keyed by BIGINT. NumericKey is the single
// translation used by both the write and read paths; it must stay
// stable across process restarts.
var jobIDPattern = regexp.MustCompile(`^job_(\d+)`)

// NumericKey maps a job handle to its durable-tier key: the leading
// timestamp segment when the handle carries one, otherwise a stable
// FNV-1a hash of the whole string.
func NumericKey(id string) int64 {
	if m := jobIDPattern.FindStringSubmatch(id); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return n
		}
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}
