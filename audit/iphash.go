// audit/iphash.go
package audit

import (
	"hash/fnv"
	"strconv"
)

// HashIP anonymises a client address with 32-bit FNV-1a. Empty input yields
// nil so the record carries no hash at all.
func HashIP(ip string) *string {
	if ip == "" {
		return nil
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(ip))
	s := strconv.FormatUint(uint64(h.Sum32()), 16)
	return &s
}
