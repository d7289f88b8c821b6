package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// maxParamsLen bounds key length: longer canonical param strings are
// collapsed to a content hash, which stays deterministic for equal inputs.
const maxParamsLen = 100

// Key builds a cache key from a logical prefix and request parameters.
// Parameters are sorted by name and joined as key=value pairs so that
// semantically equivalent requests map to the same entry. Empty values are
// dropped.
func Key(prefix string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return prefix
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}

	joined := strings.Join(pairs, ":")
	if len(joined) > maxParamsLen {
		sum := md5.Sum([]byte(joined))
		joined = hex.EncodeToString(sum[:])
	}

	return prefix + ":" + joined
}

// RoundCoord rounds a coordinate to 2 decimal places (~1 km) so nearby
// queries from almost the same position share a cache entry.
func RoundCoord(value float64) string {
	return strconv.FormatFloat(round2(value), 'f', -1, 64)
}

func round2(value float64) float64 {
	if value < 0 {
		return float64(int64(value*100-0.5)) / 100
	}
	return float64(int64(value*100+0.5)) / 100
}
