package experiment

import "hash/crc32"

// AssignByWeight deterministically maps an identifier to a group in
// proportion to the configured weights. The same (identifier, salt) pair
// yields the same group on every call and across process restarts.
//
// The CRC-32 checksum of identifier+salt is reduced to a percentage in
// [1,100], then matched against the cumulative weights in declaration order.
// Malformed weights that never cover the drawn percentage fall back to the
// first declared group.
func AssignByWeight(identifier string, groups []Group, salt string) string {
	if len(groups) == 0 {
		return ""
	}

	hash := crc32.ChecksumIEEE([]byte(identifier + salt))
	percentage := int(hash%100) + 1

	cumulative := 0
	for _, g := range groups {
		if g.Weight > 0 {
			cumulative += g.Weight
		}
		if percentage <= cumulative {
			return g.Name
		}
	}
	return groups[0].Name
}
