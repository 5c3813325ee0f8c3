package domain

import "strconv"

// ParseEntries decodes raw store members into entries, preserving order
func ParseEntries(raw []RawEntry) []Entry {
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		entries = append(entries, parseEntry(i, r.Member, r.Score))
	}
	return entries
}

// ParseFlat decodes the flat member, score, member, score... layout of a
// WITHSCORES range reply. A trailing member with no score is malformed.
func ParseFlat(flat []string) []Entry {
	entries := make([]Entry, 0, (len(flat)+1)/2)
	for i := 0; i < len(flat); i += 2 {
		score := ""
		if i+1 < len(flat) {
			score = flat[i+1]
		}
		entries = append(entries, parseEntry(len(entries), flat[i], score))
	}
	return entries
}

func parseEntry(id int, member, score string) Entry {
	name, address := SplitIdentity(member)
	lastSeen, err := strconv.ParseInt(score, 10, 64)
	if err != nil {
		lastSeen = 0
	}
	return Entry{
		Key:      member,
		ID:       id,
		Name:     name,
		Address:  address,
		LastSeen: lastSeen,
		Valid:    err == nil,
	}
}
