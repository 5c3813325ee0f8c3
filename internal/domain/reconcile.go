package domain

import "time"

// Reconciliation is the outcome of reconciling one network's entries
type Reconciliation struct {
	// Live holds the visible devices, in the order they were stored
	Live []Device
	// Stale holds identities to remove from the store
	Stale []string
}

// Reconcile reduces the entries stored for one network to the devices that
// are still visible at now, and collects every entry that should be evicted.
//
// An entry is evicted when its score is malformed, when it is older than
// window, or when another entry with the same name has a later LastSeen.
// Between same-named entries with equal LastSeen the earlier one is kept.
func Reconcile(entries []Entry, now time.Time, window time.Duration) Reconciliation {
	if window <= 0 {
		window = FreshnessWindow
	}
	cutoff := now.UnixMilli() - window.Milliseconds()

	var stale []string

	fresh := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Valid || e.LastSeen < cutoff {
			stale = append(stale, e.Key)
			continue
		}
		fresh = append(fresh, e)
	}

	// Index into fresh of the newest entry per name
	best := make(map[string]int, len(fresh))
	for i, e := range fresh {
		j, seen := best[e.Name]
		if !seen || e.LastSeen > fresh[j].LastSeen {
			best[e.Name] = i
		}
	}

	live := make([]Device, 0, len(best))
	liveKeys := make(map[string]struct{}, len(best))
	for i, e := range fresh {
		if best[e.Name] == i {
			live = append(live, e.Device())
			liveKeys[e.Key] = struct{}{}
			continue
		}
		stale = append(stale, e.Key)
	}

	return Reconciliation{
		Live:  live,
		Stale: dedupeStale(stale, liveKeys),
	}
}

// dedupeStale drops repeated identities and any identity that is also live,
// since removing it from the store would take the live entry with it.
func dedupeStale(stale []string, live map[string]struct{}) []string {
	if len(stale) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(stale))
	out := make([]string, 0, len(stale))
	for _, key := range stale {
		if _, ok := live[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
