package report

import (
	"fmt"
	"sort"
	"time"
)

// Selection tells how a candidate was chosen.
type Selection string

const (
	// SelectedExact means the candidate belongs to the target window.
	SelectedExact Selection = "exact"
	// SelectedFallback means the window was empty and the newest eligible
	// candidate was used instead.
	SelectedFallback Selection = "fallback"
)

// Select picks the report to upload for a run at now.
//
// Candidates inside the target window win. Among them a daily run prefers the
// most recently modified file, weekly and monthly runs the latest report date.
// Only when the window is empty does Select fall back to the newest report:
// for daily runs restricted to the last DailyFallbackDays days, for weekly and
// monthly runs among all candidates.
func Select(c Cadence, now time.Time, candidates []Candidate) (Candidate, Selection, error) {
	w := Resolve(c, now)

	var inWindow []Candidate
	for _, cand := range candidates {
		if w.Contains(cand.Date) {
			inWindow = append(inWindow, cand)
		}
	}

	if len(inWindow) > 0 {
		if c == Daily {
			return latestModified(inWindow), SelectedExact, nil
		}
		return latestDated(inWindow), SelectedExact, nil
	}

	eligible := candidates
	if c == Daily {
		cutoff := now.AddDate(0, 0, -DailyFallbackDays)
		eligible = nil
		for _, cand := range candidates {
			if !cand.Date.In(now.Location()).Before(cutoff) {
				eligible = append(eligible, cand)
			}
		}
	}
	if len(eligible) == 0 {
		return Candidate{}, "", fmt.Errorf("%w for %s window %s", ErrNoCandidate, c, w)
	}
	return latestDated(eligible), SelectedFallback, nil
}

// Newest returns up to n candidates ordered from the latest report date.
func Newest(candidates []Candidate, n int) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func latestModified(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.ModTime.After(best.ModTime) {
			best = c
		}
	}
	return best
}

func latestDated(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Date.After(best.Date) || (c.Date == best.Date && c.ModTime.After(best.ModTime)) {
			best = c
		}
	}
	return best
}
