// Package snapshot holds helpers shared by snapshot stores.
package snapshot

import (
	"sort"

	"github.com/viant/kproc/model/proc"
)

// Sort orders snapshots by tick, then by time taken.
func Sort(snapshots []*proc.Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].Ticks != snapshots[j].Ticks {
			return snapshots[i].Ticks < snapshots[j].Ticks
		}
		return snapshots[i].TakenAt.Before(snapshots[j].TakenAt)
	})
}
