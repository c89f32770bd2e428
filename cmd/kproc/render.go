package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/kproc/model/proc"
)

var header = []string{"PID", "NAME", "STATE", "QUOTA", "SCHED", "COMP", "SLEEP", "SWITCHES"}

// renderTable writes the in-use slots of snapshot.
func renderTable(w io.Writer, snapshot *proc.Snapshot) {
	renderSlots(w, snapshot.InUse())
}

func renderSlots(w io.Writer, stats []proc.Stat) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, st := range stats {
		table.Append(row(st))
	}
	table.Render()
}

func row(st proc.Stat) []string {
	return []string{
		strconv.Itoa(st.PID),
		st.Name,
		st.State.String(),
		strconv.Itoa(st.Timeslice),
		strconv.FormatUint(st.SchedTicks, 10),
		strconv.FormatUint(st.CompTicks, 10),
		strconv.FormatUint(st.SleepTicks, 10),
		strconv.FormatUint(st.Switches, 10),
	}
}

// diffSnapshots returns a unified diff of the two rendered tables.
func diffSnapshots(from, to *proc.Snapshot) (string, error) {
	a, b := new(bytes.Buffer), new(bytes.Buffer)
	renderTable(a, from)
	renderTable(b, to)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a.String()),
		B:        difflib.SplitLines(b.String()),
		FromFile: fmt.Sprintf("%s (tick %d)", from.ID, from.Ticks),
		ToFile:   fmt.Sprintf("%s (tick %d)", to.ID, to.Ticks),
		Context:  1,
	})
}
