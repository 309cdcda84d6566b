package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"horas/internal/core"
)

// Top-N limits of the dashboard views. Zero keeps every category.
const (
	TopPerformers   = 15
	TopClients      = 10
	TopHourTypes    = 8
	TopServiceTypes = 10
	TopFolderGroups = 10
)

// Field selects the category of an entry.
type Field func(core.TimeEntry) string

var (
	ByArea            Field = func(e core.TimeEntry) string { return e.Area }
	ByPerformer       Field = func(e core.TimeEntry) string { return e.Performer }
	ByClient          Field = func(e core.TimeEntry) string { return e.Client }
	ByHourType        Field = func(e core.TimeEntry) string { return e.HourType }
	ByServiceTypeFine Field = func(e core.TimeEntry) string { return e.ServiceTypeFine }
)

// GroupBy sums the measures of entries per category, in order of first appearance.
func GroupBy(entries []core.TimeEntry, field Field) []core.CategoryTotal {
	index := make(map[string]int)
	out := []core.CategoryTotal{}
	for _, e := range entries {
		name := field(e)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, core.CategoryTotal{Name: name})
		}
		out[i].Hours += e.Duration
		out[i].Billed = out[i].Billed.Add(e.Billed)
		out[i].Cost = out[i].Cost.Add(e.Cost)
	}
	return out
}

// TopN sorts totals by hours, descending and stable, and keeps the first n.
// n <= 0 keeps everything. totals is sorted in place.
func TopN(totals []core.CategoryTotal, n int) []core.CategoryTotal {
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Hours > totals[j].Hours })
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

func HoursByArea(entries []core.TimeEntry) []core.CategoryTotal {
	return TopN(GroupBy(entries, ByArea), 0)
}

func HoursByPerformer(entries []core.TimeEntry) []core.CategoryTotal {
	return TopN(GroupBy(entries, ByPerformer), TopPerformers)
}

func HoursByClient(entries []core.TimeEntry) []core.CategoryTotal {
	return TopN(GroupBy(entries, ByClient), TopClients)
}

func HoursByHourType(entries []core.TimeEntry) []core.CategoryTotal {
	return TopN(GroupBy(entries, ByHourType), TopHourTypes)
}

// ServiceTypeBreakdown ranks the fine-grained service types and reports each
// one's share of the totals of all entries, before truncation.
func ServiceTypeBreakdown(entries []core.TimeEntry) []core.CategoryShare {
	totals := ComputeTotals(entries)
	hours := decimal.NewFromFloat(totals.Hours)

	top := TopN(GroupBy(entries, ByServiceTypeFine), TopServiceTypes)
	out := make([]core.CategoryShare, len(top))
	for i, c := range top {
		out[i] = core.CategoryShare{
			CategoryTotal: c,
			HoursPct:      core.Share(decimal.NewFromFloat(c.Hours), hours),
			BilledPct:     core.Share(c.Billed, totals.Billed),
			CostPct:       core.Share(c.Cost, totals.Cost),
		}
	}
	return out
}

// FolderAverages reports the average hours per case folder of each service
// type. Service types are ranked by their number of distinct folders; the
// folder share is taken against the distinct folders of all entries.
func FolderAverages(entries []core.TimeEntry) []core.FolderAverage {
	type group struct {
		hours   float64
		folders map[string]struct{}
	}
	index := make(map[string]int)
	var groups []*group
	var names []string
	all := make(map[string]struct{})

	for _, e := range entries {
		i, ok := index[e.ServiceType]
		if !ok {
			i = len(groups)
			index[e.ServiceType] = i
			groups = append(groups, &group{folders: make(map[string]struct{})})
			names = append(names, e.ServiceType)
		}
		groups[i].hours += e.Duration
		groups[i].folders[e.FolderID] = struct{}{}
		all[e.FolderID] = struct{}{}
	}

	out := make([]core.FolderAverage, len(groups))
	for i, g := range groups {
		n := len(g.folders)
		out[i] = core.FolderAverage{
			ServiceType: names[i],
			Hours:       g.hours,
			Folders:     n,
			AvgHours:    g.hours / float64(n),
			FolderPct:   float64(n) / float64(len(all)) * 100,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Folders > out[j].Folders })
	if len(out) > TopFolderGroups {
		out = out[:TopFolderGroups]
	}
	return out
}
