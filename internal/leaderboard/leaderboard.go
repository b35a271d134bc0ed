// Package leaderboard ranks finished matches per grid size and persists them as JSON.
package leaderboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxEntries is how many results each grid size keeps.
const MaxEntries = 15

// DateLayout is the day/month/year format used for entry dates.
const DateLayout = "02/01/2006"

type Entry struct {
	Name     string  `json:"name"`
	Shots    int     `json:"shots"`
	Accuracy float64 `json:"accuracy"`
	Date     string  `json:"date,omitempty"`
}

// Leaderboard maps a grid size, as text, to its ranking ordered by ascending shots.
type Leaderboard map[string][]Entry

func Key(size int) string { return strconv.Itoa(size) }

func NewEntry(name string, shots int, accuracy float64, now time.Time) Entry {
	return Entry{Name: name, Shots: shots, Accuracy: accuracy, Date: now.Format(DateLayout)}
}

// Record inserts e into the ranking for size, keeps it sorted by shots (ties keep arrival order)
// and truncated to limit entries. It returns the 1-based rank of e, or 0 if it fell off the list.
func (lb Leaderboard) Record(size int, e Entry, limit int) int {
	if limit <= 0 {
		limit = MaxEntries
	}
	key := Key(size)
	list := append(lb[key], e)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Shots < list[j].Shots })
	if len(list) > limit {
		list = list[:limit]
	}
	lb[key] = list

	rank := 0
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == e {
			rank = i + 1
			break
		}
	}
	return rank
}

// For returns the ranking for size; nil when nobody has won on that grid yet.
func (lb Leaderboard) For(size int) []Entry { return lb[Key(size)] }

// Table renders the ranking for size as a fixed-width text table.
func (lb Leaderboard) Table(size int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n--- LEADERBOARD for %dx%d grid ---\n", size, size)
	fmt.Fprintf(&sb, "%-5s%-18s%-8s%-12s%s\n", "Pos.", "Name", "Shots", "% Hits", "Date")
	sb.WriteString(strings.Repeat("-", 58) + "\n")
	for i, e := range lb.For(size) {
		date := e.Date
		if date == "" {
			date = "N/D"
		}
		fmt.Fprintf(&sb, "%-5s%-18s%-8d%-12s%s\n", strconv.Itoa(i+1)+".", e.Name, e.Shots,
			fmt.Sprintf("%.1f%%", e.Accuracy), date)
	}
	sb.WriteString(strings.Repeat("-", 58) + "\n")
	return sb.String()
}
