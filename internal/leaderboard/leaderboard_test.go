package leaderboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRecordOrdersAndTruncates(t *testing.T) {
	lb := Leaderboard{}
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxEntries; i++ {
		lb.Record(8, NewEntry("p", 30+i, 50, day), MaxEntries)
	}
	require.Len(t, lb.For(8), MaxEntries)

	rank := lb.Record(8, NewEntry("new", 31, 60, day), MaxEntries)
	require.Equal(t, 3, rank) // after the existing 30 and 31
	list := lb.For(8)
	require.Len(t, list, MaxEntries)
	require.Equal(t, "new", list[2].Name)
	require.Equal(t, "07/03/2026", list[2].Date)
	require.Equal(t, 30+MaxEntries-2, list[MaxEntries-1].Shots)

	require.Zero(t, lb.Record(8, NewEntry("late", 999, 1, day), MaxEntries))
	require.Len(t, lb.For(8), MaxEntries)
	require.Empty(t, lb.For(10))
}

func TestTable(t *testing.T) {
	lb := Leaderboard{"8": {{Name: "Ada", Shots: 20, Accuracy: 65}, {Name: "AI-BACECE", Shots: 25, Accuracy: 52.04, Date: "01/02/2026"}}}
	out := lb.Table(8)
	require.Contains(t, out, "--- LEADERBOARD for 8x8 grid ---")
	require.Contains(t, out, "1.   Ada               20      65.0%       N/D")
	require.Contains(t, out, "2.   AI-BACECE         25      52.0%       01/02/2026")
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "charts.json")
	s := NewFileStore(path, zerolog.Nop())

	require.Empty(t, s.Load())

	lb := s.Load()
	lb.Record(12, Entry{Name: "Bo", Shots: 40, Accuracy: 42.5, Date: "05/05/2026"}, MaxEntries)
	require.NoError(t, s.Save(lb))

	got, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, lb, got)
}

func TestFileStoreCorruptYieldsEmpty(t *testing.T) {
	cases := map[string]string{
		"syntax":         `{"8": "not a list"`,
		"foreign keys":   `{"8":[{"nome":"Ada","colpi":20,"perc_colpi":55.0,"data":"01/01/2025"}]}`,
		"empty entry":    `{"8":[{}]}`,
		"zero shots":     `{"8":[{"name":"Ada","shots":0,"accuracy":50}]}`,
		"accuracy":       `{"8":[{"name":"Ada","shots":12,"accuracy":150}]}`,
		"size key":       `{"abc":[{"name":"Ada","shots":12,"accuracy":50}]}`,
		"size range":     `{"30":[{"name":"Ada","shots":12,"accuracy":50}]}`,
		"not an object":  `[1, 2, 3]`,
		"entry not list": `{"8": {"name":"Ada"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "charts.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			s := NewFileStore(path, zerolog.Nop())

			_, err := s.Read()
			require.ErrorIs(t, err, ErrCorruptStore)
			require.Equal(t, Leaderboard{}, s.Load())
		})
	}
}

func TestFileStoreAcceptsMissingDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"10":[{"name":"Ada","shots":30,"accuracy":56.7}]}`), 0o644))
	lb, err := NewFileStore(path, zerolog.Nop()).Read()
	require.NoError(t, err)
	require.Equal(t, []Entry{{Name: "Ada", Shots: 30, Accuracy: 56.7}}, lb.For(10))
	require.Contains(t, lb.Table(10), "N/D")
}
