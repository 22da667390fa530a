package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		exit *time.Time
		want Category
	}{
		{"no exit signal", nil, CategoryOnTime},
		{"exit well ahead", ts(now.Add(2 * time.Hour)), CategoryOnTime},
		{"exit just past window", ts(now.Add(31 * time.Minute)), CategoryOnTime},
		{"exit exactly at window", ts(now.Add(30 * time.Minute)), CategoryApproachingExit},
		{"exit soon", ts(now.Add(10 * time.Minute)), CategoryApproachingExit},
		{"exit right now", ts(now), CategoryOverstay},
		{"exit passed", ts(now.Add(-5 * time.Minute)), CategoryOverstay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(now, tt.exit))
		})
	}
}

func TestExpectedExitPrecedence(t *testing.T) {
	validTo := time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)
	override := validTo.Add(-time.Hour)

	// The validity window wins when both signals are present.
	got := ExpectedExit(PassSnapshot{ValidTo: &validTo, ExpectedExit: &override})
	require.NotNil(t, got)
	assert.Equal(t, validTo, *got)

	// The explicit exit time is the fallback.
	got = ExpectedExit(PassSnapshot{ExpectedExit: &override})
	require.NotNil(t, got)
	assert.Equal(t, override, *got)

	assert.Nil(t, ExpectedExit(PassSnapshot{}))
}

func TestComputeEmptySnapshot(t *testing.T) {
	now := time.Now().UTC()
	report := Compute(now, nil)

	assert.Equal(t, now, report.GeneratedAt)
	require.NotNil(t, report.Buildings)
	assert.Empty(t, report.Buildings)
}

func TestComputeBucketsAndGrouping(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	passes := []PassSnapshot{
		{ID: 1, VisitorName: "Dana", Building: "A", ValidTo: ts(now.Add(10 * time.Minute))},
		{ID: 2, VisitorName: "Eli", Building: "A", ValidTo: ts(now.Add(-5 * time.Minute))},
		{ID: 3, VisitorName: "Noor", Building: "B"},
	}

	report := Compute(now, passes)
	require.Len(t, report.Buildings, 2)

	a := report.Buildings[0]
	assert.Equal(t, "A", a.Building)
	assert.Equal(t, 2, a.Total)
	assert.Equal(t, 0, a.OnTime)
	assert.Equal(t, 1, a.ApproachingExit)
	assert.Equal(t, 1, a.Overstay)
	require.Len(t, a.Visitors, 2)
	assert.Equal(t, CategoryApproachingExit, a.Visitors[0].Category)
	assert.Equal(t, CategoryOverstay, a.Visitors[1].Category)

	b := report.Buildings[1]
	assert.Equal(t, "B", b.Building)
	assert.Equal(t, 1, b.Total)
	assert.Equal(t, 1, b.OnTime)
	assert.Equal(t, CategoryOnTime, b.Visitors[0].Category)
	assert.Nil(t, b.Visitors[0].ExpectedExit)
}

func TestComputeUnknownBuilding(t *testing.T) {
	now := time.Now().UTC()
	report := Compute(now, []PassSnapshot{{ID: 7, VisitorName: "Sam"}})

	require.Len(t, report.Buildings, 1)
	assert.Equal(t, UnknownBuilding, report.Buildings[0].Building)
}

func TestComputeFirstSeenOrder(t *testing.T) {
	now := time.Now().UTC()
	passes := []PassSnapshot{
		{ID: 1, Building: "West"},
		{ID: 2, Building: "East"},
		{ID: 3, Building: "West"},
		{ID: 4, Building: ""},
		{ID: 5, Building: "East"},
	}

	report := Compute(now, passes)
	require.Len(t, report.Buildings, 3)
	assert.Equal(t, "West", report.Buildings[0].Building)
	assert.Equal(t, "East", report.Buildings[1].Building)
	assert.Equal(t, UnknownBuilding, report.Buildings[2].Building)
	assert.Equal(t, 2, report.Buildings[0].Total)
	assert.Equal(t, 2, report.Buildings[1].Total)
}

func TestComputeDetailFields(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	entry := now.Add(-20 * time.Minute)
	exit := now.Add(40 * time.Minute)

	report := Compute(now, []PassSnapshot{{
		ID:          42,
		VisitorName: "Priya",
		Purpose:     "Interview",
		HostName:    "R. Alvarez",
		Building:    "HQ",
		EntryTime:   &entry,
		ValidTo:     &exit,
	}})

	require.Len(t, report.Buildings, 1)
	require.Len(t, report.Buildings[0].Visitors, 1)
	v := report.Buildings[0].Visitors[0]
	assert.Equal(t, uint64(42), v.ID)
	assert.Equal(t, "Priya", v.Name)
	assert.Equal(t, "Interview", v.Purpose)
	assert.Equal(t, "R. Alvarez", v.Host)
	assert.Equal(t, entry, *v.EntryTime)
	assert.Equal(t, exit, *v.ExpectedExit)
	assert.Equal(t, CategoryOnTime, v.Category)
}
