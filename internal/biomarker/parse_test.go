package biomarker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

func TestBloodPressureSplit(t *testing.T) {
	sys, dia, ok := BloodPressure("138/88")
	require.True(t, ok)
	assert.Equal(t, 138, sys)
	assert.Equal(t, 88, dia)

	_, _, ok = BloodPressure("138")
	assert.False(t, ok)
}

func TestNumericPrefixes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"75kg", 75, true},
		{"71.5kg", 71.5, true},
		{"6.2 hours", 6.2, true},
		{"  78 bpm", 78, true},
		{"kg", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := Float(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		} else {
			assert.True(t, math.IsNaN(got), tt.in)
		}
	}

	v, ok := Int("72.5")
	assert.True(t, ok)
	assert.Equal(t, 72, v)
}

func TestKilograms(t *testing.T) {
	assert.Equal(t, 75.0, Kilograms("75kg"))
	assert.Equal(t, 0.0, Kilograms("heavy"))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 0.72, Percent("72%"), 1e-9)
	assert.InDelta(t, 0.5, Percent("50%"), 1e-9)
	assert.True(t, math.IsNaN(Percent("high")))
}

func TestReadFallsBackToZeroLiteral(t *testing.T) {
	r := Read(models.Biomarkers{}, Weight)
	assert.Equal(t, "0kg", r.Raw)
	assert.Equal(t, "kg", r.Unit)

	r = Read(models.Biomarkers{models.KeyBloodPressure: "128/82"}, BloodPressureSys)
	assert.True(t, r.Valid)
	assert.Equal(t, 128.0, r.Value)
}

func TestDisplayHelpers(t *testing.T) {
	b := models.Biomarkers{
		models.KeyBloodPressure: "138/88",
		models.KeyWeight:        "75kg",
		models.KeyStressLevel:   "8/10",
	}
	sys, dia := DisplayBloodPressure(b)
	assert.Equal(t, "138", sys)
	assert.Equal(t, "88", dia)
	assert.Equal(t, "75", DisplayWeight(b))
	assert.Equal(t, "8", DisplayStress(b))

	sys, dia = DisplayBloodPressure(nil)
	assert.Equal(t, "--", sys)
	assert.Equal(t, "--", dia)
	assert.Equal(t, "--", DisplayWeight(nil))
}
