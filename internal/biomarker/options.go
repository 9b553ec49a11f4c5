package biomarker

import "github.com/eldtechnologies/journeyboard/internal/models"

// Chart option keys.
const (
	BloodPressureSys = "blood_pressure_sys"
	Weight           = "weight"
	StressLevel      = "stress_level"
	SleepHours       = "sleep_hours"
	Adherence        = "adherence"
	BodyFat          = "body_fat"
	RestingHR        = "resting_hr"
)

// DefaultOption is the chart selection when none is given.
const DefaultOption = BloodPressureSys

type parseMode int

const (
	parseLeadingInt parseMode = iota
	parseLeadingFloat
)

// Option describes a selectable biomarker series.
type Option struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Unit        string `json:"unit"`
	Source      string `json:"source"`
	Zero        string `json:"-"`
	LowerBetter bool   `json:"lower_is_better"`
	parse       parseMode
}

var options = []Option{
	{Key: BloodPressureSys, Label: "Blood Pressure (Systolic)", Unit: "mmHg", Source: models.KeyBloodPressure, Zero: "0/0", LowerBetter: true, parse: parseLeadingInt},
	{Key: Weight, Label: "Weight", Unit: "kg", Source: models.KeyWeight, Zero: "0kg", LowerBetter: true, parse: parseLeadingFloat},
	{Key: StressLevel, Label: "Stress Level", Unit: "/10", Source: models.KeyStressLevel, Zero: "0/10", LowerBetter: true, parse: parseLeadingInt},
	{Key: SleepHours, Label: "Sleep Average", Unit: "hours", Source: models.KeySleepAverage, Zero: "0 hours", parse: parseLeadingFloat},
	{Key: Adherence, Label: "Plan Adherence", Unit: "%", Source: models.KeyAdherence, Zero: "0%", parse: parseLeadingInt},
	{Key: BodyFat, Label: "Body Fat", Unit: "%", Source: models.KeyBodyFat, Zero: "0%", LowerBetter: true, parse: parseLeadingFloat},
	{Key: RestingHR, Label: "Resting Heart Rate", Unit: "bpm", Source: models.KeyRestingHeartRate, Zero: "0 bpm", parse: parseLeadingInt},
}

// Options returns the chart options in display order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Lookup finds an option by key.
func Lookup(key string) (Option, bool) {
	for _, o := range options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// OptionOrDefault returns the option for key, or the first option.
func OptionOrDefault(key string) Option {
	if o, ok := Lookup(key); ok {
		return o
	}
	return options[0]
}
