package stats

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

func readings(t measurement.Type, vals ...float64) []measurement.Reading {
	rs := make([]measurement.Reading, len(vals))
	for i := range vals {
		v := vals[i]
		switch t {
		case measurement.Temperature:
			rs[i].Temperature = &v
		case measurement.Humidity:
			rs[i].Humidity = &v
		case measurement.Dust:
			rs[i].Dust = &v
		}
	}
	return rs
}

func TestCompute(t *testing.T) {
	cases := []struct {
		name     string
		readings []measurement.Reading
		t        measurement.Type
		want     []DerivedStat
	}{
		{
			name:     "empty",
			readings: nil,
			t:        measurement.Temperature,
			want:     nil,
		},
		{
			name:     "temperature",
			readings: readings(measurement.Temperature, 20, 25, 22),
			t:        measurement.Temperature,
			want: []DerivedStat{
				{Current, "Current Temperature", "22°C", "-12.0%", Description, "thermostat"},
				{Highest, "Highest Temperature Today", "25°C", "+13.6%", Description, IconUp},
				{Lowest, "Lowest Temperature Today", "20°C", "-9.1%", Description, IconDown},
			},
		},
		{
			name:     "single_humidity",
			readings: readings(measurement.Humidity, 55),
			t:        measurement.Humidity,
			want: []DerivedStat{
				{Current, "Current Humidity", "55%", "0%", Description, "humidity"},
				{Highest, "Highest Humidity Today", "55%", "0%", Description, IconUp},
				{Lowest, "Lowest Humidity Today", "55%", "0%", Description, IconDown},
			},
		},
		{
			name:     "dust",
			readings: readings(measurement.Dust, 8.5, 20),
			t:        measurement.Dust,
			want: []DerivedStat{
				{Current, "Current Dust", "20 µg/m³", "+135.3%", Description, "dust"},
				{Highest, "Highest Dust Today", "20 µg/m³", "0%", Description, IconUp},
				{Lowest, "Lowest Dust Today", "8.5 µg/m³", "-57.5%", Description, IconDown},
			},
		},
		{
			name:     "all_equal",
			readings: readings(measurement.Temperature, 21, 21, 21),
			t:        measurement.Temperature,
			want: []DerivedStat{
				{Current, "Current Temperature", "21°C", "0%", Description, "thermostat"},
				{Highest, "Highest Temperature Today", "21°C", "0%", Description, IconUp},
				{Lowest, "Lowest Temperature Today", "21°C", "0%", Description, IconDown},
			},
		},
		{
			name:     "zero_current",
			readings: readings(measurement.Temperature, -5, 10, 0),
			t:        measurement.Temperature,
			want: []DerivedStat{
				{Current, "Current Temperature", "0°C", "-100.0%", Description, "thermostat"},
				{Highest, "Highest Temperature Today", "10°C", "0%", Description, IconUp},
				{Lowest, "Lowest Temperature Today", "-5°C", "0%", Description, IconDown},
			},
		},
		{
			name:     "other_types_ignored",
			readings: readings(measurement.Humidity, 40, 50),
			t:        measurement.Temperature,
			want:     nil,
		},
		{
			name: "absent_values_skipped",
			readings: append(
				readings(measurement.Temperature, 20, 26),
				measurement.Reading{Humidity: new(float64)},
			),
			t: measurement.Temperature,
			want: []DerivedStat{
				{Current, "Current Temperature", "26°C", "+30.0%", Description, "thermostat"},
				{Highest, "Highest Temperature Today", "26°C", "0%", Description, IconUp},
				{Lowest, "Lowest Temperature Today", "20°C", "-23.1%", Description, IconDown},
			},
		},
		{
			name:     "unrecognized_type",
			readings: []measurement.Reading{{}},
			t:        measurement.Type(7),
			want:     nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Compute(c.readings, c.t)
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("Unexpected result (-got +want):\n%s", diff)
			}
		})
	}
}

func TestComputeInvariants(t *testing.T) {
	series := [][]float64{
		{1},
		{3, 1, 2},
		{-4, 7.25, 0, 19, 19, -4},
		{1000, 0.001},
	}

	for _, vals := range series {
		t.Run(fmt.Sprint(vals), func(t *testing.T) {
			rs := readings(measurement.Humidity, vals...)
			got := Compute(rs, measurement.Humidity)
			if len(got) != 3 {
				t.Fatalf("got %d stats, want 3", len(got))
			}

			lo, hi := vals[0], vals[0]
			for _, v := range vals {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}

			want := []string{
				measurement.FormatValue(vals[len(vals)-1], measurement.Humidity),
				measurement.FormatValue(hi, measurement.Humidity),
				measurement.FormatValue(lo, measurement.Humidity),
			}
			for i, s := range got {
				if s.Value != want[i] {
					t.Errorf("%s: got value %q, want %q", s.Kind, s.Value, want[i])
				}
			}

			// Same input, same output.
			if diff := cmp.Diff(Compute(rs, measurement.Humidity), got); diff != "" {
				t.Errorf("Compute is not idempotent (-got +want):\n%s", diff)
			}
		})
	}
}

func TestComputeAll(t *testing.T) {
	v := 30.0
	rs := []measurement.Reading{
		{Temperature: &v},
	}

	got := ComputeAll(rs)
	if len(got) != 3 {
		t.Fatalf("got %d types, want 3", len(got))
	}
	if len(got[measurement.Temperature]) != 3 {
		t.Errorf("got %d temperature stats, want 3", len(got[measurement.Temperature]))
	}
	if len(got[measurement.Humidity]) != 0 || len(got[measurement.Dust]) != 0 {
		t.Errorf("Expected no humidity or dust stats, got %v", got)
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		x    float64
		b    float64
		want string
	}{
		{26, 20, "+30.0%"},
		{20, 26, "-23.1%"},
		{25, 22, "+13.6%"},
		{20, 22, "-9.1%"},
		{22, 25, "-12.0%"},
		{5, 0, "0%"},
		{0, 0, "0%"},
		{-5, 0, "0%"},
		{55, 55, "0%"},
		{0, 10, "-100.0%"},
		{-2, -4, "-50.0%"},
		{30, 10, "+200.0%"},
		{10.001, 10, "+0.0%"},
		{100.25, 100, "+0.3%"},
		{99.75, 100, "-0.3%"},
		{100.35, 100, "+0.3%"},
		{9.999, 10, "-0.0%"},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v_%v", c.x, c.b), func(t *testing.T) {
			if got := PercentChange(c.x, c.b); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDerivedStatJSON(t *testing.T) {
	s := DerivedStat{Current, "Current Dust", "20 µg/m³", "+5.0%", Description, "dust"}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := `{"kind":"current","title":"Current Dust","value":"20 µg/m³","increase":"+5.0%","description":"Since last record","icon":"dust"}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}
