package aqi

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDust(t *testing.T) {
	cases := []struct {
		pm   float64
		want int
	}{
		{-3, 0},
		{0, 0},
		{6, 25},
		{12, 50},
		{12.1, 51},
		{35.4, 100},
		{55.4, 150},
		{150.4, 200},
		{250.4, 300},
		{350.4, 400},
		{500.4, 500},
		{1200, 500},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v", c.pm), func(t *testing.T) {
			if got := Dust(c.pm); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestDustLevel(t *testing.T) {
	cases := []struct {
		pm   float64
		want Level
	}{
		{0, Level{0, "Good", "G"}},
		{8.5, Level{35, "Good", "G"}},
		{12, Level{50, "Good", "G"}},
		{12.1, Level{51, "Moderate", "M"}},
		{20, Level{68, "Moderate", "M"}},
		{40, Level{112, "Unhealthy for Sensitive Groups", "USG"}},
		{100, Level{174, "Unhealthy", "U"}},
		{180, Level{230, "Very Unhealthy", "VU"}},
		{300, Level{350, "Hazardous", "H"}},
		{900, Level{500, "Hazardous", "H"}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v", c.pm), func(t *testing.T) {
			if diff := cmp.Diff(DustLevel(c.pm), c.want); diff != "" {
				t.Errorf("Unexpected result (-got +want):\n%s", diff)
			}
		})
	}
}
