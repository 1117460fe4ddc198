package db

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

func floatPtr(f float64) *float64 {
	return &f
}

var (
	testTimestamp = time.Date(2024, time.March, 5, 10, 15, 0, 0, time.UTC)

	testReading = measurement.Reading{
		ID:          "abc",
		Timestamp:   testTimestamp,
		Temperature: floatPtr(18.5),
		Humidity:    floatPtr(55.0),
		Dust:        floatPtr(12.0),
	}
)

func TestNewInfluxDBPoints(t *testing.T) {
	cases := []struct {
		name string
		r    measurement.Reading
		want []*write.Point
	}{
		{
			name: "many",
			r:    testReading,
			want: []*write.Point{
				influxdb2.NewPointWithMeasurement("air").AddTag("sensor", "foo").AddField("temperature", 18.5).SetTime(testTimestamp).AddTag("id", "abc"),
				influxdb2.NewPointWithMeasurement("air").AddTag("sensor", "foo").AddField("humidity", 55.0).SetTime(testTimestamp).AddTag("id", "abc"),
				influxdb2.NewPointWithMeasurement("air").AddTag("sensor", "foo").AddField("dust", 12.0).SetTime(testTimestamp).AddTag("id", "abc"),
			},
		},
		{
			name: "partial_no_id",
			r:    measurement.Reading{Timestamp: testTimestamp, Dust: floatPtr(3)},
			want: []*write.Point{
				influxdb2.NewPointWithMeasurement("air").AddTag("sensor", "foo").AddField("dust", 3.0).SetTime(testTimestamp),
			},
		},
		{
			name: "no_timestamp",
			r:    measurement.Reading{Dust: floatPtr(3)},
			want: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := newInfluxDBPoints(c.r, "foo")

			// Sort slices before comparing them. Sort by the key of the first field, which is
			// brittle, but since in this case we only have one field per Point it works.
			sort.Slice(got, func(i, j int) bool {
				return got[i].FieldList()[0].Key < got[j].FieldList()[0].Key
			})
			sort.Slice(c.want, func(i, j int) bool {
				return c.want[i].FieldList()[0].Key < c.want[j].FieldList()[0].Key
			})

			if len(got) == 0 && len(c.want) == 0 {
				return
			}
			if diff := cmp.Diff(got, c.want, cmp.AllowUnexported(write.Point{})); diff != "" {
				t.Errorf("Unexpected result (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSave(t *testing.T) {
	var body string
	var writes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/write" {
			http.NotFound(w, r)
			return
		}
		writes++
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	db := NewInfluxDB(srv.URL, "token", "org", "bucket", "foo")

	if err := db.Save(context.Background(), []measurement.Reading{{Dust: floatPtr(1)}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if writes != 0 {
		t.Errorf("Expected no write for readings without points, got %d", writes)
	}

	if err := db.Save(context.Background(), []measurement.Reading{testReading}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if writes != 1 {
		t.Fatalf("got %d writes, want 1", writes)
	}
	for _, field := range []string{"temperature=18.5", "humidity=55", "dust=12"} {
		if !strings.Contains(body, field) {
			t.Errorf("Write body %q is missing %q", body, field)
		}
	}
}
