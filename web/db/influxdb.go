// Package db mirrors readings fetched from the air-monitoring backend into InfluxDB,
// where they can be kept beyond the backend's retention and graphed with Influx tools.
package db

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

const measurementName = "air"

// newInfluxDBPoints returns one point per value in the reading. Readings without a
// timestamp can't be placed in a time series, so they yield no points.
func newInfluxDBPoints(r measurement.Reading, sensor string) []*write.Point {
	if r.Timestamp.IsZero() {
		return nil
	}

	vm := r.ValueMap()
	points := make([]*write.Point, 0, len(vm))
	for _, t := range measurement.Types() {
		v, ok := vm[t]
		if !ok {
			continue
		}

		p := influxdb2.NewPointWithMeasurement(measurementName).
			AddTag("sensor", sensor).
			AddField(t.String(), v).
			SetTime(r.Timestamp)
		if r.ID != "" {
			p = p.AddTag("id", r.ID)
		}
		points = append(points, p)
	}

	return points
}

type InfluxDB struct {
	serverURL string
	token     string
	org       string
	bucket    string
	sensor    string
}

func NewInfluxDB(serverURL, token, org, bucket, sensor string) *InfluxDB {
	return &InfluxDB{
		serverURL: serverURL,
		token:     token,
		org:       org,
		bucket:    bucket,
		sensor:    sensor,
	}
}

func (db *InfluxDB) Save(ctx context.Context, readings []measurement.Reading) error {
	var points []*write.Point
	for _, r := range readings {
		points = append(points, newInfluxDBPoints(r, db.sensor)...)
	}
	if len(points) == 0 {
		return nil
	}

	client := influxdb2.NewClient(db.serverURL, db.token)
	defer client.Close()

	writeAPI := client.WriteAPIBlocking(db.org, db.bucket)
	if err := writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("db: writing %d points to InfluxDB: %w", len(points), err)
	}

	return nil
}
