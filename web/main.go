// Program web serves the air quality dashboard. It polls the air-monitoring backend on a
// schedule, keeps the latest readings in memory and renders stat cards, tables and
// charts from them.
package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mtraver/envtools"
	cron "github.com/robfig/cron/v3"

	"github.com/Muhammad-Zunain/air-monitoring/airapi"
	"github.com/Muhammad-Zunain/air-monitoring/cache"
	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/store"
	"github.com/Muhammad-Zunain/air-monitoring/web/db"
)

const (
	defaultTimeout = 10 * time.Second

	// The bar chart shows this year until the user picks another.
	defaultChartYear = 2024
)

// Flags.
var (
	apiURL       string
	refreshSpec  string
	timeout      time.Duration
	cacheTTL     time.Duration
	templateDir  string
	timezone     string
	chartYear    int
	uploadToken  string
	influxURL    string
	influxToken  string
	influxOrg    string
	influxBucket string
	sensorName   string
	verbose      bool
)

func init() {
	flag.StringVar(&apiURL, "api", "", "base URL of the air-monitoring API.\nIf empty, $AIR_API_URL must be set.")
	flag.StringVar(&refreshSpec, "refresh", "@every 30s", "cron spec that specifies when to fetch readings")
	flag.DurationVar(&timeout, "timeout", defaultTimeout, "timeout for each request to the API")
	flag.DurationVar(&cacheTTL, "cache-ttl", airapi.DefaultCacheTTL, "how long to reuse API responses; 0 disables the cache")
	flag.StringVar(&templateDir, "templates", "web/templates", "directory containing the HTML templates")
	flag.StringVar(&timezone, "tz", "UTC", "IANA time zone in which reading dates and times are shown")
	flag.IntVar(&chartYear, "year", defaultChartYear, "year shown by the monthly chart by default")
	flag.StringVar(&uploadToken, "upload-token", "", "if set, firmware uploads must carry this token")
	flag.StringVar(&influxURL, "influx-url", "", "InfluxDB server URL. If empty, readings are not mirrored.")
	flag.StringVar(&influxToken, "influx-token", "", "InfluxDB API token. Defaults to $INFLUXDB_TOKEN.")
	flag.StringVar(&influxOrg, "influx-org", "", "InfluxDB organization")
	flag.StringVar(&influxBucket, "influx-bucket", "air-monitoring", "InfluxDB bucket")
	flag.StringVar(&sensorName, "sensor", "dashboard", "value of the sensor tag on mirrored points")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")

	flag.Usage = func() {
		message := `usage: web [options]

Serves the air quality dashboard on $PORT (default 8080).

Options:
`

		fmt.Fprint(flag.CommandLine.Output(), message)
		flag.PrintDefaults()
	}
}

// Backend is the subset of the air-monitoring API the dashboard uses.
type Backend interface {
	// FetchAirData must not serve cached responses; the refresh job polls with it.
	FetchAirData(ctx context.Context) ([]measurement.Reading, error)
	ControllerLocations(ctx context.Context) ([]airapi.Location, error)
	UploadFirmware(ctx context.Context, name string, r io.Reader) error
	CleanCache() int
	CacheStats() cache.Stats
}

// Sink receives copies of fetched readings.
type Sink interface {
	Save(ctx context.Context, readings []measurement.Reading) error
}

var templateFuncs = template.FuncMap{
	"RFC3339": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	// trend classifies a formatted percent change for styling.
	"trend": func(s string) string {
		switch {
		case strings.HasPrefix(s, "+"):
			return "up"
		case strings.HasPrefix(s, "-"):
			return "down"
		default:
			return "flat"
		}
	},
}

func parseTemplates(dir string) (*template.Template, error) {
	return template.New("index.html").Funcs(templateFuncs).ParseGlob(filepath.Join(dir, "*"))
}

type server struct {
	Backend     Backend
	Store       *store.Store
	Template    *template.Template
	ChartYear   int
	UploadToken string
}

func newRouter(s server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	root := rootHandler{
		Store:    s.Store,
		Template: s.Template,
	}
	r.Method(http.MethodGet, "/", root)
	r.Method(http.MethodPost, "/", root)

	r.Get("/api/stats", errorHandler(statsHandler{Store: s.Store}.serve))
	r.Get("/api/monthly-averages", errorHandler(monthlyHandler{Store: s.Store, DefaultYear: s.ChartYear}.serve))
	r.Get("/chart/monthly.png", errorHandler(monthlyChartHandler{Store: s.Store, DefaultYear: s.ChartYear}.serve))
	r.Get("/api/last-hour", errorHandler(lastHourHandler{Store: s.Store}.serve))
	r.Get("/api/locations", errorHandler(locationsHandler{Backend: s.Backend}.serve))
	r.Get("/download", errorHandler(downloadHandler{Store: s.Store}.serve))
	r.Post("/firmware", errorHandler(firmwareHandler{Backend: s.Backend, Token: s.UploadToken}.serve))
	r.Method(http.MethodGet, "/cachez", cachezHandler{
		Backend:  s.Backend,
		Template: s.Template,
	})

	return r
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func main() {
	flag.Parse()

	if apiURL == "" {
		apiURL = envtools.MustGetenv("AIR_API_URL")
	}
	if influxToken == "" {
		influxToken = os.Getenv("INFLUXDB_TOKEN")
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Fatalf("Bad time zone: %v", err)
	}

	templates, err := parseTemplates(templateDir)
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	logger := newLogger(verbose)

	client := airapi.New(airapi.Config{
		BaseURL:  apiURL,
		Timeout:  timeout,
		CacheTTL: cacheTTL,
		Logger:   logger.With("component", "airapi"),
	})
	st := store.New(loc)

	var sink Sink
	if influxURL != "" {
		sink = db.NewInfluxDB(influxURL, influxToken, influxOrg, influxBucket, sensorName)
		log.Printf("Mirroring readings to InfluxDB at %s", influxURL)
	}

	// Fetch once before serving so the first page load has data, then on schedule.
	job := NewRefreshJob(client, st, sink, timeout, logger.With("component", "refresh"))
	job.Run()

	cr := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	log.Printf("Starting cron scheduler with spec %q", refreshSpec)
	if _, err := cr.AddJob(refreshSpec, job); err != nil {
		log.Fatalf("Bad refresh spec: %v", err)
	}
	cr.Start()
	defer cr.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := newRouter(server{
		Backend:     client,
		Store:       st,
		Template:    templates,
		ChartYear:   chartYear,
		UploadToken: uploadToken,
	})
	if err := serve(ctx, mux); err != nil {
		log.Fatal(err)
	}
}
