package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lumen-data/multiphase/internal/api"
	"github.com/lumen-data/multiphase/internal/catalog"
	"github.com/lumen-data/multiphase/internal/config"
	"github.com/lumen-data/multiphase/internal/fsutil"
	"github.com/lumen-data/multiphase/internal/grouping"
	"github.com/lumen-data/multiphase/internal/lightpath"
	"github.com/lumen-data/multiphase/internal/model"
	"github.com/lumen-data/multiphase/internal/report"
	"github.com/lumen-data/multiphase/internal/version"
	"github.com/lumen-data/multiphase/internal/viewfactor"
)

// Constants
const CATALOG_FILE = "grouping_catalog.db"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "grid":
		runGrid(os.Args[2:])
	case "aperture-group":
		runApertureGroup(os.Args[2:])
	case "light-path":
		runLightPath(os.Args[2:])
	case "sweep":
		runSweep(os.Args[2:])
	case "report":
		runReport(os.Args[2:])
	case "migrate":
		runMigrate(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Println("multiphase " + version.String())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: multiphase <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  grid            Build aperture sensor grids from a model")
	fmt.Println("  aperture-group  Group apertures by view factor or orientation")
	fmt.Println("  light-path      Trace dynamic light paths through a model")
	fmt.Println("  sweep           Sweep the clustering threshold over one matrix")
	fmt.Println("  report          Render charts and plan plots for a grouping run")
	fmt.Println("  migrate         Manage catalog database migrations")
	fmt.Println("  serve           Serve a grouping catalog over HTTP")
	fmt.Println("  version         Print build version information")
	fmt.Println()
	fmt.Println("Run 'multiphase <command> -h' for command options.")
}

// loadConfig falls back to the built-in defaults when no path is given.
func loadConfig(path string) *config.GroupingConfig {
	if path == "" {
		return config.DefaultGroupingConfig()
	}
	cfg, err := config.LoadGroupingConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func mustLoadModel(path string) *model.Model {
	if path == "" {
		log.Fatal("model path is required (-model)")
	}
	m, err := model.Load(path)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	return m
}

func runGrid(args []string) {
	fs := flag.NewFlagSet("grid", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to the model JSON file")
	outDir := fs.String("out", "grid", "Output folder for sensor grids")
	gridSize := fs.Float64("grid-size", 0, "Sensor spacing in meters (overrides config)")
	configPath := fs.String("config", "", "Path to a grouping config JSON file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	m := mustLoadModel(*modelPath)

	spacing := cfg.GetGridSize()
	if *gridSize > 0 {
		spacing = *gridSize
	}

	index := model.ExteriorAperturesByRoom(m)
	if len(index) == 0 {
		log.Fatalf("model %s has no exterior apertures", m.Identifier)
	}
	var apertures []*model.Aperture
	for _, ra := range index {
		apertures = append(apertures, ra.Apertures...)
	}

	grid, err := viewfactor.BuildGrid(apertures, spacing)
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}

	fsys := fsutil.OSFileSystem{}
	if err := fsys.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output folder: %v", err)
	}
	ptsPath := filepath.Join(*outDir, "apertures.pts")
	countsPath := filepath.Join(*outDir, "apertures_counts.json")
	if err := grid.WritePts(fsys, ptsPath); err != nil {
		log.Fatalf("Failed to write sensor grid: %v", err)
	}
	if err := grid.WriteCounts(fsys, countsPath); err != nil {
		log.Fatalf("Failed to write sensor counts: %v", err)
	}

	fmt.Printf("✓ %d sensors for %d apertures (spacing %g m)\n", len(grid.Sensors), len(apertures), spacing)
	fmt.Printf("  grid:   %s\n", ptsPath)
	fmt.Printf("  counts: %s\n", countsPath)
}

func runApertureGroup(args []string) {
	fs := flag.NewFlagSet("aperture-group", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to the model JSON file")
	mtxPath := fs.String("mtx", "", "Path to the aperture view-factor matrix")
	countsPath := fs.String("counts", "", "Path to the sensor counts JSON written by grid")
	method := fs.String("method", catalog.MethodViewFactor, "Grouping method: view_factor or orientation")
	outDir := fs.String("out", ".", "Output folder for group JSON files")
	configPath := fs.String("config", "", "Path to a grouping config JSON file")
	threshold := fs.Float64("threshold", grouping.DefaultThreshold, "RMSE threshold for view-factor grouping")
	roomBased := fs.Bool("room-based", true, "Group per room (false clusters the whole model)")
	verticalTol := fs.Float64("vertical-tolerance", 0, "Vertical tolerance in meters; 0 disables height sub-grouping")
	orientationTol := fs.Float64("orientation-tolerance", grouping.DefaultOrientationTolerance, "Normal tolerance for orientation grouping")
	dbPath := fs.String("db", "", "Optional catalog database to record the run in")
	planPath := fs.String("plan", "", "Optional plan-view PNG output path")
	pagePath := fs.String("page", "", "Optional HTML chart page output path")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	m := mustLoadModel(*modelPath)

	// Config supplies the baseline; flags the operator actually set win.
	opts := cfg.GroupingOptions()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			opts.Threshold = *threshold
		case "room-based":
			opts.RoomBased = *roomBased
		case "vertical-tolerance":
			opts.VerticalTolerance = *verticalTol
		case "orientation-tolerance":
			opts.OrientationTolerance = *orientationTol
		}
	})

	index := model.ExteriorAperturesByRoom(m)
	if len(index) == 0 {
		log.Fatalf("model %s has no exterior apertures", m.Identifier)
	}

	g := grouping.NewGrouper(opts)
	var res *grouping.Result
	switch *method {
	case catalog.MethodViewFactor:
		if *mtxPath == "" || *countsPath == "" {
			log.Fatal("view_factor grouping needs -mtx and -counts")
		}
		fsys := fsutil.OSFileSystem{}
		counts, err := viewfactor.ReadCounts(fsys, *countsPath)
		if err != nil {
			log.Fatalf("Failed to read sensor counts: %v", err)
		}
		vectors, err := viewfactor.MeanViewFactors(fsys, *mtxPath, counts)
		if err != nil {
			log.Fatalf("Failed to read view-factor matrix: %v", err)
		}
		res, err = g.ByViewFactor(index, vectors.Map())
		if err != nil {
			log.Fatalf("Grouping failed: %v", err)
		}
	case catalog.MethodOrientation:
		var err error
		res, err = g.ByOrientation(index)
		if err != nil {
			log.Fatalf("Grouping failed: %v", err)
		}
	default:
		log.Fatalf("Unknown method %q (want %s or %s)", *method, catalog.MethodViewFactor, catalog.MethodOrientation)
	}

	records, assign := grouping.Output(res)
	grouping.Apply(m, assign)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output folder: %v", err)
	}
	groupsPath := filepath.Join(*outDir, "aperture_groups.json")
	assignPath := filepath.Join(*outDir, "dynamic_group_identifiers.json")
	if err := writeJSON(groupsPath, records); err != nil {
		log.Fatalf("Failed to write groups: %v", err)
	}
	if err := writeJSON(assignPath, assign); err != nil {
		log.Fatalf("Failed to write group identifiers: %v", err)
	}

	fmt.Printf("✓ %d aperture groups over %d apertures (%s)\n", len(records), len(assign), *method)
	fmt.Printf("  groups:      %s\n", groupsPath)
	fmt.Printf("  identifiers: %s\n", assignPath)

	if *dbPath != "" {
		db, err := catalog.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open catalog: %v", err)
		}
		defer db.Close()

		run := &catalog.Run{
			ModelIdentifier: m.Identifier,
			Method:          *method,
			RoomBased:       opts.RoomBased,
			Threshold:       runThreshold(*method, opts),
			GroupCount:      len(records),
			ApertureCount:   len(assign),
		}
		if err := db.InsertRun(run); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
		if err := db.InsertGroups(run.ID, catalogGroups(res, records)); err != nil {
			log.Fatalf("Failed to record groups: %v", err)
		}
		fmt.Printf("✓ recorded run %s in %s\n", run.ID, *dbPath)
	}

	if *planPath != "" {
		if err := report.WritePlanPNG(*planPath, m, records, m.Identifier+" aperture groups"); err != nil {
			log.Fatalf("Failed to write plan: %v", err)
		}
		fmt.Printf("✓ plan: %s\n", *planPath)
	}
	if *pagePath != "" {
		f, err := os.Create(*pagePath)
		if err != nil {
			log.Fatalf("Failed to create chart page: %v", err)
		}
		if err := report.WriteGroupPage(f, m, records, m.Identifier+" aperture groups"); err != nil {
			f.Close()
			log.Fatalf("Failed to render chart page: %v", err)
		}
		f.Close()
		fmt.Printf("✓ charts: %s\n", *pagePath)
	}
}

// runThreshold is the threshold recorded with a run; orientation runs
// have none.
func runThreshold(method string, opts grouping.Options) float64 {
	if method == catalog.MethodOrientation {
		return 0
	}
	return opts.Threshold
}

// catalogGroups pairs named records with their room identifiers, in the
// same production order the naming pass uses.
func catalogGroups(res *grouping.Result, records []grouping.GroupRecord) []catalog.Group {
	out := make([]catalog.Group, 0, len(records))
	i := 0
	if res.RoomBased {
		for _, rg := range res.ByRoom {
			for range rg.Groups {
				out = append(out, catalog.Group{
					Identifier:     records[i].Identifier,
					RoomIdentifier: rg.RoomIdentifier,
					Apertures:      records[i].Apertures,
				})
				i++
			}
		}
		return out
	}
	for range res.Global {
		out = append(out, catalog.Group{
			Identifier: records[i].Identifier,
			Apertures:  records[i].Apertures,
		})
		i++
	}
	return out
}

func runLightPath(args []string) {
	fs := flag.NewFlagSet("light-path", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to the model JSON file")
	room := fs.String("room", "", "Room identifier (default: all rooms)")
	outPath := fs.String("out", "light_paths.json", "Output JSON path")
	configPath := fs.String("config", "", "Path to a grouping config JSON file")
	dbPath := fs.String("db", "", "Optional catalog database to record the paths in")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	m := mustLoadModel(*modelPath)

	var rooms []string
	if *room != "" {
		if _, ok := m.RoomByIdentifier(*room); !ok {
			log.Fatalf("room %q not found in model %s", *room, m.Identifier)
		}
		rooms = []string{*room}
	} else {
		for _, r := range m.Rooms {
			rooms = append(rooms, r.Identifier)
		}
	}

	static := cfg.GetStaticName()
	paths := make(map[string][][]string, len(rooms))
	total := 0
	for _, id := range rooms {
		p, err := lightpath.FromRoom(m, id, static)
		if err != nil {
			log.Fatalf("Failed to trace %s: %v", id, err)
		}
		paths[id] = p
		total += len(p)
	}

	if err := writeJSON(*outPath, paths); err != nil {
		log.Fatalf("Failed to write light paths: %v", err)
	}
	fmt.Printf("✓ %d light paths for %d rooms: %s\n", total, len(rooms), *outPath)

	if *dbPath != "" {
		db, err := catalog.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open catalog: %v", err)
		}
		defer db.Close()

		run := &catalog.Run{ModelIdentifier: m.Identifier, Method: catalog.MethodLightPath}
		if err := db.InsertRun(run); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
		for _, id := range rooms {
			if err := db.InsertLightPaths(run.ID, id, paths[id]); err != nil {
				log.Fatalf("Failed to record light paths for %s: %v", id, err)
			}
		}
		fmt.Printf("✓ recorded run %s in %s\n", run.ID, *dbPath)
	}
}

func runSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to the model JSON file")
	mtxPath := fs.String("mtx", "", "Path to the aperture view-factor matrix")
	countsPath := fs.String("counts", "", "Path to the sensor counts JSON written by grid")
	thresholdList := fs.String("thresholds", "", "Comma-separated thresholds (e.g. 0.0001,0.001,0.01)")
	start := fs.Float64("start", 0.0001, "Start threshold when no list is given")
	end := fs.Float64("end", 0.01, "End threshold when no list is given")
	step := fs.Float64("step", 0.0005, "Threshold step when no list is given")
	roomBased := fs.Bool("room-based", true, "Group per room (false clusters the whole model)")
	output := fs.String("output", "", "Output CSV filename (defaults to sweep-<timestamp>.csv)")
	chartPath := fs.String("chart", "", "Optional sweep chart HTML output path")
	dbPath := fs.String("db", "", "Optional catalog database to record the sweep in")
	configPath := fs.String("config", "", "Path to a grouping config JSON file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	m := mustLoadModel(*modelPath)
	if *mtxPath == "" || *countsPath == "" {
		log.Fatal("sweep needs -mtx and -counts")
	}

	thresholds, err := parseThresholds(*thresholdList, *start, *end, *step)
	if err != nil {
		log.Fatalf("Invalid thresholds: %v", err)
	}

	fsys := fsutil.OSFileSystem{}
	counts, err := viewfactor.ReadCounts(fsys, *countsPath)
	if err != nil {
		log.Fatalf("Failed to read sensor counts: %v", err)
	}
	vectors, err := viewfactor.MeanViewFactors(fsys, *mtxPath, counts)
	if err != nil {
		log.Fatalf("Failed to read view-factor matrix: %v", err)
	}
	vecs := vectors.Map()

	index := model.ExteriorAperturesByRoom(m)
	if len(index) == 0 {
		log.Fatalf("model %s has no exterior apertures", m.Identifier)
	}

	opts := cfg.GroupingOptions()
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "room-based" {
			opts.RoomBased = *roomBased
		}
	})

	filename := *output
	if filename == "" {
		filename = fmt.Sprintf("sweep-%s.csv", time.Now().Format("20060102-150405"))
	}
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("Could not create output file %s: %v", filename, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"threshold", "group_count", "largest_group"})

	fmt.Printf("%-10s  %-6s  %s\n", "threshold", "groups", "largest")
	points := make([]catalog.SweepPoint, 0, len(thresholds))
	for _, th := range thresholds {
		opts.Threshold = th
		res, err := grouping.NewGrouper(opts).ByViewFactor(index, vecs)
		if err != nil {
			log.Fatalf("Clustering failed at threshold %g: %v", th, err)
		}
		records, _ := grouping.Output(res)

		largest := 0
		for _, rec := range records {
			if len(rec.Apertures) > largest {
				largest = len(rec.Apertures)
			}
		}

		fmt.Printf("%-10g  %-6d  %d\n", th, len(records), largest)
		w.Write([]string{
			strconv.FormatFloat(th, 'f', -1, 64),
			strconv.Itoa(len(records)),
			strconv.Itoa(largest),
		})
		points = append(points, catalog.SweepPoint{Threshold: th, GroupCount: len(records), LargestGroup: largest})
	}
	w.Flush()

	fmt.Printf("\n✓ sweep complete: %s\n", filename)

	if *dbPath != "" {
		db, err := catalog.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open catalog: %v", err)
		}
		defer db.Close()

		run := &catalog.Run{
			ModelIdentifier: m.Identifier,
			Method:          catalog.MethodSweep,
			RoomBased:       opts.RoomBased,
			ApertureCount:   len(vectors.IDs),
		}
		if err := db.InsertRun(run); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
		if err := db.InsertSweepPoints(run.ID, points); err != nil {
			log.Fatalf("Failed to record sweep points: %v", err)
		}
		fmt.Printf("✓ recorded run %s in %s\n", run.ID, *dbPath)
	}

	if *chartPath != "" {
		cf, err := os.Create(*chartPath)
		if err != nil {
			log.Fatalf("Failed to create chart file: %v", err)
		}
		if err := report.WriteSweepChart(cf, points, m.Identifier+" threshold sweep"); err != nil {
			cf.Close()
			log.Fatalf("Failed to render sweep chart: %v", err)
		}
		cf.Close()
		fmt.Printf("✓ chart: %s\n", *chartPath)
	}
}

// parseThresholds parses a comma-separated list of thresholds, or
// generates a range when the list is empty.
func parseThresholds(list string, start, end, step float64) ([]float64, error) {
	if list != "" {
		parts := strings.Split(list, ",")
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid float '%s': %w", p, err)
			}
			if v <= 0 {
				return nil, fmt.Errorf("threshold must be positive, got %g", v)
			}
			out = append(out, v)
		}
		return out, nil
	}

	if start <= 0 || end < start || step <= 0 {
		return nil, fmt.Errorf("invalid range %g..%g step %g", start, end, step)
	}
	var out []float64
	for v := start; v <= end+1e-12; v += step {
		out = append(out, v)
	}
	return out, nil
}

func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	modelPath := fs.String("model", "", "Path to the model JSON file")
	groupsPath := fs.String("groups", "", "Path to an aperture_groups.json file")
	dbPath := fs.String("db", "", "Catalog database to load the run from")
	runID := fs.String("run", "", "Run identifier in the catalog")
	outDir := fs.String("out", "report", "Output folder for rendered artifacts")
	fs.Parse(args)

	m := mustLoadModel(*modelPath)

	var records []grouping.GroupRecord
	var points []catalog.SweepPoint
	switch {
	case *groupsPath != "":
		data, err := os.ReadFile(*groupsPath)
		if err != nil {
			log.Fatalf("Failed to read groups: %v", err)
		}
		if err := json.Unmarshal(data, &records); err != nil {
			log.Fatalf("Failed to parse groups: %v", err)
		}
	case *dbPath != "" && *runID != "":
		db, err := catalog.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open catalog: %v", err)
		}
		defer db.Close()

		groups, err := db.GroupsForRun(*runID)
		if err != nil {
			log.Fatalf("Failed to load groups: %v", err)
		}
		for _, grp := range groups {
			records = append(records, grouping.GroupRecord{Identifier: grp.Identifier, Apertures: grp.Apertures})
		}
		points, err = db.SweepPointsForRun(*runID)
		if err != nil {
			log.Fatalf("Failed to load sweep points: %v", err)
		}
	default:
		log.Fatal("report needs either -groups or -db with -run")
	}
	if len(records) == 0 {
		log.Fatal("no groups to report")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output folder: %v", err)
	}

	title := m.Identifier + " aperture groups"
	pagePath := filepath.Join(*outDir, "groups.html")
	f, err := os.Create(pagePath)
	if err != nil {
		log.Fatalf("Failed to create chart page: %v", err)
	}
	if err := report.WriteGroupPage(f, m, records, title); err != nil {
		f.Close()
		log.Fatalf("Failed to render chart page: %v", err)
	}
	f.Close()
	fmt.Printf("✓ charts: %s\n", pagePath)

	planPath := filepath.Join(*outDir, "plan.png")
	if err := report.WritePlanPNG(planPath, m, records, title); err != nil {
		log.Fatalf("Failed to write plan: %v", err)
	}
	fmt.Printf("✓ plan:   %s\n", planPath)

	if len(points) > 0 {
		sweepPath := filepath.Join(*outDir, "sweep.html")
		sf, err := os.Create(sweepPath)
		if err != nil {
			log.Fatalf("Failed to create sweep chart: %v", err)
		}
		if err := report.WriteSweepChart(sf, points, m.Identifier+" threshold sweep"); err != nil {
			sf.Close()
			log.Fatalf("Failed to render sweep chart: %v", err)
		}
		sf.Close()
		fmt.Printf("✓ sweep:  %s\n", sweepPath)
	}
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", CATALOG_FILE, "Path to the catalog database")
	fs.Parse(args)

	catalog.RunMigrateCommand(fs.Args(), *dbPath)
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", ":8080", "Listen address")
	dbPath := fs.String("db", CATALOG_FILE, "Path to the catalog database")
	modelPath := fs.String("model", "", "Optional model JSON for group charts")
	fs.Parse(args)

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	db, err := catalog.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer db.Close()

	var m *model.Model
	if *modelPath != "" {
		m, err = model.Load(*modelPath)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
		log.Printf("Loaded model %s (%d rooms)", m.Identifier, len(m.Rooms))
	}

	mux := http.NewServeMux()

	// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
	db.AttachAdminRoutes(mux)

	api.NewServer(db, m).RegisterRoutes(mux)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("got request %q", r.URL.Path)
		mux.ServeHTTP(w, r)
	})

	server := &http.Server{
		Addr:    *listen,
		Handler: h,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in a goroutine so it doesn't block
	go func() {
		log.Printf("Starting HTTP server on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Printf("Graceful shutdown complete")
}

// writeJSON writes v as indented JSON with a trailing newline.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
