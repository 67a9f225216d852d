package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/chartkit/tabular"
	"github.com/chartkit/tabular/internal/config"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "tabular chart-data engine CLI (version %s)\n\n", tabular.Version())
	fmt.Fprintf(os.Stderr, "Usage: tabular [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --demo\n\t\tRun the chart preparation pipeline on synthetic data\n")
	fmt.Fprintf(os.Stderr, "  --csv FILE\n\t\tPrepare chart parameters from a CSV file\n")
	fmt.Fprintf(os.Stderr, "  --align\n\t\tRound and align the date index before scaling (csv mode)\n")
	fmt.Fprintf(os.Stderr, "  --rows N\n\t\tNumber of synthetic days for the demo (default: 90)\n")
	fmt.Fprintf(os.Stderr, "  -v, --version\n\t\tPrint version information and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	versionFlag := flag.Bool("v", false, "Print version and exit")
	flag.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	demoFlag := flag.Bool("demo", false, "Run the chart preparation demo")
	csvFlag := flag.String("csv", "", "Prepare chart parameters from a CSV file")
	alignFlag := flag.Bool("align", false, "Round and align the date index before scaling")
	rowsFlag := flag.Int("rows", 0, "Number of synthetic days for the demo")

	flag.Usage = customUsage
	flag.Parse()

	if *versionFlag {
		fmt.Print(tabular.Build().String())
		return
	}

	logger := setup()
	switch {
	case *demoFlag:
		runDemo(logger, *rowsFlag)
	case *csvFlag != "":
		runCSV(logger, *csvFlag, *alignFlag)
	default:
		flag.Usage()
		os.Exit(1)
	}
}

// setup loads configuration from the environment and builds the console
// logger.
func setup() zerolog.Logger {
	cfg := config.LoadFromEnv().WithDefaults()
	config.SetGlobalConfig(cfg)

	level := zerolog.InfoLevel
	if cfg.VerboseLogging {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// runDemo builds two deliberately misaligned daily series (revenue sampled
// in the morning, active users in the afternoon, each with gaps) and runs
// them through the full chart preparation pipeline.
func runDemo(logger zerolog.Logger, days int) {
	if days == 0 {
		days = 90
	}
	logger.Info().Int("days", days).Msg("building synthetic series")

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	var revenueIdx, revenue, usersIdx, users []any
	for i := range days {
		day := base.AddDate(0, 0, i)
		if i%11 != 3 {
			revenueIdx = append(revenueIdx, day.Add(9*time.Hour+30*time.Minute))
			revenue = append(revenue, 40000+float64(i%30)*1500)
		}
		if i%13 != 5 {
			usersIdx = append(usersIdx, day.Add(16*time.Hour))
			users = append(users, 800+float64((i*7)%450))
		}
	}

	revFrame, err := tabular.FromColumns(map[string][]any{"revenue": revenue},
		tabular.Options{Index: revenueIdx})
	if err != nil {
		logger.Fatal().Err(err).Msg("building revenue frame")
	}
	defer revFrame.Release()
	usersFrame, err := tabular.FromColumns(map[string][]any{"users": users},
		tabular.Options{Index: usersIdx})
	if err != nil {
		logger.Fatal().Err(err).Msg("building users frame")
	}
	defer usersFrame.Release()

	pipeline := tabular.NewPipeline(
		tabular.Stage{Name: "align", Run: alignStage},
		tabular.Stage{Name: "scale", Run: scaleStage},
		tabular.Stage{Name: "axis", Run: axisStage},
	).WithLogger(logger)

	ctx, report := pipeline.Run(revFrame, usersFrame)
	if !report.OK() {
		logger.Fatal().Str("stage", report.Failed).Msg("pipeline failed")
	}

	fmt.Printf("\nRun %s prepared %d charts\n", report.RunID, len(ctx.Frames))
	fmt.Printf("Aligned range: %s .. %s (%d days)\n",
		ctx.Align.Start.Format("2006-01-02"), ctx.Align.End.Format("2006-01-02"),
		ctx.Frames[0].Len())
	for name, info := range ctx.Scales {
		fmt.Printf("  %-8s scaled by %g%s\n", name, info.Scale, suffixNote(info.Suffix))
	}
	fmt.Printf("Y axis: range [%.3f, %.3f], ticks every %g starting at %g (%s)\n",
		ctx.Grid.Range[0], ctx.Grid.Range[1], ctx.Grid.DTick, ctx.Grid.Tick0,
		ctx.Grid.TickMode)
}

func alignStage(ctx *tabular.PipelineContext) error {
	aligned, report, err := tabular.RoundAndAlignDates(ctx.Frames, tabular.AlignOptions{})
	if err != nil {
		return err
	}
	ctx.Frames = aligned
	ctx.Align = report
	for _, d := range report.Diagnostics {
		ctx.Warnf("frame %d: %s", d.Frame, d.Message)
	}
	return nil
}

func scaleStage(ctx *tabular.PipelineContext) error {
	scales := make(map[string]tabular.ScaleInfo)
	for i, frame := range ctx.Frames {
		scaled, info, err := frame.Scale()
		if err != nil {
			return err
		}
		ctx.Frames[i] = scaled
		for name, s := range info {
			scales[name] = s
		}
	}
	ctx.Scales = scales
	return nil
}

func axisStage(ctx *tabular.PipelineContext) error {
	primary := ctx.Frames[0]
	col, err := primary.Column(primary.Columns()[0])
	if err != nil {
		return err
	}
	defer col.Release()
	data, err := col.Float64s()
	if err != nil {
		return err
	}
	grid, err := tabular.YAxisGrid(data, tabular.DefaultAxisOptions())
	if err != nil {
		return err
	}
	ctx.Grid = grid
	return nil
}

// runCSV reads a CSV file and prepares chart parameters from its numeric
// columns. With alignDates set, the first column becomes a rounded date
// index first.
func runCSV(logger zerolog.Logger, path string, alignDates bool) {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("opening csv")
	}
	defer f.Close()

	opts := tabular.DefaultCSVOptions()
	opts.ParseDates = true
	df, err := tabular.ReadCSV(f, opts, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("reading csv")
	}
	defer df.Release()
	logger.Info().Int("rows", df.Len()).Int("columns", df.Width()).Msg("loaded csv")

	if alignDates {
		if df.Width() < 2 {
			logger.Fatal().Msg("aligning needs a date column plus at least one value column")
		}
		dateCol := df.Columns()[0]
		indexed, err := df.ConvertColumnToDate(dateCol)
		if err != nil {
			logger.Fatal().Err(err).Msg("parsing dates")
		}
		indexed, err = indexed.SetIndex(dateCol)
		if err != nil {
			logger.Fatal().Err(err).Msg("indexing dates")
		}
		aligned, report, err := tabular.RoundAndAlignDates(
			[]*tabular.DataFrame{indexed}, tabular.AlignOptions{})
		if err != nil {
			logger.Fatal().Err(err).Msg("aligning dates")
		}
		for _, d := range report.Diagnostics {
			logger.Warn().Int("frame", d.Frame).Msg(d.Message)
		}
		df = aligned[0]
		defer df.Release()
		logger.Info().
			Str("start", report.Start.Format("2006-01-02")).
			Str("end", report.End.Format("2006-01-02")).
			Msg("date index aligned")
	}

	scaled, scales, err := df.Scale()
	if err != nil {
		logger.Fatal().Err(err).Msg("scaling columns")
	}
	defer scaled.Release()

	fmt.Println(scaled.Head(5))
	for name, info := range scales {
		fmt.Printf("  %-12s scaled by %g%s\n", name, info.Scale, suffixNote(info.Suffix))
	}

	for _, name := range scaled.Columns() {
		if scaled.DTypes()[name].IsNumeric() {
			col, err := scaled.Column(name)
			if err != nil {
				logger.Fatal().Err(err).Msg("reading column")
			}
			data, err := col.Float64s()
			col.Release()
			if err != nil {
				logger.Fatal().Err(err).Msg("widening column")
			}
			grid, err := tabular.YAxisGrid(data, tabular.DefaultAxisOptions())
			if err != nil {
				logger.Warn().Err(err).Str("column", name).Msg("no grid for column")
				continue
			}
			fmt.Printf("Y axis for %s: range [%.3f, %.3f], ticks every %g (%s)\n",
				name, grid.Range[0], grid.Range[1], grid.DTick, grid.TickMode)
			break
		}
	}
}

func suffixNote(suffix string) string {
	if suffix == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", suffix)
}
