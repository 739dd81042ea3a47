package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/config"
	"github.com/lululau/gridcal/internal/dateformat"
	"github.com/lululau/gridcal/internal/holidays"
	"github.com/lululau/gridcal/internal/lunar"
	"github.com/lululau/gridcal/internal/picker"
	"github.com/lululau/gridcal/internal/render"
	"github.com/lululau/gridcal/internal/tui"
)

var (
	configFile   = flag.String("config", "", "path to a YAML config file (default: <user config dir>/gridcal/config.yaml)")
	localeFlag   = flag.String("locale", "", "locale identifier, e.g. de-DE (default: config, then $LC_ALL/$LC_TIME/$LANG)")
	weekStart    = flag.String("week-start", "", "first grid column: sunday..saturday or locale")
	yearFlag     = flag.Bool("y", false, "show the whole year")
	plain        = flag.Bool("n", false, "render once and exit (non-interactive)")
	noColor      = flag.Bool("no-color", false, "disable all color output")
	holidaysFile = flag.String("holidays-file", "", "holiday JSON file (default: <user cache dir>/gridcal/holidays.json)")
	holidaysURL  = flag.String("holidays-url", "", "holiday data URL used by -update-holidays (default: config, then the published data)")
	updateFlag   = flag.Bool("update-holidays", false, "download the latest holiday data into the cache and exit")
	pattern      = flag.String("pattern", "", "custom date pattern for the selected-date line, e.g. \"dddd, d MMMM yyyy\"")
	lunarFlag    = flag.Bool("lunar", false, "show Chinese lunar labels")
	listLocales  = flag.Bool("list-locales", false, "list built-in locales and exit")
	verbose      = flag.Bool("v", false, "enable debug logging")
	style        = dateformat.ShortNumeric
)

func main() {
	flag.TextVar(&style, "style", dateformat.ShortNumeric, "display style: short, long, month-day, month-year")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [year] [month]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), `
  no arguments   show the current month
  -y             show the current year
  9              show September of this year
  1983           show the year 1983
  2012 12        show December 2012
  -y 9           show the whole year 9

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *listLocales {
		for _, loc := range dateformat.Available() {
			fmt.Printf("%-10s %-40s week starts %s\n", loc.ID(), loc.Name(), dateformat.WeekdayNames(loc)[0])
		}
		return
	}

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *updateFlag {
		return updateHolidays(cfg, logger)
	}
	if cfg.NoColor {
		render.SetNoColor(true)
		tui.SetNoColor(true)
	}

	var notices []string
	resolver := dateformat.NewResolver(
		dateformat.WithLogger(logger),
		dateformat.WithResolutionListener(dateformat.ResolutionFunc(func(err *dateformat.LocaleResolutionError) {
			notices = append(notices, fmt.Sprintf("Locale %q is not available, using the invariant locale.", err.ID))
		})),
	)
	loc := resolver.ResolveLocale(localeID(cfg))
	logger.Debug("locale resolved", "locale", loc.ID())

	annotators, legend, notice := loadAnnotators(cfg, logger)
	if notice != "" {
		notices = append(notices, notice)
	}

	ym, showYear, err := parseRequest(*yearFlag, flag.Args())
	if err != nil {
		return err
	}

	if *plain || showYear {
		svc := calendar.NewService(
			calendar.WithWeekStart(cfg.WeekStartFor(loc)),
			calendar.WithAnnotators(annotators...),
			calendar.WithLogger(logger),
		)
		today := calendar.FromTime(time.Now())
		return render.RunPlain(render.PlainOptions{
			Service:  svc,
			Locale:   loc,
			Month:    ym,
			Year:     showYear,
			Selected: today,
			Today:    today,
			Legend:   legend,
		})
	}

	c, err := picker.New(cfg, loc, picker.WithLogger(logger), picker.WithAnnotators(annotators...))
	if err != nil {
		return err
	}
	if len(flag.Args()) > 0 {
		if err := c.Show(ym); err != nil {
			return err
		}
	}
	return tui.Run(c, tui.Options{
		Style:  cfg.Style.Next(),
		Legend: legend,
		Notice: strings.Join(notices, "\n"),
	})
}

// loadConfig reads -config, or the default config file when it exists.
func loadConfig() (config.Config, error) {
	if *configFile != "" {
		return config.Load(*configFile)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(filepath.Join(dir, "gridcal", "config.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// applyFlags overrides config fields with the flags given on the command
// line.
func applyFlags(cfg config.Config) config.Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "locale":
			cfg.Locale = *localeFlag
		case "style":
			cfg.Style = style
		case "week-start":
			cfg.WeekStart = *weekStart
		case "holidays-file":
			cfg.HolidaysFile = *holidaysFile
		case "holidays-url":
			cfg.HolidaysURL = *holidaysURL
		case "pattern":
			cfg.Pattern = *pattern
		case "lunar":
			cfg.Lunar = *lunarFlag
		case "no-color":
			cfg.NoColor = *noColor
		}
	})
	return cfg
}

// localeID picks the configured locale, falling back to the POSIX locale
// environment.
func localeID(cfg config.Config) string {
	if cfg.Locale != "" {
		return cfg.Locale
	}
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return dateformat.InvariantID
}

// loadAnnotators returns the enabled annotators, whether holiday colors are
// in use, and a notice for the interactive view.
func loadAnnotators(cfg config.Config, logger *slog.Logger) ([]calendar.Annotator, bool, string) {
	var annotators []calendar.Annotator

	table, notice, err := loadHolidays(cfg, time.Now())
	if err != nil {
		logger.Warn("failed to load holiday data", "error", err)
		notice = fmt.Sprintf("Holiday data could not be loaded: %v", err)
	} else if table != nil {
		logger.Debug("holiday data loaded", "years", table.Years())
		annotators = append(annotators, table)
	}

	if cfg.Lunar {
		annotators = append(annotators, lunar.Annotator{})
	}
	return annotators, table != nil && err == nil, notice
}

// loadHolidays reads the configured holiday file, or the cache file. The
// notice asks for an update when the cache is missing or stale.
func loadHolidays(cfg config.Config, now time.Time) (*holidays.Table, string, error) {
	if cfg.HolidaysFile != "" {
		t, err := holidays.LoadFromFile(cfg.HolidaysFile)
		return t, "", err
	}
	path, err := holidays.CachePath()
	if err != nil {
		return nil, "", err
	}
	return loadCache(path, now)
}

func loadCache(path string, now time.Time) (*holidays.Table, string, error) {
	valid, err := holidays.IsCacheValid(path, now)
	if err != nil {
		return nil, "", err
	}
	t, err := holidays.LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "No holiday data yet. Run gridcal -update-holidays to download it.", nil
	}
	if err != nil {
		return nil, "", err
	}
	if !valid {
		return t, "Holiday data is more than six months old. Run gridcal -update-holidays to refresh it.", nil
	}
	return t, "", nil
}

// updateHolidays downloads holiday data into the cache, behind a progress
// view when stdout is a terminal.
func updateHolidays(cfg config.Config, logger *slog.Logger) error {
	dest, err := holidays.CachePath()
	if err != nil {
		return err
	}
	url := cfg.HolidaysURL
	if url == "" {
		url = holidays.DefaultURL
	}
	ctx := context.Background()
	var info *holidays.YearInfo
	if isatty.IsTerminal(os.Stdout.Fd()) {
		info, err = holidays.DownloadWithProgress(ctx, url, dest)
	} else {
		info, err = holidays.Fetch(ctx, nil, url, dest, nil)
	}
	if err != nil {
		return err
	}
	logger.Info("holiday data updated", "path", dest, "from", info.MinYear, "to", info.MaxYear)
	return nil
}

func parseRequest(showYear bool, args []string) (calendar.YearMonth, bool, error) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	switch len(args) {
	case 0:
		// defaults
	case 1:
		if showYear {
			val, err := parseNumber(args[0], "year")
			if err != nil {
				return calendar.YearMonth{}, false, err
			}
			year = val
		} else {
			val, err := parseNumber(args[0], "month/year")
			if err != nil {
				return calendar.YearMonth{}, false, err
			}
			if val >= 1 && val <= 12 {
				month = val
			} else {
				year = val
				showYear = true
			}
		}
	case 2:
		if showYear {
			return calendar.YearMonth{}, false, errors.New("-y takes at most one year argument")
		}
		y, err := parseNumber(args[0], "year")
		if err != nil {
			return calendar.YearMonth{}, false, err
		}
		m, err := parseNumber(args[1], "month")
		if err != nil {
			return calendar.YearMonth{}, false, err
		}
		if m < 1 || m > 12 {
			return calendar.YearMonth{}, false, fmt.Errorf("month must be between 1 and 12 (got %d)", m)
		}
		year = y
		month = m
	default:
		return calendar.YearMonth{}, false, errors.New("too many arguments, see -help")
	}

	return calendar.YearMonth{Year: year, Month: month}.Normalize(), showYear, nil
}

func parseNumber(value string, field string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as %s", value, field)
	}
	return n, nil
}
