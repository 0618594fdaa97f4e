package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"osplits/internal/api"
	"osplits/internal/config"
	"osplits/internal/domain"
	"osplits/internal/logger"
	"osplits/internal/service"
	"osplits/internal/stats"

	"github.com/rs/zerolog"
)

func main() {
	var (
		file    = flag.String("file", "", "saved WinSplits results page")
		url     = flag.String("url", "", "WinSplits results page to download instead of -file")
		course  = flag.String("course", "", "course name")
		leg     = flag.Int("leg", 0, "also print time lost on this leg")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := logger.Console(level)

	var source domain.RaceSource
	switch {
	case *file != "":
		source = api.FileSource{Path: *file, CourseName: *course}
	case *url != "":
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}
		source = api.URLSource{Client: api.NewWinSplitsClient(cfg, log), URL: *url, CourseName: *course}
	default:
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	input, err := source.ProduceRaceInput(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read results")
	}
	analysis, err := service.Analyze(ctx, log, input)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to analyze race")
	}

	if err := report(os.Stdout, analysis, *leg); err != nil {
		log.Fatal().Err(err).Msg("failed to print report")
	}
}

func report(out io.Writer, a *service.Analysis, leg int) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "%s\n%d controls, %d runners\n\n", a.Race.Name, a.Race.Controls(), len(a.Race.Runners()))

	fmt.Fprintln(w, "Pl\tName\tTime")
	for i, r := range a.Race.Finishers() {
		finish, _ := r.FinishTime()
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, r.Name, finish)
	}

	if excluded := a.Race.Excluded(); len(excluded) > 0 {
		fmt.Fprintln(w, "\nExcluded\tReason\t")
		for _, ex := range excluded {
			fmt.Fprintf(w, "%s\t%v\t\n", ex.Name, ex.Reason)
		}
	}

	if leg > 0 {
		losses, err := a.Race.TimeLostOnLeg(leg)
		switch {
		case errors.Is(err, domain.ErrEmptyRanking):
			fmt.Fprintf(w, "\nNobody ranked on leg %d\n", leg)
		case err != nil:
			return err
		default:
			fmt.Fprintf(w, "\nLeg %d\tLeg time\tLost\n", leg)
			for _, l := range losses {
				fmt.Fprintf(w, "%s\t%s\t+%s\n", l.Name, l.Leg, l.Lost)
			}
		}
	}

	fmt.Fprintln(w, "\nName\tMean PI\tLegs")
	for i, r := range a.Race.Runners() {
		points := a.Performance.Series[i]
		mean, ok := stats.MeanIndex(points)
		if !ok {
			fmt.Fprintf(w, "%s\t-\t0\n", r.Name)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\t%d\n", r.Name, mean, len(points))
	}

	return w.Flush()
}
