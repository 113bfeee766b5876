package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"quadfit/internal/models"
	"quadfit/pkg/approximation"
	"quadfit/pkg/config"
	"quadfit/pkg/datasets"
	"quadfit/pkg/logging"
	"quadfit/pkg/visualization"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "quadfit: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("quadfit", flag.ContinueOnError)
	configPath := fs.String("config", "quadfit.yaml", "YAML configuration file (defaults are used when missing)")
	initConfig := fs.Bool("init-config", false, "Write the default configuration to -config and exit")
	dataFile := fs.String("data", "", "YAML file with datasets (default: built-in datasets)")
	dataSetName := fs.String("dataset", "MzOmegaZ", "Name of the dataset to fit")
	list := fs.Bool("list", false, "List available datasets and exit")
	curvePoints := fs.Int("points", 0, "Number of points on the sampled curve (default from config)")
	reportPath := fs.String("report", "", "Write a YAML report with coefficients and curve to this file")
	plotPath := fs.String("plot", "", "Render samples and fitted curve to this PNG or JPEG file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Default configuration written to %s\n", *configPath)
		return nil
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *curvePoints != 0 {
		cfg.Approximation.CurvePoints = *curvePoints
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	sets := datasets.All()
	if *dataFile != "" {
		if sets, err = datasets.LoadFile(*dataFile); err != nil {
			return err
		}
		logger.Debug().Str("file", *dataFile).Int("datasets", len(sets)).Msg("datasets loaded")
	}

	if *list {
		for _, s := range sets {
			fmt.Fprintf(stdout, "%-12s %3d points  %s\n", s.Name, len(s.Points), s.Description)
		}
		return nil
	}

	set, err := datasets.Find(sets, *dataSetName)
	if err != nil {
		return err
	}

	fitter := approximation.NewLeastSquaresFitter(
		approximation.WithSingularityThreshold(cfg.Approximation.SingularityThreshold),
		approximation.WithVarianceThreshold(cfg.Approximation.VarianceThreshold),
		approximation.WithLogger(logger),
	)

	startTime := time.Now()
	result, err := fitter.Fit(set.Points)
	if err != nil {
		logger.Error().Err(err).Str("dataset", set.Name).Msg("fit failed")
		return err
	}

	minX, maxX, _ := approximation.XRange(set.Points)
	minX, maxX = approximation.ExtendRange(minX, maxX, cfg.Plot.CurveExtension)
	curve, err := fitter.GeneratePolynomialPoints(result, minX, maxX, cfg.Approximation.CurvePoints)
	if err != nil {
		logger.Error().Err(err).Str("dataset", set.Name).Msg("curve generation failed")
		return err
	}

	logger.Info().
		Str("dataset", set.Name).
		Int("points", len(set.Points)).
		Int("curve_points", len(curve)).
		Dur("elapsed", time.Since(startTime)).
		Msg("fit complete")

	equation := result.FormatEquation(cfg.Approximation.EquationPrecision, cfg.Approximation.NegligibleTermThreshold)
	printResult(stdout, cfg, set, result, equation)

	if *reportPath != "" {
		report := models.NewFitReport(set, result, equation, curve)
		if err := report.Save(*reportPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nReport saved to: %s\n", *reportPath)
	}

	if *plotPath != "" {
		plotter := visualization.NewPlotter(cfg.Plot.Width, cfg.Plot.Height, cfg.Plot.Margin)
		img, err := plotter.Render(set.Points, curve, result)
		if err != nil {
			return err
		}
		if err := visualization.Save(img, *plotPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Plot saved to: %s\n", *plotPath)
	}

	return nil
}

func printResult(w io.Writer, cfg *config.Config, set datasets.DataSet, result *approximation.PolynomialResult, equation string) {
	prec := cfg.Approximation.CoefficientPrecision

	fmt.Fprintf(w, "Dataset: %s (%s)\n", set.Name, set.Description)
	fmt.Fprintf(w, "Points:  %d\n", len(set.Points))
	if cfg.Output.Verbose {
		for _, p := range set.Points {
			fmt.Fprintf(w, "  (%g, %g)\n", p.X, p.Y)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "A    = %.*f\n", prec, result.A)
	fmt.Fprintf(w, "B    = %.*f\n", prec, result.B)
	fmt.Fprintf(w, "C    = %.*f\n", prec, result.C)
	fmt.Fprintf(w, "R²   = %.4f\n", result.RSquared)
	fmt.Fprintf(w, "RMSE = %.*f\n", prec, result.RootMeanSquareError)
	fmt.Fprintln(w)
	fmt.Fprintln(w, equation)
}
