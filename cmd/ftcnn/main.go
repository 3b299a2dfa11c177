// Package main provides the ftcnn annotation preprocessing tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Oasiss999/FTCNN/internal/config"
	"github.com/Oasiss999/FTCNN/internal/geotiff"
	"github.com/Oasiss999/FTCNN/internal/logger"
	"github.com/Oasiss999/FTCNN/pkg/dataset"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ftcnn",
	Short: "ftcnn - geospatial annotation preprocessing for raster training tiles",
	Long: `ftcnn prepares geospatial vector annotations for alignment with raster
imagery tiles.

It normalizes polygon annotations, flattens grouped multi-part geometries
into one simple polygon per row with derived bounding boxes, and joins the
flattened annotation set onto a directory of GeoTIFF tiles by spatial
intersection, emitting clipped per-tile geometries.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("ftcnn %s (commit %s, built %s)\n", version, commit, buildDate)
	},
}

var (
	flattenInput   string
	flattenOutput  string
	flattenGroupBy string
)

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Flatten grouped annotation geometries into simple polygons",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

		groupBy := cfg.Pipeline.GroupBy
		if flattenGroupBy != "" {
			groupBy = flattenGroupBy
		}

		src, err := readCollection(flattenInput, cfg.Pipeline.GeometryColumn, cfg.Pipeline.CRS)
		if err != nil {
			return err
		}
		slog.Info("loaded annotations", "records", src.Len(), "crs", src.CRS)

		flat, err := dataset.Flatten(src, groupBy)
		if err != nil {
			return err
		}
		slog.Info("flattened annotations", "rows", flat.Len())

		return writeCollection(flat, flattenOutput)
	},
}

var (
	metaInput        string
	metaImages       string
	metaOutput       string
	metaFilenameAttr string
	metaPreserve     []string
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Join image dimensions onto annotation records",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

		src, err := readCollection(metaInput, cfg.Pipeline.GeometryColumn, cfg.Pipeline.CRS)
		if err != nil {
			return err
		}
		slog.Info("loaded annotations", "records", src.Len(), "crs", src.CRS)

		opener := geotiff.NewOpener(cfg.Mapper.CacheSize)
		parseFilename := func(rec *dataset.Record) string {
			v, _ := rec.Attrs.Get(metaFilenameAttr)
			name, _ := v.(string)
			return name
		}

		mapped, err := dataset.MapMetadata(src, metaImages,
			dataset.OpenerFunc(func(path string) (dataset.RasterDataset, error) {
				return opener.Open(path)
			}), parseFilename, dataset.PreserveFields(metaPreserve...))
		if err != nil {
			return err
		}
		slog.Info("mapped metadata", "rows", mapped.Len())

		return writeCollection(mapped, metaOutput)
	},
}

var (
	mapInput  string
	mapImages string
	mapOutput string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map annotation geometries onto GeoTIFF tiles",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

		src, err := readCollection(mapInput, cfg.Pipeline.GeometryColumn, cfg.Pipeline.CRS)
		if err != nil {
			return err
		}
		slog.Info("loaded annotations", "records", src.Len(), "crs", src.CRS)

		opener := geotiff.NewOpener(cfg.Mapper.CacheSize)
		opts := dataset.MapOptions{
			Suffix:     cfg.Mapper.Suffix,
			Recurse:    cfg.Mapper.Recurse,
			Parallel:   cfg.Mapper.Parallel,
			Workers:    cfg.Mapper.Workers,
			SkipErrors: cfg.Mapper.SkipErrors,
			ErrorLog:   os.Stderr,
		}

		mapped, errs := dataset.MapToRasters(src, mapImages,
			dataset.OpenerFunc(func(path string) (dataset.RasterDataset, error) {
				return opener.Open(path)
			}), opts)
		for _, err := range errs {
			slog.Warn("raster skipped", "error", err)
		}
		if mapped == nil {
			return fmt.Errorf("mapping failed with %d errors", len(errs))
		}
		slog.Info("mapped annotations", "rows", mapped.Len(), "skipped", len(errs))

		return writeCollection(mapped, mapOutput)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	flattenCmd.Flags().StringVar(&flattenInput, "input", "", "input CSV with a WKT geometry column")
	flattenCmd.Flags().StringVar(&flattenOutput, "output", "", "output CSV path")
	flattenCmd.Flags().StringVar(&flattenGroupBy, "group-by", "", "attribute to group records by")
	_ = flattenCmd.MarkFlagRequired("input")
	_ = flattenCmd.MarkFlagRequired("output")

	metadataCmd.Flags().StringVar(&metaInput, "input", "", "input CSV with a WKT geometry column")
	metadataCmd.Flags().StringVar(&metaImages, "images", "", "directory of image files")
	metadataCmd.Flags().StringVar(&metaOutput, "output", "", "output CSV path")
	metadataCmd.Flags().StringVar(&metaFilenameAttr, "filename-attr", "filename", "attribute holding each record's image filename")
	metadataCmd.Flags().StringSliceVar(&metaPreserve, "preserve", nil, "attributes to pass through to the output")
	_ = metadataCmd.MarkFlagRequired("input")
	_ = metadataCmd.MarkFlagRequired("images")
	_ = metadataCmd.MarkFlagRequired("output")

	mapCmd.Flags().StringVar(&mapInput, "input", "", "input CSV with a WKT geometry column")
	mapCmd.Flags().StringVar(&mapImages, "images", "", "directory of GeoTIFF tiles")
	mapCmd.Flags().StringVar(&mapOutput, "output", "", "output CSV path")
	_ = mapCmd.MarkFlagRequired("input")
	_ = mapCmd.MarkFlagRequired("images")
	_ = mapCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(versionCmd, flattenCmd, metadataCmd, mapCmd)
}
