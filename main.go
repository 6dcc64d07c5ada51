package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tlanfk/bag-map/assets"
	"github.com/tlanfk/bag-map/settings"
)

const (
	settingsFileName = "custom_maps.txt"
	resourceDirName  = "resources"
)

// besideExecutable resolves name relative to the directory holding the
// binary, falling back to the working directory.
func besideExecutable(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}

func parseKey(mapName, layerName string) (assets.Key, error) {
	if layerName == "" {
		layerName = string(assets.LayerMap)
	}
	k := assets.Key{
		Map:   assets.MapID(strings.ToLower(mapName)),
		Layer: assets.LayerID(strings.ToLower(layerName)),
	}
	return k, k.Validate()
}

// loadSettings never fails: an unreadable file is reported and the viewer
// carries on with defaults.
func loadSettings(path string) *settings.Settings {
	s, err := settings.Load(path)
	if err != nil {
		log.Warnf("Cannot load settings, using defaults: %v", err)
		return settings.New()
	}
	return s
}

func main() {
	var configPath, resourceDir, logLevel string
	var mapName, layerName, filePath, outPath string
	var zoomSensitivity, panSensitivity float64
	var width, height, zoomSteps int
	var atX, atY float64

	mapFlag := func(required bool) *cli.StringFlag {
		return &cli.StringFlag{
			Name:        "map",
			Aliases:     []string{"m"},
			Usage:       "Map to open (erangel, miramar, taego, deston, vikendi, rondo, paramo)",
			Destination: &mapName,
			Required:    required,
		}
	}
	layerFlag := &cli.StringFlag{
		Name:        "layer",
		Aliases:     []string{"l"},
		Usage:       "Layer to open (map, heatmap1, heatmap2)",
		Value:       string(assets.LayerMap),
		Destination: &layerName,
	}

	viewAction := func(cCtx *cli.Context) error {
		s := loadSettings(configPath)
		store := assets.NewStore(resourceDir, s.Overrides)
		store.Preload()

		cfg := ViewerConfig{
			Store:        store,
			Settings:     s,
			SettingsPath: configPath,
		}
		if mapName != "" {
			k, err := parseKey(mapName, layerName)
			if err != nil {
				return err
			}
			cfg.Initial = &k
		}
		return MainLoop(cfg)
	}

	app := &cli.App{
		Name:                 "bag-map",
		Usage:                "Browse battle royale maps and heat maps",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Settings file with image overrides and sensitivities",
				Value:       besideExecutable(settingsFileName),
				EnvVars:     []string{"BAGMAP_CONFIG"},
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "resources",
				Aliases:     []string{"r"},
				Usage:       "Directory with the bundled map images",
				Value:       besideExecutable(resourceDirName),
				EnvVars:     []string{"BAGMAP_RESOURCES"},
				Destination: &resourceDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (trace, debug, info, warn, error)",
				Value:       "info",
				EnvVars:     []string{"BAGMAP_LOG_LEVEL"},
				Destination: &logLevel,
			},
		},
		Before: func(cCtx *cli.Context) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Action: viewAction,
		Commands: []*cli.Command{
			{
				Name:    "view",
				Aliases: []string{"v"},
				Usage:   "Open the map viewer window",
				Action:  viewAction,
				Flags:   []cli.Flag{mapFlag(false), layerFlag},
			},
			{
				Name:    "override",
				Aliases: []string{"o"},
				Usage:   "Replace or restore a layer image",
				Subcommands: []*cli.Command{
					{
						Name:  "set",
						Usage: "Use an image file for a map layer",
						Action: func(cCtx *cli.Context) error {
							k, err := parseKey(mapName, layerName)
							if err != nil {
								return err
							}
							abs, err := filepath.Abs(filePath)
							if err != nil {
								return err
							}
							s := loadSettings(configPath)
							store := assets.NewStore(resourceDir, s.Overrides)
							img, err := store.Replace(k, abs)
							if err != nil {
								return fmt.Errorf("cannot use %s: %w", abs, err)
							}
							s.Overrides[k] = abs
							if err := settings.Save(configPath, s); err != nil {
								return err
							}
							w, h := img.Size()
							fmt.Printf("%s now uses %s (%dx%d)\n", k.Title(), abs, w, h)
							return nil
						},
						Flags: []cli.Flag{
							mapFlag(true),
							layerFlag,
							&cli.StringFlag{
								Name:        "file",
								Aliases:     []string{"f"},
								Usage:       "Image file to use",
								Destination: &filePath,
								Required:    true,
							},
						},
					},
					{
						Name:  "clear",
						Usage: "Go back to the bundled image for a map layer",
						Action: func(cCtx *cli.Context) error {
							k, err := parseKey(mapName, layerName)
							if err != nil {
								return err
							}
							s := loadSettings(configPath)
							if _, ok := s.Overrides[k]; !ok {
								fmt.Printf("%s has no override\n", k.Title())
								return nil
							}
							delete(s.Overrides, k)
							if err := settings.Save(configPath, s); err != nil {
								return err
							}
							fmt.Printf("%s restored to the bundled image\n", k.Title())
							return nil
						},
						Flags: []cli.Flag{mapFlag(true), layerFlag},
					},
				},
			},
			{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "Show or change saved settings",
				Subcommands: []*cli.Command{
					{
						Name:  "show",
						Usage: "Print overrides and sensitivities",
						Action: func(cCtx *cli.Context) error {
							printSettings(configPath, loadSettings(configPath))
							return nil
						},
					},
					{
						Name:  "reset",
						Usage: "Restore default sensitivities",
						Action: func(cCtx *cli.Context) error {
							s := loadSettings(configPath)
							s.ResetSensitivity()
							return settings.Save(configPath, s)
						},
					},
					{
						Name:  "set",
						Usage: "Change sensitivities",
						Action: func(cCtx *cli.Context) error {
							s := loadSettings(configPath)
							if cCtx.IsSet("zoom") {
								s.Sensitivity.Zoom = zoomSensitivity
							}
							if cCtx.IsSet("pan") {
								s.Sensitivity.Pan = panSensitivity
							}
							s.Sensitivity = s.Sensitivity.Clamp()
							if err := settings.Save(configPath, s); err != nil {
								return err
							}
							fmt.Printf("Sensitivity: %v\n", s.Sensitivity)
							return nil
						},
						Flags: []cli.Flag{
							&cli.Float64Flag{
								Name:        "zoom",
								Usage:       "Zoom step per wheel notch (0.10 - 0.30)",
								Destination: &zoomSensitivity,
							},
							&cli.Float64Flag{
								Name:        "pan",
								Usage:       "Drag distance multiplier (0.1 - 2.0)",
								Destination: &panSensitivity,
							},
						},
					},
				},
			},
			{
				Name:  "chart",
				Usage: "Write an HTML chart of the zoom levels reached per wheel step",
				Action: func(cCtx *cli.Context) error {
					s := loadSettings(configPath)
					if err := drawZoomChart(outPath, s.Sensitivity); err != nil {
						return err
					}
					fmt.Printf("Chart written to %s\n", outPath)
					return nil
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "out",
						Aliases:     []string{"o"},
						Usage:       "Output HTML file",
						Value:       "zoom_ladder.html",
						Destination: &outPath,
					},
				},
			},
			{
				Name:  "snapshot",
				Usage: "Render a map view to a PNG file without opening a window",
				Action: func(cCtx *cli.Context) error {
					k, err := parseKey(mapName, layerName)
					if err != nil {
						return err
					}
					s := loadSettings(configPath)
					req := SnapshotRequest{
						Key:       k,
						Width:     width,
						Height:    height,
						ZoomSteps: zoomSteps,
						At:        pointOrCentre(cCtx, atX, atY, width, height),
						Out:       outPath,
					}
					store := assets.NewStore(resourceDir, s.Overrides)
					if err := snapshot(store, s.Sensitivity, req); err != nil {
						return err
					}
					fmt.Printf("Snapshot written to %s\n", outPath)
					return nil
				},
				Flags: []cli.Flag{
					mapFlag(true),
					layerFlag,
					&cli.IntFlag{Name: "width", Usage: "Panel width", Value: 1200, Destination: &width},
					&cli.IntFlag{Name: "height", Usage: "Panel height", Value: 900, Destination: &height},
					&cli.IntFlag{
						Name:        "zoom-steps",
						Aliases:     []string{"z"},
						Usage:       "Wheel steps to apply; negative zooms out",
						Destination: &zoomSteps,
					},
					&cli.Float64Flag{Name: "x", Usage: "Pointer x for zooming (default: panel centre)", Destination: &atX},
					&cli.Float64Flag{Name: "y", Usage: "Pointer y for zooming (default: panel centre)", Destination: &atY},
					&cli.StringFlag{
						Name:        "out",
						Aliases:     []string{"o"},
						Usage:       "Output PNG file",
						Value:       "snapshot.png",
						Destination: &outPath,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func printSettings(path string, s *settings.Settings) {
	fmt.Printf("Settings file: %s\n", path)
	fmt.Printf("Sensitivity: %v\n", s.Sensitivity)
	if len(s.Overrides) == 0 {
		fmt.Printf("No image overrides\n")
		return
	}
	keys := make([]assets.Key, 0, len(s.Overrides))
	for k := range s.Overrides {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, k := range keys {
		fmt.Printf("  %-24s %s\n", k.Title(), s.Overrides[k])
	}
}
