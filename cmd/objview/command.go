// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/camera"
	"github.com/gviegas/sgraph/device"
	_ "github.com/gviegas/sgraph/device/headless"
	"github.com/gviegas/sgraph/node"
	"github.com/gviegas/sgraph/scene"
)

type options struct {
	driver   string
	config   string
	mtlBase  string
	frames   int
	frameMS  uint32
	fov      float32
	logLevel string
	noDump   bool
}

func newCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "objview [flags] FILE...",
		Short:        "Load OBJ and glTF files into a scene graph and render them",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), &opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.driver, "driver", "d", "headless", "device driver name")
	f.StringVarP(&opts.config, "config", "c", "", "scene configuration file (.toml, .yaml)")
	f.StringVarP(&opts.mtlBase, "mtl-base", "m", "", "base directory of material libraries and textures")
	f.IntVarP(&opts.frames, "frames", "n", 1, "number of frames to render")
	f.Uint32Var(&opts.frameMS, "frame-ms", 16, "time between frames, in milliseconds")
	f.Float32Var(&opts.fov, "fov", 45, "vertical field of view, in degrees")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.noDump, "no-dump", false, "do not print the scene graph")
	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.ToUpper(s)))
	return l, err
}

func run(stdout, stderr io.Writer, opts *options, files []string) error {
	level, err := parseLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("objview: %w", err)
	}
	sgraph.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer sgraph.SetLogger(nil)

	cam := camera.New()
	cam.FOV = opts.fov
	if err := cam.Validate(); err != nil {
		return err
	}

	cfg := scene.DefaultConfig()
	if opts.config != "" {
		if cfg, err = scene.LoadConfig(opts.config); err != nil {
			return err
		}
	}
	drv, ctx, err := device.Open(opts.driver)
	if err != nil {
		return fmt.Errorf("objview: %w", err)
	}
	defer drv.Close()

	svc, err := scene.New(device.NewCurrent(ctx), &cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".gltf", ".glb":
			_, err = svc.LoadGLTFScene(nil, file)
		default:
			_, err = svc.LoadObjScene(nil, file, opts.mtlBase)
		}
		if err != nil {
			return err
		}
	}
	svc.SetCamera(cam)

	rec, _ := ctx.Renderer().(interface{ Calls() []device.Draw })
	var t uint32
	for range opts.frames {
		svc.Frame(t)
		t += opts.frameMS
	}

	var meshes, triangles int
	node.Walk(svc.Root(), func(n node.Node) bool {
		if m, ok := n.(*node.Mesh); ok {
			meshes++
			triangles += m.IndexCount() / 3
		}
		return true
	})
	if !opts.noDump {
		if err := node.Dump(stdout, svc.Root()); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "driver=%s frames=%d meshes=%d triangles=%d", drv.Name(), opts.frames, meshes, triangles)
	if rec != nil {
		fmt.Fprintf(stdout, " draws=%d", len(rec.Calls()))
	}
	fmt.Fprintln(stdout)
	return nil
}
