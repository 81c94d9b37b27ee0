// seehuhn.de/go/colorbook - an interactive raster coloring engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Colorbook colors a coloring book page from the command line.
//
// Usage:
//
//	colorbook [flags] -o out.png
//
// The page is read from an SVG file (-svg) or taken from the built-in
// templates (-template). Each -fill flag applies one fill, in order:
//
//	colorbook -template mandala -fill 500,500:#4ECDC4 -fill 10,10:erase -o page.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"seehuhn.de/go/colorbook/config"
	"seehuhn.de/go/colorbook/logger"
	"seehuhn.de/go/colorbook/persist"
	"seehuhn.de/go/colorbook/session"
	"seehuhn.de/go/colorbook/source"
	"seehuhn.de/go/colorbook/source/templates"
)

// fillOp is a parsed -fill flag.
type fillOp struct {
	x, y  int
	color string // empty for erase
}

type fillList []fillOp

func (l *fillList) String() string {
	parts := make([]string, len(*l))
	for i, op := range *l {
		parts[i] = fmt.Sprintf("%d,%d:%s", op.x, op.y, op.color)
	}
	return strings.Join(parts, " ")
}

// Set parses "x,y:#rrggbb" or "x,y:erase".
func (l *fillList) Set(s string) error {
	pos, col, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("%q: expected x,y:color", s)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return fmt.Errorf("%q: expected x,y:color", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return fmt.Errorf("%q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return fmt.Errorf("%q: %w", s, err)
	}
	if col == "erase" {
		col = ""
	}
	*l = append(*l, fillOp{x: x, y: y, color: col})
	return nil
}

// pngGallery writes saved creations to a PNG file.
type pngGallery struct {
	path string
}

func (g pngGallery) Publish(_ context.Context, c session.Creation) error {
	buf, err := persist.Decode(c.Image)
	if err != nil {
		return err
	}
	f, err := os.Create(g.path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, buf.NRGBA()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	var fills fillList
	svgFile := flag.String("svg", "", "read the line art from this SVG `file`")
	template := flag.String("template", "mandala", "use the built-in template with this `id`")
	priorFile := flag.String("prior", "", "continue from this saved `image`")
	resume := flag.Bool("resume", false, "continue from the stored draft (needs draft.dir in the config)")
	undo := flag.Int("undo", 0, "undo the last `n` fills")
	out := flag.String("o", "", "write the result to this PNG `file`")
	configFile := flag.String("config", "", "read settings from this YAML `file`")
	verbose := flag.Bool("v", false, "log debug output")
	flag.Var(&fills, "fill", "fill at `x,y:color`, where color is #rrggbb or erase (repeatable)")
	flag.Parse()

	var log *zap.Logger
	var err error
	if *verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx := logger.NewContext(context.Background(), log)
	if err := run(ctx, *svgFile, *template, *priorFile, *configFile, *out, *resume, fills, *undo); err != nil {
		log.Error("colorbook failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, svgFile, template, priorFile, configFile, out string, resume bool, fills fillList, undo int) error {
	if out == "" {
		return errors.New("no output file given, use -o")
	}

	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(ctx, configFile)
		if err != nil {
			return err
		}
	}
	if resume && cfg.Draft.Dir == "" {
		return errors.New("-resume needs draft.dir in the config")
	}

	art, err := loadArtwork(svgFile, template)
	if err != nil {
		return err
	}

	var prior []byte
	if priorFile != "" {
		prior, err = os.ReadFile(priorFile)
		if err != nil {
			return err
		}
	}

	drafts, err := persist.NewStore(cfg.Draft)
	if err != nil {
		return err
	}

	log := logger.L(ctx)
	s, err := session.Open(ctx, art, session.Options{
		Config:  cfg,
		Drafts:  drafts,
		Gallery: pngGallery{path: out},
		Prior:   prior,
		Resume:  resume,
		Warning: func(e *persist.DraftError) {
			log.Warn(e.Error())
		},
	})
	if err != nil {
		log.Warn("using fallback page", zap.Error(err))
	}
	defer func() {
		if err := s.Close(ctx); err != nil {
			log.Warn(err.Error())
		}
	}()

	for _, op := range fills {
		if op.color == "" {
			s.SelectTool(session.EraseTool{})
		} else {
			s.SelectColor(op.color)
		}
		res, _ := s.FillAt(op.x, op.y)
		log.Info("fill",
			zap.Int("x", op.x), zap.Int("y", op.y),
			zap.Stringer("outcome", res.Outcome), zap.Int("changed", res.Changed))
	}
	for range undo {
		if !s.Undo() {
			break
		}
	}

	return s.Save(ctx)
}

func loadArtwork(svgFile, template string) (source.Artwork, error) {
	if svgFile != "" {
		data, err := os.ReadFile(svgFile)
		if err != nil {
			return source.Artwork{}, err
		}
		return source.Artwork{ID: svgFile, Markup: data}, nil
	}
	t, ok := templates.Lookup(template)
	if !ok {
		return source.Artwork{}, fmt.Errorf("unknown template %q", template)
	}
	return source.Artwork{ID: t.ID, Markup: t.Markup}, nil
}
