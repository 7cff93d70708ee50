// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tween-demo/main.go
// Summary: Interactive terminal demo driving the engine from a frame loop.
// Usage: go run ./cmd/tween-demo [fps]; space pauses, r restarts, c cancels, q quits.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/tweenline/ease"
	"github.com/framegrace/tweenline/tween"
)

const (
	channelPosition = 1
	channelColor    = 2
)

// sprite is a movable glyph on the screen.
type sprite struct {
	x, y  float32
	ch    rune
	label string
}

type spriteAccessor struct{}

func (spriteAccessor) GetValues(target interface{}, tweenType int, out []float32) int {
	s := target.(*sprite)
	out[0], out[1] = s.x, s.y
	return 2
}

func (spriteAccessor) SetValues(target interface{}, tweenType int, in []float32) {
	s := target.(*sprite)
	s.x, s.y = in[0], in[1]
}

// banner carries the title hue animated through HSV space.
type banner struct {
	h, s, v float32
}

type bannerAccessor struct{}

func (bannerAccessor) GetValues(target interface{}, tweenType int, out []float32) int {
	b := target.(*banner)
	out[0], out[1], out[2] = b.h, b.s, b.v
	return 3
}

func (bannerAccessor) SetValues(target interface{}, tweenType int, in []float32) {
	b := target.(*banner)
	b.h, b.s, b.v = in[0], in[1], in[2]
}

func main() {
	targetFPS := 60
	if len(os.Args) > 1 {
		var fps int
		if _, err := fmt.Sscanf(os.Args[1], "%d", &fps); err == nil && fps > 0 {
			targetFPS = fps
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	engine := tween.NewEngineBuilder().
		SetCombinedAttributesLimit(3).
		SetWaypointsLimit(4).
		RegisterAccessor(&sprite{}, spriteAccessor{}).
		RegisterAccessor(&banner{}, bannerAccessor{}).
		Build()

	w, _ := screen.Size()
	title := &banner{h: 0, s: 0.7, v: 0.95}
	sprites := buildScene(engine, title, w)

	// keys are funneled into the frame loop so all engine calls stay on one
	// goroutine
	keys := make(chan rune, 8)
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape {
					keys <- 'q'
					continue
				}
				keys <- ev.Rune()
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(targetFPS))
	defer ticker.Stop()

	for {
		select {
		case key := <-keys:
			switch key {
			case 'q':
				return
			case ' ':
				if engine.IsPaused() {
					engine.Resume()
					engine.ResetUpdateTime()
				} else {
					engine.Pause()
				}
			case 'c':
				engine.CancelAll()
			case 'r':
				engine.CancelAll()
				nw, _ := screen.Size()
				sprites = buildScene(engine, title, nw)
			}
		case <-ticker.C:
			engine.Update()
			render(screen, engine, title, sprites)
		}
	}
}

// buildScene races one sprite per easing family across the screen and keeps
// the title hue cycling. A sequential timeline moves the bottom sprite to
// mid-screen, pauses, bounces it to the right edge, pauses again and returns
// it to the left.
func buildScene(engine *tween.Engine, title *banner, width int) []*sprite {
	curves := []struct {
		name string
		fn   ease.Func
	}{
		{"linear", ease.Linear},
		{"quad-in-out", ease.QuadInOut},
		{"cubic-in-out", ease.CubicInOut},
		{"expo-in-out", ease.ExpoInOut},
		{"back-out", ease.BackOut},
		{"bounce-out", ease.BounceOut},
		{"elastic-out", ease.ElasticOut},
	}

	right := float32(width - 24)
	if right < 10 {
		right = 10
	}

	sprites := make([]*sprite, 0, len(curves)+1)
	for i, c := range curves {
		s := &sprite{x: 2, y: float32(3 + 2*i), ch: '●', label: c.name}
		sprites = append(sprites, s)
		engine.Add(engine.To(s, channelPosition, 2.5).
			Target(right, s.y).
			Ease(c.fn).
			Delay(float32(i) * 0.15).
			RepeatAutoReverse(tween.Infinity, 0.4))
	}

	// hue sweep around the wheel, forever
	engine.Add(engine.To(title, channelColor, 6.0).
		Target(360, 0.7, 0.95).
		Ease(ease.Linear).
		Repeat(tween.Infinity, 0))

	// a sequenced out-and-back run under the racers
	diver := &sprite{x: 2, y: float32(3 + 2*len(curves)), ch: '◆', label: "timeline"}
	sprites = append(sprites, diver)
	engine.Add(engine.CreateSequential().
		Push(engine.To(diver, channelPosition, 1.5).Target(right/2, diver.y).Ease(ease.QuadInOut)).
		PushPause(0.5).
		Push(engine.To(diver, channelPosition, 1.5).Target(right, diver.y).Ease(ease.BounceOut)).
		PushPause(0.5).
		Push(engine.To(diver, channelPosition, 2.0).Target(2, diver.y).Ease(ease.ExpoInOut)).
		Repeat(tween.Infinity, 0.25))

	return sprites
}

func render(screen tcell.Screen, engine *tween.Engine, title *banner, sprites []*sprite) {
	screen.Clear()

	hue := float64(title.h)
	for hue >= 360 {
		hue -= 360
	}
	col := colorful.Hsv(hue, float64(title.s), float64(title.v))
	r, g, b := col.RGB255()
	titleStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Bold(true)

	drawString(screen, 2, 1, "tweenline demo — space pause, r restart, c cancel, q quit", titleStyle)

	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, s := range sprites {
		drawString(screen, 2, int(s.y)+1, s.label, dim)
		screen.SetContent(int(s.x)+14, int(s.y), s.ch, nil, tcell.StyleDefault)
	}

	status := fmt.Sprintf("active units: %d (tweens %d, timelines %d)",
		engine.Size(), engine.RunningTweensCount(), engine.RunningTimelinesCount())
	if engine.IsPaused() {
		status += "  [paused]"
	}
	_, h := screen.Size()
	drawString(screen, 2, h-2, status, dim)

	screen.Show()
}

func drawString(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
