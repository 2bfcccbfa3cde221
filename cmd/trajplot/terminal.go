// cmd/trajplot/terminal.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"

	"github.com/mmp/trajplot/math"
	"github.com/mmp/trajplot/renderer"

	"github.com/gdamore/tcell/v2"
)

// runTerminal plots the scenario in the terminal until the user quits.
// The arrow keys orbit the camera, +/- zoom, [ and ] step through time,
// and q or escape exit.
func (v *viewer) runTerminal() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	r := renderer.NewTerminalRenderer(screen, v.lg)
	defer r.Dispose()

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	t := v.scenario.Time
	v.setTime(t)

	for {
		w, h := screen.Size()
		camera := v.camera(w, h)
		r.SetCamera(camera)

		cb.Reset()
		cb.ClearRGBA(renderer.RGBA{A: 1})
		result := v.plotFrame(camera, cb)
		rs := r.RenderCommandBuffer(cb)

		v.drawStatus(screen, fmt.Sprintf("t=%.0fs  dist=%.3gm  %s  %d maneuvers  [%s]",
			t, v.config.Camera.Distance, result.Stats, len(result.Maneuvers), rs.String()))
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()

		case *tcell.EventKey:
			cc := &v.config.Camera
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyLeft:
				cc.Azimuth -= 10
			case tcell.KeyRight:
				cc.Azimuth += 10
			case tcell.KeyUp:
				cc.Elevation = math.Clamp(cc.Elevation+10, -80, 80)
			case tcell.KeyDown:
				cc.Elevation = math.Clamp(cc.Elevation-10, -80, 80)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					return nil
				case '+', '=':
					cc.Distance /= 2
				case '-':
					cc.Distance *= 2
				case '[':
					t -= 3600
					v.setTime(t)
				case ']':
					t = min(t+3600, v.scenario.Time)
					v.setTime(t)
				}
			}
		}
	}
}

func (v *viewer) drawStatus(screen tcell.Screen, s string) {
	w, h := screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, ch := range s {
		if x >= w {
			break
		}
		screen.SetContent(x, h-1, ch, nil, style)
		x++
	}
	for ; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, style)
	}
}
