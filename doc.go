/*
Package inkboard is a soft brush raster engine. It keeps an RGBA canvas in memory,
stamps a radial falloff kernel along pointer strokes to draw or erase ink,
and stores the result in lossless image files.

Positions are given in normalized UV coordinates, (0,0) being the top left
corner of the board and (1,1) the bottom right one. Inputs are turned into
events, queued, and applied in order once per frame:

	package main

	import (
		"log"

		"github.com/esimov/inkboard"
	)

	func main() {
		b, err := inkboard.NewBoard(inkboard.DefaultConfig())
		if err != nil {
			log.Fatal(err)
		}

		var q inkboard.Queue
		t := inkboard.NewTracker(&q, 0.002)
		t.Down(inkboard.UV{U: 0.1, V: 0.1})
		t.Drag(inkboard.UV{U: 0.9, V: 0.9})
		t.Up()
		q.Drain(b)

		if err := b.Save("board.png"); err != nil {
			log.Fatal(err)
		}
	}

Recorded sessions can be replayed from TOML stroke scripts, either through
ParseScript or with the command line tool:

	$ inkboard -in strokes.toml -out board.png
*/
package inkboard
