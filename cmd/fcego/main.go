// Command fcego runs an iNES ROM image through the fcego NES emulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-fce/fcego/console"
	"github.com/go-fce/fcego/hal"
	"github.com/go-fce/fcego/ines"
	"github.com/go-fce/fcego/nesrom"
)

var (
	nesROM   = flag.String("nes_rom", "", "path to an iNES (.nes) ROM image")
	scale    = flag.Int("scale", 2, "integer window scale factor")
	headless = flag.Bool("headless", false, "run without opening a window, for scripted/CI use")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Errorf("fcego: %v", err)
		if errors.Is(err, ines.ErrInvalidRom) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	if *nesROM == "" {
		return fmt.Errorf("-nes_rom is required")
	}

	rom, err := nesrom.New(*nesROM)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *nesROM, err)
	}
	glog.Infof("loaded %s", rom)

	var h hal.HAL
	var eh *hal.EbitenHAL
	if !*headless {
		eh = hal.NewEbitenHAL()
		if err := eh.Init(fmt.Sprintf("fcego - %s", *nesROM), *scale); err != nil {
			return fmt.Errorf("initializing display: %w", err)
		}
		h = eh
	}

	cons, err := console.New(rom, h, *headless)
	if err != nil {
		return fmt.Errorf("building console: %w", err)
	}
	cons.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *headless {
		return cons.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- cons.Run(ctx) }()

	// ebiten.RunGame returns once the user closes the window. cancel
	// alone isn't enough to unstick the emulation goroutine: it may be
	// parked inside WaitForFrame, which only unblocks on a tick (no
	// longer coming, since ebiten's loop has ended) or eh.Close, not on
	// ctx.Done. Close it explicitly so cons.Run observes ctx.Done at
	// its next iteration instead of hanging forever.
	runErr := ebiten.RunGame(eh)
	cancel()
	eh.Close()
	<-errCh
	if runErr != nil {
		return fmt.Errorf("running display: %w", runErr)
	}
	return nil
}
