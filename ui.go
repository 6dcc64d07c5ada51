package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func MainLoop(cfg ViewerConfig) error {
	done := make(chan struct{})
	renderLoopComplete := make(chan struct{})
	var err error
	sdl.Main(func() {
		sdl.Do(func() {
			if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
				panic(err)
			}
		})
		defer sdl.Do(func() { sdl.Quit() })

		var viewer *MapViewer
		sdl.Do(func() {
			viewer, err = NewMapViewer(cfg)
		})
		if err != nil {
			return
		}
		defer sdl.Do(func() { viewer.Destroy() })

		go RenderLoop(viewer, done, renderLoopComplete)
		EventLoop(viewer, done)
		log.Trace("Waiting for render loop")
		<-renderLoopComplete
	})
	return err
}

// EventLoop waits with a timeout so the render loop gets the SDL thread
// between events.
func EventLoop(viewer *MapViewer, done chan struct{}) {
	for {
		var event sdl.Event
		sdl.Do(func() {
			event = sdl.WaitEventTimeout(1000 / Fps)
		})
		if event == nil {
			continue
		}
		if _, ok := event.(*sdl.QuitEvent); ok {
			log.Info("Quit")
			close(done)
			return
		}
		sdl.Do(func() {
			viewer.handleEvent(event)
		})
	}
}

const (
	Fps = 60
)

func RenderLoop(viewer *MapViewer, done, complete chan struct{}) {
	ticker := time.NewTicker(time.Second / Fps)
	defer ticker.Stop()
outer:
	for {
		select {
		case now := <-ticker.C:
			sdl.Do(func() { viewer.Frame(now) })
		case <-done:
			break outer
		}
	}
	complete <- struct{}{}
}
