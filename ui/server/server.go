package server

import (
	"context"
	"fmt"
	"time"

	"github.com/adimaman22/Network-Speed-Test/session"
)

type ServerUI interface {
	Paint(seconds uint64)
	AddInfoMsg(string)
	AddErrorMsg(string)
}

type UI struct {
	Terminal ServerUI
	isTui    bool
}

// NewUI returns a terminal UI over the session registry, falling back to
// plain line output when the terminal cannot be initialized.
func NewUI(terminalUI bool, registry *session.Registry) *UI {
	var ui ServerUI
	var err error

	if terminalUI {
		ui, err = InitTui(registry)
		if err != nil {
			fmt.Println("Error: Failed to initialize UI.", err)
			fmt.Println("Using command line view instead of UI")
		}
	}

	if ui == nil {
		terminalUI = false
		ui = InitRawUI(registry)
	}

	return &UI{
		Terminal: ui,
		isTui:    terminalUI,
	}
}

func (u *UI) Display(ctx context.Context) {
	go func() {
		paintTicker := time.NewTicker(time.Second)
		defer paintTicker.Stop()
		start := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case <-paintTicker.C:
				seconds := uint64(time.Since(start).Seconds())
				if seconds == 0 {
					seconds = 1
				}
				u.Terminal.Paint(seconds)
				start = time.Now()
			}
		}
	}()
}

func (u *UI) AddInfoMsg(msg string) {
	u.Terminal.AddInfoMsg(msg)
}

func (u *UI) AddErrorMsg(msg string) {
	u.Terminal.AddErrorMsg(msg)
}
