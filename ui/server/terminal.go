package server

import (
	"fmt"
	"os"
	"sync"

	tm "github.com/nsf/termbox-go"

	"github.com/adimaman22/Network-Speed-Test/session"
	"github.com/adimaman22/Network-Speed-Test/ui"
)

const minTermWidth = 60
const minTermHeight = 20
const bottomPaneHeight = 8

type Tui struct {
	h, w             int
	resX, resY, resW int
	msgX, msgY, msgW int
	splitX, splitY   int
	splitH           int
	errX, errY, errW int

	registry *session.Registry
	rates    *rateTracker

	ringLock sync.RWMutex
	msgRing  []string
	errRing  []string
}

func InitTui(registry *session.Registry) (*Tui, error) {
	err := tm.Init()
	if err != nil {
		return nil, err
	}

	w, h := tm.Size()
	if h < minTermHeight || w < minTermWidth {
		tm.Close()
		return nil, fmt.Errorf("terminal too small (%dwx%dh), must be at least %dwx%dh",
			w, h, minTermWidth, minTermHeight)
	}

	tm.SetInputMode(tm.InputEsc | tm.InputMouse)
	tm.Clear(tm.ColorDefault, tm.ColorDefault)
	tm.Sync()
	tm.Flush()
	tm.SetCursor(0, 0)

	t := &Tui{
		h:        h,
		w:        w,
		registry: registry,
		rates:    newRateTracker(),
		msgRing:  make([]string, bottomPaneHeight-1),
		errRing:  make([]string, bottomPaneHeight-1),
	}
	t.resX = 0
	t.resY = 2
	t.resW = w
	t.msgX = 0
	t.msgY = h - bottomPaneHeight + 1
	t.msgW = (w+1)/2 + 1
	t.splitX = t.msgW
	t.splitY = h - bottomPaneHeight
	t.splitH = bottomPaneHeight
	t.errX = t.splitX + 1
	t.errY = t.msgY
	t.errW = w - t.msgW - 1

	go func() {
		for {
			switch ev := tm.PollEvent(); ev.Type {
			case tm.EventKey:
				if ev.Key == tm.KeyEsc || ev.Key == tm.KeyCtrlC {
					tm.Close()
					os.Exit(0)
				}
			case tm.EventResize:
			}
		}
	}()

	return t, nil
}

func (t *Tui) Paint(seconds uint64) {
	tm.Clear(tm.ColorDefault, tm.ColorDefault)
	defer tm.Flush()

	printCenterText(0, 0, t.w, "speedtest server", tm.ColorBlack, tm.ColorWhite)
	printHLineText(t.resX, t.resY-1, t.resW, "Live Sessions")
	printHLineText(t.msgX, t.msgY-1, t.msgW, "Messages")
	printHLineText(t.errX, t.errY-1, t.errW, "Errors")
	printVLine(t.splitX, t.splitY, t.splitH)

	t.ringLock.RLock()
	for i, s := range t.msgRing {
		printText(t.msgX, t.msgY+i, t.msgW, s, tm.ColorDefault, tm.ColorDefault)
	}
	for i, s := range t.errRing {
		printText(t.errX, t.errY+i, t.errW, s, tm.ColorDefault, tm.ColorDefault)
	}
	t.ringLock.RUnlock()

	res := ui.Table{ColWidths: []int{15, 7, 12, 12, 12}, X: t.resX, Y: t.resY}
	res.AddHeader()
	res.AddRow(rowHeader())
	res.AddSeparator()
	for _, row := range t.rates.rows(t.registry.List(), seconds) {
		res.AddRow(row)
	}
	res.AddFooter()
}

func (t *Tui) AddInfoMsg(msg string) {
	t.ringLock.Lock()
	t.msgRing = append(t.msgRing[1:], msg)
	t.ringLock.Unlock()
}

func (t *Tui) AddErrorMsg(msg string) {
	t.ringLock.Lock()
	t.errRing = append(t.errRing[1:], msg)
	t.ringLock.Unlock()
}
