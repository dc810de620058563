package server

import (
	"fmt"

	"github.com/adimaman22/Network-Speed-Test/session"
)

type RawUI struct {
	registry *session.Registry
	rates    *rateTracker
}

func InitRawUI(registry *session.Registry) *RawUI {
	return &RawUI{
		registry: registry,
		rates:    newRateTracker(),
	}
}

func (u *RawUI) Paint(seconds uint64) {
	sessions := u.registry.List()
	if len(sessions) == 0 {
		return
	}

	fmt.Println("-----------------------------------------------------------")
	u.printRow(rowHeader())
	for _, row := range u.rates.rows(sessions, seconds) {
		u.printRow(row)
	}
}

func (u *RawUI) printRow(row []string) {
	fmt.Printf("[%13s]  %5s  %10s  %10s  %10s\n", row[0], row[1], row[2], row[3], row[4])
}

func (u *RawUI) AddInfoMsg(msg string) {
	fmt.Println(msg)
}

func (u *RawUI) AddErrorMsg(msg string) {
	fmt.Println("Error: " + msg)
}
