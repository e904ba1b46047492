package iqfile

import (
	"fmt"
	"regexp"
)

var (
	txPattern  = regexp.MustCompile(`tx_[0-9][0-9]`)
	rxPattern  = regexp.MustCompile(`rx_[0-9][0-9]`)
	runPattern = regexp.MustCompile(`run_[0-9][0-9]`)
)

// Tags are the channel labels embedded in a recording's file name, e.g.
// "capture_tx_00_rx_01_run_03.dat". Missing labels are empty.
type Tags struct {
	TX  string
	RX  string
	Run string
}

// ParseTags extracts the tx_NN, rx_NN and run_NN labels from name. The RX
// label is required.
func ParseTags(name string) (Tags, error) {
	t := Tags{
		TX:  txPattern.FindString(name),
		RX:  rxPattern.FindString(name),
		Run: runPattern.FindString(name),
	}
	if t.RX == "" {
		return Tags{}, fmt.Errorf("iqfile: no rx_NN channel in %q", name)
	}
	return t, nil
}

// Key joins the present labels, as in "tx_00_rx_01_run_03".
func (t Tags) Key() string {
	key := t.RX
	if t.TX != "" {
		key = t.TX + "_" + key
	}
	if t.Run != "" {
		key += "_" + t.Run
	}
	return key
}

// SameGroup reports whether two recordings came from the same transmitter
// and run.
func (t Tags) SameGroup(o Tags) bool {
	return t.TX == o.TX && t.Run == o.Run
}
