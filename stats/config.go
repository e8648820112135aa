// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/NVIDIA/llrbmap/conf"
)

const (
	expectedNumberOfDistinctStatNames = 16

	defaultIPAddr     = "localhost"
	defaultMaxLatency = time.Second
)

type globalsStruct struct {
	sync.Mutex
	ipAddr       string
	useUDP       bool // Logically useTCP == !useUDP
	udpLAddr     *net.UDPAddr
	udpRAddr     *net.UDPAddr
	tcpLAddr     *net.TCPAddr
	tcpRAddr     *net.TCPAddr
	maxLatency   time.Duration
	sending      bool // true while sender() is running
	stopChan     chan bool
	doneChan     chan bool
	statDeltaMap map[string]uint64 // Key is stat name, Value is the sum of all un-sent increments
	statFullMap  map[string]uint64 // Key is stat name, Value is the sum of all increments
}

var globals globalsStruct

func init() {
	globals.statDeltaMap = make(map[string]uint64, expectedNumberOfDistinctStatNames)
	globals.statFullMap = make(map[string]uint64, expectedNumberOfDistinctStatNames)
}

// Up starts sending stats to statsd if the [Stats] section of confMap asks
// for it. Counters are accumulated (and available via Dump()) regardless.
//
// Recognized options:
//
//   IPAddr     - statsd address (default: localhost)
//   UDPPort    - statsd UDP port
//   TCPPort    - statsd TCP port (at most one of UDPPort and TCPPort)
//   MaxLatency - interval between sends (default: 1s)
func Up(confMap conf.ConfMap) (err error) {
	var (
		errFetchingTCPPort error
		errFetchingUDPPort error
		tcpPort            uint16
		udpPort            uint16
	)

	globals.Lock()
	defer globals.Unlock()

	if globals.sending {
		err = fmt.Errorf("stats.Up() called while already sending")
		return
	}

	udpPort, errFetchingUDPPort = confMap.FetchOptionValueUint16("Stats", "UDPPort")
	tcpPort, errFetchingTCPPort = confMap.FetchOptionValueUint16("Stats", "TCPPort")

	if (nil != errFetchingUDPPort) && (nil != errFetchingTCPPort) {
		if (nil != confMap.VerifyOptionIsMissing("Stats", "UDPPort")) || (nil != confMap.VerifyOptionIsMissing("Stats", "TCPPort")) {
			err = fmt.Errorf("[Stats]UDPPort (%v) or [Stats]TCPPort (%v) is malformed", errFetchingUDPPort, errFetchingTCPPort)
			return
		}

		// Neither specified... so just accumulate

		err = nil
		return
	}

	if (nil == errFetchingUDPPort) && (nil == errFetchingTCPPort) {
		err = fmt.Errorf("Only one of [Stats]UDPPort and [Stats]TCPPort may be specified")
		return
	}

	globals.ipAddr, err = confMap.FetchOptionValueString("Stats", "IPAddr")
	if nil != err {
		globals.ipAddr = defaultIPAddr
	}

	globals.maxLatency, err = confMap.FetchOptionValueDuration("Stats", "MaxLatency")
	if nil != err {
		err = confMap.VerifyOptionIsMissing("Stats", "MaxLatency")
		if nil != err {
			err = fmt.Errorf("confMap.FetchOptionValueDuration(\"Stats\", \"MaxLatency\") failed: %v", err)
			return
		}
		globals.maxLatency = defaultMaxLatency
	}
	if 0 >= globals.maxLatency {
		err = fmt.Errorf("[Stats]MaxLatency must be positive")
		return
	}

	globals.useUDP = (nil == errFetchingUDPPort)

	if globals.useUDP {
		globals.udpLAddr, err = net.ResolveUDPAddr("udp", net.JoinHostPort(globals.ipAddr, "0"))
		if nil != err {
			return
		}
		globals.udpRAddr, err = net.ResolveUDPAddr("udp", net.JoinHostPort(globals.ipAddr, strconv.FormatUint(uint64(udpPort), 10)))
		if nil != err {
			return
		}
	} else { // globals.useTCP
		globals.tcpLAddr, err = net.ResolveTCPAddr("tcp", net.JoinHostPort(globals.ipAddr, "0"))
		if nil != err {
			return
		}
		globals.tcpRAddr, err = net.ResolveTCPAddr("tcp", net.JoinHostPort(globals.ipAddr, strconv.FormatUint(uint64(tcpPort), 10)))
		if nil != err {
			return
		}
	}

	globals.statDeltaMap = make(map[string]uint64, expectedNumberOfDistinctStatNames)
	globals.stopChan = make(chan bool, 1)
	globals.doneChan = make(chan bool, 1)
	globals.sending = true

	go sender(globals.maxLatency)

	err = nil
	return
}

// Down sends any un-sent increments and stops sending
func Down() (err error) {
	globals.Lock()
	sending := globals.sending
	globals.Unlock()

	if sending {
		globals.stopChan <- true
		_ = <-globals.doneChan

		globals.Lock()
		globals.sending = false
		globals.Unlock()
	}

	err = nil
	return
}
