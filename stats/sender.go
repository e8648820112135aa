// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/NVIDIA/llrbmap/logger"
)

func incrementSomething(statName *string, incBy uint64) {
	if (nil == statName) || (0 == incBy) {
		return
	}

	globals.Lock()
	globals.statFullMap[*statName] += incBy
	if globals.sending {
		globals.statDeltaMap[*statName] += incBy
	}
	globals.Unlock()
}

func dump() (statMap map[string]uint64) {
	globals.Lock()
	statMap = make(map[string]uint64, len(globals.statFullMap))
	for statName, statValue := range globals.statFullMap {
		statMap[statName] = statValue
	}
	globals.Unlock()

	return
}

func reset() {
	globals.Lock()
	globals.statDeltaMap = make(map[string]uint64, expectedNumberOfDistinctStatNames)
	globals.statFullMap = make(map[string]uint64, expectedNumberOfDistinctStatNames)
	globals.Unlock()
}

func sender(maxLatency time.Duration) {
	ticker := time.NewTicker(maxLatency)

	for {
		select {
		case <-ticker.C:
			sendDeltas()
		case _ = <-globals.stopChan:
			ticker.Stop()
			sendDeltas()
			globals.doneChan <- true
			return
		}
	}
}

// sendDeltas sends each un-sent increment as a statsd counter. A stat that
// cannot be sent is logged and dropped.
func sendDeltas() {
	var (
		err       error
		statNames []string
		tcpConn   *net.TCPConn
		udpConn   *net.UDPConn
	)

	globals.Lock()
	statDeltaMap := globals.statDeltaMap
	globals.statDeltaMap = make(map[string]uint64, expectedNumberOfDistinctStatNames)
	globals.Unlock()

	statNames = make([]string, 0, len(statDeltaMap))
	for statName := range statDeltaMap {
		statNames = append(statNames, statName)
	}
	sort.Strings(statNames)

	for _, statName := range statNames {
		statBuffer := []byte(statName + ":" + strconv.FormatUint(statDeltaMap[statName], 10) + "|c")

		if globals.useUDP {
			udpConn, err = net.DialUDP("udp", globals.udpLAddr, globals.udpRAddr)
			if nil != err {
				logger.WarnfWithError(err, "stats: dropped %v", string(statBuffer))
				continue
			}
			_, _ = udpConn.Write(statBuffer)
			_ = udpConn.Close()
		} else { // globals.useTCP
			tcpConn, err = net.DialTCP("tcp", globals.tcpLAddr, globals.tcpRAddr)
			if nil != err {
				logger.WarnfWithError(err, "stats: dropped %v", string(statBuffer))
				continue
			}
			_, _ = tcpConn.Write(statBuffer)
			_ = tcpConn.Close()
		}
	}
}
