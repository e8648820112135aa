// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package conf provides .INI-style configuration for llrbmap and its tools.
//
// A ConfMap is accessed via confMap[section_name][option_name][option_value_index]
// or via the Fetch methods below.
package conf

import (
	"bufio"
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

type ConfMapOption []string
type ConfMapSection map[string]ConfMapOption
type ConfMap map[string]ConfMapSection

// A string to load looks like:
//
//   <section_name>.<option_name> =
//   <section_name>.<option_name> : <value_1>
//   <section_name>.<option_name> = <value_1>, <value_2> <value_3>
//
// A .conf file to load looks like:
//
//   # comment on its own line
//   [<section_name>]            ; comment at end of line
//   <option_name> : <value_1>
//   <option_name> = <value_1>, <value_2> <value_3>
//
//   .include <included .conf path>

var (
	nameRE           = regexp.MustCompile(`\A[0-9A-Za-z_\-/:\.]+\z`)
	valueRE          = regexp.MustCompile(`\A[0-9A-Za-z_\*\-/:\.\[\]]+\$?\z`)
	sectionHeaderRE  = regexp.MustCompile(`\A\[([0-9A-Za-z_\-/:\.]+)\]\z`)
	includeLineRE    = regexp.MustCompile(`\A\.include[ \t]+(\S+)\z`)
	valueSeparatorRE = regexp.MustCompile(`[ \t]+|[ \t]*,[ \t]*`)
)

// MakeConfMap returns an newly created empty ConfMap
func MakeConfMap() (confMap ConfMap) {
	confMap = make(ConfMap)
	return
}

// MakeConfMapFromFile returns a newly created ConfMap loaded with the contents of the confFilePath-specified file
func MakeConfMapFromFile(confFilePath string) (confMap ConfMap, err error) {
	confMap = MakeConfMap()
	err = confMap.UpdateFromFile(confFilePath)
	return
}

// MakeConfMapFromStrings returns a newly created ConfMap loaded with the contents specified in confStrings
func MakeConfMapFromStrings(confStrings []string) (confMap ConfMap, err error) {
	confMap = MakeConfMap()
	err = confMap.UpdateFromStrings(confStrings)
	if nil != err {
		err = fmt.Errorf("Error building confMap from conf strings: %v", err)
		return
	}
	return
}

// splitOption separates "<option_name> = <values>" (or ':' in place of '=') into its parts
func splitOption(line string) (optionName string, optionValues []string, err error) {
	assignmentIndex := strings.IndexAny(line, "=:")
	if 0 > assignmentIndex {
		err = fmt.Errorf("missing '=' or ':' in \"%v\"", line)
		return
	}

	optionName = strings.Trim(line[:assignmentIndex], " \t")
	if !nameRE.MatchString(optionName) {
		err = fmt.Errorf("malformed option name in \"%v\"", line)
		return
	}

	valuesString := strings.Trim(line[assignmentIndex+1:], " \t")
	if "" == valuesString {
		optionValues = []string{}
		return
	}

	optionValues = valueSeparatorRE.Split(valuesString, -1)
	for _, optionValue := range optionValues {
		if !valueRE.MatchString(optionValue) {
			err = fmt.Errorf("malformed option value \"%v\" in \"%v\"", optionValue, line)
			return
		}
	}

	err = nil
	return
}

func (confMap ConfMap) set(sectionName string, optionName string, optionValues []string) {
	section, found := confMap[sectionName]
	if !found {
		section = make(ConfMapSection)
		confMap[sectionName] = section
	}
	section[optionName] = optionValues
}

// UpdateFromString modifies a pre-existing ConfMap based on an update
// specified in confString (e.g., from an extra command-line argument)
func (confMap ConfMap) UpdateFromString(confString string) (err error) {
	confStringTrimmed := strings.Trim(confString, " \t")

	if 0 == len(confStringTrimmed) {
		err = fmt.Errorf("trimmed confString: \"%v\" was found to be empty", confString)
		return
	}

	dotIndex := strings.Index(confStringTrimmed, ".")
	if 0 >= dotIndex {
		err = fmt.Errorf("malformed confString: \"%v\"", confString)
		return
	}

	sectionName := confStringTrimmed[:dotIndex]
	if !nameRE.MatchString(sectionName) {
		err = fmt.Errorf("malformed confString: \"%v\"", confString)
		return
	}

	optionName, optionValues, err := splitOption(confStringTrimmed[dotIndex+1:])
	if nil != err {
		err = fmt.Errorf("malformed confString: \"%v\" (%v)", confString, err)
		return
	}

	confMap.set(sectionName, optionName, optionValues)

	err = nil
	return
}

// UpdateFromStrings modifies a pre-existing ConfMap based on an update
// specified in confStrings (e.g., from extra command-line arguments)
func (confMap ConfMap) UpdateFromStrings(confStrings []string) (err error) {
	for _, confString := range confStrings {
		err = confMap.UpdateFromString(confString)
		if nil != err {
			return
		}
	}
	err = nil
	return
}

// UpdateFromFile modifies a pre-existing ConfMap based on updates specified in confFilePath
//
// A confFilePath of "-" reads from os.Stdin.
func (confMap ConfMap) UpdateFromFile(confFilePath string) (err error) {
	var (
		confFileBytes      []byte
		currentSectionName string
		lineNumber         int
	)

	if "-" == confFilePath {
		confFileBytes, err = ioutil.ReadAll(os.Stdin)
	} else {
		confFileBytes, err = ioutil.ReadFile(confFilePath)
	}
	if nil != err {
		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(confFileBytes))

	for scanner.Scan() {
		lineNumber++

		line := scanner.Text()
		line = strings.SplitN(line, ";", 2)[0]
		line = strings.SplitN(line, "#", 2)[0]
		line = strings.Trim(line, " \t\r")

		if 0 == len(line) {
			continue
		}

		if matches := includeLineRE.FindStringSubmatch(line); nil != matches {
			nestedConfFilePath := matches[1]
			if !filepath.IsAbs(nestedConfFilePath) {
				absConfFilePath, absErr := filepath.Abs(confFilePath)
				if nil != absErr {
					err = absErr
					return
				}
				nestedConfFilePath = filepath.Join(filepath.Dir(absConfFilePath), nestedConfFilePath)
			}
			err = confMap.UpdateFromFile(nestedConfFilePath)
			if nil != err {
				return
			}
			currentSectionName = ""
			continue
		}

		if matches := sectionHeaderRE.FindStringSubmatch(line); nil != matches {
			currentSectionName = matches[1]
			continue
		}

		if "" == currentSectionName {
			err = fmt.Errorf("file %v line %v: option found outside of a Section", confFilePath, lineNumber)
			return
		}

		optionName, optionValues, splitErr := splitOption(line)
		if nil != splitErr {
			err = fmt.Errorf("file %v line %v: %v", confFilePath, lineNumber, splitErr)
			return
		}

		confMap.set(currentSectionName, optionName, optionValues)
	}

	err = scanner.Err()

	return
}

// VerifyOptionIsMissing returns an error if [sectionName]optionName exists
func (confMap ConfMap) VerifyOptionIsMissing(sectionName string, optionName string) (err error) {
	section, ok := confMap[sectionName]
	if !ok {
		err = nil
		return
	}

	_, ok = section[optionName]
	if ok {
		err = fmt.Errorf("[%v]%v found", sectionName, optionName)
		return
	}

	err = nil
	return
}

// FetchOptionValueStringSlice returns [sectionName]optionName's string values as a []string
func (confMap ConfMap) FetchOptionValueStringSlice(sectionName string, optionName string) (optionValue []string, err error) {
	optionValue = []string{}

	section, ok := confMap[sectionName]
	if !ok {
		err = fmt.Errorf("[%v] missing", sectionName)
		return
	}

	option, ok := section[optionName]
	if !ok {
		err = fmt.Errorf("[%v]%v missing", sectionName, optionName)
		return
	}

	optionValue = option

	err = nil
	return
}

// FetchOptionValueString returns [sectionName]optionName's single string value
func (confMap ConfMap) FetchOptionValueString(sectionName string, optionName string) (optionValue string, err error) {
	optionValue = ""

	optionValueSlice, err := confMap.FetchOptionValueStringSlice(sectionName, optionName)
	if nil != err {
		return
	}

	if 1 != len(optionValueSlice) {
		err = fmt.Errorf("[%v]%v must be single-valued", sectionName, optionName)
		return
	}

	optionValue = optionValueSlice[0]

	err = nil
	return
}

// FetchOptionValueBool returns [sectionName]optionName's single string value converted to a bool
func (confMap ConfMap) FetchOptionValueBool(sectionName string, optionName string) (optionValue bool, err error) {
	optionValueString, err := confMap.FetchOptionValueString(sectionName, optionName)
	if nil != err {
		return
	}

	switch strings.ToLower(optionValueString) {
	case "yes", "on", "true":
		optionValue = true
	case "no", "off", "false":
		optionValue = false
	default:
		err = fmt.Errorf("Couldn't interpret %q as boolean (expected one of 'true'/'false'/'yes'/'no'/'on'/'off')", optionValueString)
		return
	}

	err = nil
	return
}

// FetchOptionValueUint16 returns [sectionName]optionName's single string value converted to a uint16
func (confMap ConfMap) FetchOptionValueUint16(sectionName string, optionName string) (optionValue uint16, err error) {
	optionValueUint64, err := confMap.fetchOptionValueUint(sectionName, optionName, 16)
	if nil != err {
		return
	}

	optionValue = uint16(optionValueUint64)

	return
}

// FetchOptionValueUint32 returns [sectionName]optionName's single string value converted to a uint32
func (confMap ConfMap) FetchOptionValueUint32(sectionName string, optionName string) (optionValue uint32, err error) {
	optionValueUint64, err := confMap.fetchOptionValueUint(sectionName, optionName, 32)
	if nil != err {
		return
	}

	optionValue = uint32(optionValueUint64)

	return
}

// FetchOptionValueUint64 returns [sectionName]optionName's single string value converted to a uint64
func (confMap ConfMap) FetchOptionValueUint64(sectionName string, optionName string) (optionValue uint64, err error) {
	optionValue, err = confMap.fetchOptionValueUint(sectionName, optionName, 64)
	return
}

func (confMap ConfMap) fetchOptionValueUint(sectionName string, optionName string, bitSize int) (optionValue uint64, err error) {
	optionValue = 0

	optionValueString, err := confMap.FetchOptionValueString(sectionName, optionName)
	if nil != err {
		return
	}

	optionValue, err = strconv.ParseUint(optionValueString, 10, bitSize)
	if nil != err {
		err = fmt.Errorf("[%v]%v strconv.ParseUint() error: %v", sectionName, optionName, err)
		optionValue = 0
		return
	}

	err = nil
	return
}

// FetchOptionValueDuration returns [sectionName]optionName's single string value converted to a time.Duration
func (confMap ConfMap) FetchOptionValueDuration(sectionName string, optionName string) (optionValue time.Duration, err error) {
	optionValueString, err := confMap.FetchOptionValueString(sectionName, optionName)
	if nil != err {
		return
	}

	optionValue, err = time.ParseDuration(optionValueString)
	if nil != err {
		return
	}

	if 0 > optionValue {
		err = fmt.Errorf("[%v]%v is negative", sectionName, optionName)
		return
	}

	err = nil
	return
}

// Dump returns the ConfMap as a sorted sequence of strings acceptable to UpdateFromStrings()
func (confMap ConfMap) Dump() (confStrings []string) {
	confStrings = make([]string, 0)

	for sectionName, section := range confMap {
		for optionName, option := range section {
			confStrings = append(confStrings, sectionName+"."+optionName+"="+strings.Join(option, ","))
		}
	}

	sort.Strings(confStrings)

	return
}
