// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/market"
)

// setup command handler
//
// commands that cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "start", "run":
		return false // continue processing

	case "dump-listings", "listings", "dump-payouts", "payouts":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)        - display this message\n\n")
		fmt.Printf("  version                    (v)        - display version sting\n\n")

		fmt.Printf("  start                      (run)      - just run the program, same as no arguments\n")
		fmt.Printf("                                          for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)      - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  dump-listings [FILE]       (listings) - dump all listings as JSON to stdout/file\n")
		fmt.Printf("\n")

		fmt.Printf("  dump-payouts [FILE]        (payouts)  - dump the payout journal as JSON to stdout/file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		_, _ = os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the market tables are open so these commands can read the
// committed state
func processDataCommand(log *logger.L, arguments []string, m *market.Marketplace) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "dump-listings", "listings":
		fd := outputFile(arguments)
		err := dumpListings(fd, m)
		closeOutput(fd)
		if nil != err {
			exitwithstatus.Message("dump listings error: %s", err)
		}

	case "dump-payouts", "payouts":
		fd := outputFile(arguments)
		err := dumpPayouts(fd, m)
		closeOutput(fd)
		if nil != err {
			exitwithstatus.Message("dump payouts error: %s", err)
		}

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	log.Infof("data command: %s  completed", command)

	// indicate processing complete and perform normal exit from main
	return true
}

// optional output file argument, "-" or absent is stdout
func outputFile(arguments []string) *os.File {
	output := "-"
	if len(arguments) > 0 {
		output = strings.TrimSpace(arguments[0])
	}
	if "" == output || "-" == output {
		return os.Stdout
	}
	fd, err := os.Create(output)
	if nil != err {
		exitwithstatus.Message("error: creating: %q error: %s", output, err)
	}
	return fd
}

func closeOutput(fd *os.File) {
	if os.Stdout != fd {
		_ = fd.Close()
	}
}

func dumpListings(fd io.Writer, m *market.Marketplace) error {
	fmt.Fprintf(fd, "[\n")
	for from := uint64(0); ; {
		page, err := m.Listings(from, market.MaximumPageSize)
		if nil != err {
			return err
		}
		if 0 == len(page) {
			break
		}
		for _, l := range page {
			s, err := json.MarshalIndent(l, "  ", "  ")
			if nil != err {
				return err
			}
			fmt.Fprintf(fd, "  %s,\n", s)
		}
		from += uint64(len(page))
	}
	fmt.Fprintf(fd, "{}]\n")
	return nil
}

func dumpPayouts(fd io.Writer, m *market.Marketplace) error {
	fmt.Fprintf(fd, "[\n")
	for from := uint64(0); ; {
		records, err := m.Payouts(from, market.MaximumPageSize)
		if nil != err {
			return err
		}
		if 0 == len(records) {
			break
		}
		for _, r := range records {
			s, err := json.MarshalIndent(r, "  ", "  ")
			if nil != err {
				return err
			}
			fmt.Fprintf(fd, "  %s,\n", s)
		}
		from = records[len(records)-1].Id + 1
	}
	fmt.Fprintf(fd, "{}]\n")
	return nil
}
