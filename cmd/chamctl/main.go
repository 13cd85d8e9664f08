// go-chameleon
// Copyright (c) 2025 The go-chameleon Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-chameleon.
//
// go-chameleon is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-chameleon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-chameleon; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// chamctl connects to a Chameleon Ultra over serial or BLE and reports
// device status: firmware version, battery, slot configuration. With
// -scan it also runs one reader-mode tag detection.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	chameleon "github.com/chameleon-toolbox/go-chameleon"
	"github.com/chameleon-toolbox/go-chameleon/transport/ble"
	"github.com/chameleon-toolbox/go-chameleon/transport/serial"
)

type config struct {
	devicePath string
	bleName    string
	timeout    time.Duration
	scan       bool
	listPorts  bool
	verbose    bool
}

func parseFlags() *config {
	cfg := &config{}
	flag.StringVar(&cfg.devicePath, "device", "", "Serial port path (e.g. /dev/ttyACM0, COM3)")
	flag.StringVar(&cfg.bleName, "ble", "", "Connect over BLE to the named device (default \"ChameleonUltra\" if -device is empty)")
	flag.DurationVar(&cfg.timeout, "timeout", 0, "Command timeout (default: transport-specific)")
	flag.BoolVar(&cfg.scan, "scan", false, "Run one HF14A tag scan after printing device status")
	flag.BoolVar(&cfg.listPorts, "list", false, "List available serial ports and exit")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.listPorts {
		ports, err := serial.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "chamctl: %v\n", err)
			os.Exit(1)
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "chamctl: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	logger := zap.NewNop()
	if cfg.verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}

	opts := []chameleon.Option{chameleon.WithLogger(logger)}
	if cfg.timeout > 0 {
		opts = append(opts, chameleon.WithTimeout(cfg.timeout))
	}
	device, err := chameleon.New(transport, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := device.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = device.Close() }()

	if err := printStatus(ctx, device); err != nil {
		return err
	}

	if cfg.scan {
		return scanTag(ctx, device)
	}
	return nil
}

func newTransport(cfg *config) (chameleon.Transport, error) {
	if cfg.devicePath != "" {
		return serial.New(cfg.devicePath)
	}
	name := cfg.bleName
	if name == "" {
		name = "ChameleonUltra"
	}
	return ble.New(name), nil
}

func printStatus(ctx context.Context, device *chameleon.Device) error {
	version, err := device.GetAppVersion(ctx)
	if err != nil {
		return fmt.Errorf("app version: %w", err)
	}
	chipID, err := device.GetChipID(ctx)
	if err != nil {
		return fmt.Errorf("chip id: %w", err)
	}
	mode, err := device.GetDeviceMode(ctx)
	if err != nil {
		return fmt.Errorf("device mode: %w", err)
	}
	battery, err := device.GetBatteryInfo(ctx)
	if err != nil {
		return fmt.Errorf("battery: %w", err)
	}

	fmt.Printf("Firmware: v%s\n", version)
	fmt.Printf("Chip ID:  %s\n", chipID)
	fmt.Printf("Mode:     %s\n", mode)
	fmt.Printf("Battery:  %dmV (%d%%)\n", battery.VoltageMV, battery.Percent)

	return printSlots(ctx, device)
}

func printSlots(ctx context.Context, device *chameleon.Device) error {
	active, err := device.GetActiveSlot(ctx)
	if err != nil {
		return fmt.Errorf("active slot: %w", err)
	}
	info, err := device.GetSlotInfo(ctx)
	if err != nil {
		return fmt.Errorf("slot info: %w", err)
	}
	enabled, err := device.GetEnabledSlots(ctx)
	if err != nil {
		return fmt.Errorf("enabled slots: %w", err)
	}

	fmt.Println("\nSlots:")
	for i := range info {
		marker := " "
		if i == active {
			marker = "*"
		}
		fmt.Printf("  %s %d: HF=%s LF=%s\n", marker, i,
			slotAssignment(info[i].HFTagType, enabled[i].HF),
			slotAssignment(info[i].LFTagType, enabled[i].LF))
	}
	return nil
}

func slotAssignment(tagType uint16, enabled bool) string {
	if tagType == 0 {
		return "-"
	}
	s := fmt.Sprintf("%d", tagType)
	if !enabled {
		s += " (disabled)"
	}
	return s
}

func scanTag(ctx context.Context, device *chameleon.Device) error {
	fmt.Println("\nScanning for HF14A tag...")
	tag, err := device.ScanTag(ctx)
	if errors.Is(err, chameleon.ErrNoTagFound) {
		fmt.Println("No tag found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fmt.Printf("UID:  %s\n", tag.UIDHex())
	fmt.Printf("ATQA: %02x%02x\n", tag.ATQA[0], tag.ATQA[1])
	fmt.Printf("SAK:  %02x\n", tag.SAK)
	return nil
}
