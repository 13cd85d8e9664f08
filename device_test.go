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

package chameleon_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chameleon "github.com/chameleon-toolbox/go-chameleon"
	"github.com/chameleon-toolbox/go-chameleon/internal/chamtest"
	"github.com/chameleon-toolbox/go-chameleon/internal/frame"
)

// Command IDs and statuses used by the simulated device. These mirror the
// firmware constants the session speaks.
const (
	cmdGetBatteryInfo   = 1025
	cmdGetActiveSlot    = 1018
	cmdGetSlotInfo      = 1019
	cmdChangeDeviceMode = 1001
	cmdHF14AScan        = 2000
	cmdNTAGReadEmuPage  = 4012
	cmdNTAGWriteEmuPage = 4013

	statusSuccess   = 0x68
	statusHFTagOK   = 0x00
	statusNoTag     = 0x01
	statusFlashFail = 0x70
)

func newTestDevice(t *testing.T, opts ...chameleon.Option) (*chameleon.Device, *chamtest.Simulator) {
	t.Helper()
	sim := chamtest.New()
	device, err := chameleon.New(sim, opts...)
	require.NoError(t, err)
	require.NoError(t, device.Connect(context.Background()))
	t.Cleanup(func() { _ = device.Close() })
	return device, sim
}

func TestGetBatteryInfo(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	// 4172 mV little-endian, 98 percent.
	sim.Respond(cmdGetBatteryInfo, statusSuccess, []byte{0x4C, 0x10, 0x62})

	info, err := device.GetBatteryInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(4172), info.VoltageMV)
	assert.Equal(t, uint8(98), info.Percent)
}

func TestGetBatteryInfoThroughNoisyChunkedLink(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Respond(cmdGetBatteryInfo, statusSuccess, []byte{0x4C, 0x10, 0x62})
	sim.SetNoise([]byte{0xDE, 0xAD, 0x42})
	sim.SetChunkSize(3)

	info, err := device.GetBatteryInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(4172), info.VoltageMV)
}

func TestSendNotConnected(t *testing.T) {
	t.Parallel()
	sim := chamtest.New()
	device, err := chameleon.New(sim)
	require.NoError(t, err)

	_, err = device.GetBatteryInfo(context.Background())
	assert.ErrorIs(t, err, chameleon.ErrNotConnected)
}

func TestStatusErrorSurfacesRawStatus(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Respond(cmdGetActiveSlot, statusFlashFail, nil)

	_, err := device.GetActiveSlot(context.Background())
	var statusErr *chameleon.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, uint16(statusFlashFail), statusErr.Status)
}

func TestSendRawKeepsStatusAsData(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Respond(cmdGetActiveSlot, statusFlashFail, []byte{0x01})

	f, err := device.SendRaw(context.Background(), cmdGetActiveSlot, 0, nil)
	require.NoError(t, err, "non-success status is data at the raw level, not an error")
	assert.Equal(t, uint16(statusFlashFail), f.Status)
}

func TestCommandTimeout(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t, chameleon.WithTimeout(50*time.Millisecond))
	sim.Drop(cmdGetBatteryInfo)

	_, err := device.GetBatteryInfo(context.Background())
	assert.ErrorIs(t, err, chameleon.ErrTimeout)
	assert.True(t, chameleon.IsRetryable(err))
}

// A timed-out command must not poison a later send with the same ID: the
// pending entry is cleared on timeout, so the retry resolves cleanly.
func TestTimeoutThenSameCommandSucceeds(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t, chameleon.WithTimeout(50*time.Millisecond))
	sim.Drop(cmdGetBatteryInfo)

	_, err := device.GetBatteryInfo(context.Background())
	require.ErrorIs(t, err, chameleon.ErrTimeout)

	sim.Respond(cmdGetBatteryInfo, statusSuccess, []byte{0x4C, 0x10, 0x62})
	info, err := device.GetBatteryInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(4172), info.VoltageMV)
}

// Two concurrent commands with distinct IDs each resolve with their own
// response, regardless of arrival order.
func TestConcurrentCommandsCorrelateByID(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Respond(cmdGetActiveSlot, statusSuccess, []byte{0x03})
	sim.Respond(cmdGetBatteryInfo, statusSuccess, []byte{0x4C, 0x10, 0x62})
	sim.SetResponseDelay(10 * time.Millisecond)

	var (
		wg      sync.WaitGroup
		slot    int
		slotErr error
		info    chameleon.BatteryInfo
		infoErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		slot, slotErr = device.GetActiveSlot(context.Background())
	}()
	go func() {
		defer wg.Done()
		info, infoErr = device.GetBatteryInfo(context.Background())
	}()
	wg.Wait()

	require.NoError(t, slotErr)
	require.NoError(t, infoErr)
	assert.Equal(t, 3, slot)
	assert.Equal(t, uint16(4172), info.VoltageMV)
}

func TestSetActiveSlotValidatesRange(t *testing.T) {
	t.Parallel()
	device, _ := newTestDevice(t)

	assert.ErrorIs(t, device.SetActiveSlot(context.Background(), -1), chameleon.ErrInvalidParameter)
	assert.ErrorIs(t, device.SetActiveSlot(context.Background(), 8), chameleon.ErrInvalidParameter)
}

func TestGetSlotInfo(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	payload := make([]byte, 32)
	payload[0], payload[1] = 0x03, 0xE9 // slot 0 HF type 1001
	payload[2], payload[3] = 0x00, 0x64 // slot 0 LF type 100
	sim.Respond(cmdGetSlotInfo, statusSuccess, payload)

	info, err := device.GetSlotInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, info, 8)
	assert.Equal(t, uint16(1001), info[0].HFTagType)
	assert.Equal(t, uint16(100), info[0].LFTagType)
	assert.Zero(t, info[7].HFTagType)
}

// Bulk read chunking: 135 pages with a 32-unit cap issues 5 requests, the
// last for exactly 7 units, and reassembles chunk k at offset k*32*4.
func TestReadNTAGPagesChunking(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Handle(cmdNTAGReadEmuPage, func(req frame.Frame) (uint16, []byte, bool) {
		start, count := int(req.Data[0]), int(req.Data[1])
		data := make([]byte, count*4)
		for unit := 0; unit < count; unit++ {
			for i := 0; i < 4; i++ {
				data[unit*4+i] = byte(start + unit)
			}
		}
		return statusSuccess, data, true
	})

	image, err := device.ReadNTAGPages(context.Background(), 0, 135)
	require.NoError(t, err)
	require.Len(t, image, 540)

	requests := sim.RequestsFor(cmdNTAGReadEmuPage)
	require.Len(t, requests, 5)
	for i, req := range requests[:4] {
		assert.Equal(t, []byte{byte(i * 32), 32}, req.Data)
	}
	assert.Equal(t, []byte{128, 7}, requests[4].Data)

	// Every page carries its own index: chunk reassembly offsets line up.
	for page := 0; page < 135; page++ {
		assert.Equal(t, byte(page), image[page*4], "page %d", page)
	}
}

// A failing chunk aborts the transfer with a partial-transfer error
// instead of returning incomplete data.
func TestReadNTAGPagesChunkFailureAborts(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Handle(cmdNTAGReadEmuPage, func(req frame.Frame) (uint16, []byte, bool) {
		if req.Data[0] >= 64 {
			return statusFlashFail, nil, true
		}
		return statusSuccess, make([]byte, int(req.Data[1])*4), true
	})

	_, err := device.ReadNTAGPages(context.Background(), 0, 135)
	var partial *chameleon.PartialTransferError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 64, partial.Start)
	assert.Equal(t, uint16(statusFlashFail), partial.Status)
}

func TestWriteNTAGPagesChunking(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Respond(cmdNTAGWriteEmuPage, statusSuccess, nil)

	data := make([]byte, 540) // 135 pages
	require.NoError(t, device.WriteNTAGPages(context.Background(), 0, data))

	requests := sim.RequestsFor(cmdNTAGWriteEmuPage)
	require.Len(t, requests, 5)
	assert.Equal(t, byte(0), requests[0].Data[0])
	assert.Len(t, requests[0].Data, 1+32*4)
	assert.Equal(t, byte(128), requests[4].Data[0])
	assert.Len(t, requests[4].Data, 1+7*4)
}

func TestWriteNTAGPagesRejectsUnalignedData(t *testing.T) {
	t.Parallel()
	device, _ := newTestDevice(t)
	err := device.WriteNTAGPages(context.Background(), 0, make([]byte, 10))
	assert.ErrorIs(t, err, chameleon.ErrInvalidParameter)
}

func scanPayload(uid []byte) []byte {
	payload := append([]byte{byte(len(uid))}, uid...)
	return append(payload, 0x00, 0x04, 0x08) // ATQA + SAK
}

func TestScanTag(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t, chameleon.WithScanInterval(time.Millisecond))
	sim.Respond(cmdChangeDeviceMode, statusSuccess, nil)
	sim.Respond(cmdHF14AScan, statusHFTagOK, scanPayload([]byte{0xDE, 0xAD, 0xBE, 0xEF}))

	tag, err := device.ScanTag(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, tag.UID)
	assert.Equal(t, "deadbeef", tag.UIDHex())
	assert.Equal(t, byte(0x08), tag.SAK)

	// Mode switched to reader, then restored to emulator.
	modes := sim.RequestsFor(cmdChangeDeviceMode)
	require.Len(t, modes, 2)
	assert.Equal(t, []byte{0x01}, modes[0].Data)
	assert.Equal(t, []byte{0x00}, modes[1].Data)
}

// No tag after all retries is a reported outcome, not a transport error,
// and the scan is attempted exactly ScanRetries times.
func TestScanTagRetriesThenReportsNoTag(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t,
		chameleon.WithScanInterval(time.Millisecond),
		chameleon.WithScanRetries(5),
	)
	sim.Respond(cmdChangeDeviceMode, statusSuccess, nil)
	sim.Respond(cmdHF14AScan, statusNoTag, nil)

	_, err := device.ScanTag(context.Background())
	assert.ErrorIs(t, err, chameleon.ErrNoTagFound)
	assert.Len(t, sim.RequestsFor(cmdHF14AScan), 5)
}

// Mode-switch guarantee: when the bulk-read step fails partway through a
// scan-and-save, the emulator-mode restore is still issued exactly once.
func TestScanAndSaveRestoresModeOnFailure(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t, chameleon.WithScanInterval(time.Millisecond))
	sim.Respond(cmdChangeDeviceMode, statusSuccess, nil)
	sim.Respond(cmdHF14AScan, statusHFTagOK, scanPayload([]byte{0x04, 0x11, 0x22, 0x33}))
	sim.Handle(cmdNTAGReadEmuPage, func(req frame.Frame) (uint16, []byte, bool) {
		if req.Data[0] >= 32 {
			return statusFlashFail, nil, true
		}
		return statusSuccess, make([]byte, int(req.Data[1])*4), true
	})

	_, err := device.ScanAndSave(context.Background(), 135)
	var partial *chameleon.PartialTransferError
	require.ErrorAs(t, err, &partial)

	modes := sim.RequestsFor(cmdChangeDeviceMode)
	require.Len(t, modes, 2, "reader switch plus exactly one emulator restore")
	assert.Equal(t, []byte{0x00}, modes[1].Data)
}

func TestScanAndSaveSuccess(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t, chameleon.WithScanInterval(time.Millisecond))
	sim.Respond(cmdChangeDeviceMode, statusSuccess, nil)
	sim.Respond(cmdHF14AScan, statusHFTagOK, scanPayload([]byte{0x04, 0x11, 0x22, 0x33}))
	sim.Handle(cmdNTAGReadEmuPage, func(req frame.Frame) (uint16, []byte, bool) {
		return statusSuccess, make([]byte, int(req.Data[1])*4), true
	})

	result, err := device.ScanAndSave(context.Background(), 135)
	require.NoError(t, err)
	assert.Len(t, result.Image, 540)
	assert.Equal(t, []byte{0x04, 0x11, 0x22, 0x33}, result.Tag.UID)
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.Drop(cmdGetBatteryInfo)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := device.GetBatteryInfo(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
