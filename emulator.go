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

package chameleon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Bulk paged/blocked transfer. Tag memory is addressed in fixed-size units:
// 4-byte pages for NTAG-family, 16-byte blocks for MIFARE-Classic-family.
// One frame payload is bounded, so transfers are chunked at MaxTransferUnits
// units per request; chunk k lands at offset k*MaxTransferUnits*unitSize in
// the destination buffer. Any chunk with a non-success status aborts the
// whole operation: silent partial data would be worse than failing loudly.

// ReadNTAGPages reads count 4-byte pages of emulator memory starting at
// page start.
func (d *Device) ReadNTAGPages(ctx context.Context, start, count int) ([]byte, error) {
	return d.bulkRead(ctx, "read ntag pages", cmdNTAGReadEmuPage, NTAGPageSize, start, count)
}

// ReadMF1Blocks reads count 16-byte blocks of emulator memory starting at
// block start.
func (d *Device) ReadMF1Blocks(ctx context.Context, start, count int) ([]byte, error) {
	return d.bulkRead(ctx, "read mf1 blocks", cmdMF1ReadEmuBlock, MF1BlockSize, start, count)
}

// WriteNTAGPages writes data (a multiple of 4 bytes) to emulator memory
// starting at page start.
func (d *Device) WriteNTAGPages(ctx context.Context, start int, data []byte) error {
	return d.bulkWrite(ctx, "write ntag pages", cmdNTAGWriteEmuPage, NTAGPageSize, start, data)
}

// WriteMF1Blocks writes data (a multiple of 16 bytes) to emulator memory
// starting at block start.
func (d *Device) WriteMF1Blocks(ctx context.Context, start int, data []byte) error {
	return d.bulkWrite(ctx, "write mf1 blocks", cmdMF1WriteEmuBlock, MF1BlockSize, start, data)
}

func (d *Device) bulkRead(ctx context.Context, op string, cmd uint16, unitSize, start, count int) ([]byte, error) {
	if start < 0 || count < 0 || start+count > 0x100 {
		return nil, fmt.Errorf("%w: %s range %d+%d", ErrInvalidParameter, op, start, count)
	}

	out := make([]byte, count*unitSize)
	for done := 0; done < count; done += MaxTransferUnits {
		n := count - done
		if n > MaxTransferUnits {
			n = MaxTransferUnits
		}
		f, err := d.send(ctx, cmd, 0, []byte{byte(start + done), byte(n)}, false)
		if err != nil {
			return nil, fmt.Errorf("%s at unit %d: %w", op, start+done, err)
		}
		if f.Status != StatusSuccess {
			return nil, &PartialTransferError{Op: op, Start: start + done, Count: n, Status: f.Status}
		}
		if len(f.Data) != n*unitSize {
			return nil, fmt.Errorf("%w: %s chunk at unit %d returned %d bytes, want %d",
				ErrInvalidResponse, op, start+done, len(f.Data), n*unitSize)
		}
		copy(out[done*unitSize:], f.Data)
	}
	return out, nil
}

func (d *Device) bulkWrite(ctx context.Context, op string, cmd uint16, unitSize, start int, data []byte) error {
	if len(data)%unitSize != 0 {
		return fmt.Errorf("%w: %s data length %d is not a multiple of %d",
			ErrInvalidParameter, op, len(data), unitSize)
	}
	count := len(data) / unitSize
	if start < 0 || start+count > 0x100 {
		return fmt.Errorf("%w: %s range %d+%d", ErrInvalidParameter, op, start, count)
	}

	for done := 0; done < count; done += MaxTransferUnits {
		n := count - done
		if n > MaxTransferUnits {
			n = MaxTransferUnits
		}
		payload := append([]byte{byte(start + done)}, data[done*unitSize:(done+n)*unitSize]...)
		f, err := d.send(ctx, cmd, 0, payload, false)
		if err != nil {
			return fmt.Errorf("%s at unit %d: %w", op, start+done, err)
		}
		if f.Status != StatusSuccess {
			return &PartialTransferError{Op: op, Start: start + done, Count: n, Status: f.Status}
		}
	}
	return nil
}

// HF14ATag describes a tag detected by an HF14A scan.
type HF14ATag struct {
	UID  []byte
	ATQA [2]byte
	SAK  byte
}

// UIDHex returns the UID as lowercase hex.
func (t *HF14ATag) UIDHex() string {
	return fmt.Sprintf("%x", t.UID)
}

// withReaderMode runs fn in reader mode and restores emulator mode on every
// exit path. The restore uses a context detached from the caller's so a
// cancelled operation still puts the device back.
func (d *Device) withReaderMode(ctx context.Context, fn func(context.Context) error) error {
	if err := d.SetDeviceMode(ctx, ModeReader); err != nil {
		return fmt.Errorf("enter reader mode: %w", err)
	}
	defer func() {
		restoreCtx := context.WithoutCancel(ctx)
		if err := d.SetDeviceMode(restoreCtx, ModeEmulator); err != nil {
			d.config.Logger.Warn("failed to restore emulator mode", zap.Error(err))
		}
	}()
	return fn(ctx)
}

// scanOnce issues one HF14A scan. Reader-mode success is StatusHFTagOK, not
// the general StatusSuccess; any other status means no tag answered.
func (d *Device) scanOnce(ctx context.Context) (*HF14ATag, error) {
	f, err := d.send(ctx, cmdHF14AScan, 0, nil, false)
	if err != nil {
		return nil, err
	}
	if f.Status != StatusHFTagOK {
		return nil, ErrNoTagFound
	}
	if len(f.Data) < 1 {
		return nil, fmt.Errorf("%w: empty scan payload", ErrInvalidResponse)
	}
	uidLen := int(f.Data[0])
	if len(f.Data) < 1+uidLen+3 {
		return nil, fmt.Errorf("%w: scan payload is %d bytes for uid length %d",
			ErrInvalidResponse, len(f.Data), uidLen)
	}
	tag := &HF14ATag{
		UID: append([]byte(nil), f.Data[1:1+uidLen]...),
		SAK: f.Data[1+uidLen+2],
	}
	copy(tag.ATQA[:], f.Data[1+uidLen:1+uidLen+2])
	return tag, nil
}

// scanWithRetry polls for tag presence with bounded retries. Physical tag
// placement is unreliable, so absence on one attempt is not conclusive;
// absence after all attempts is a normal reported outcome (ErrNoTagFound).
func (d *Device) scanWithRetry(ctx context.Context) (*HF14ATag, error) {
	var lastErr error
	for attempt := 0; attempt < d.config.ScanRetries; attempt++ {
		tag, err := d.scanOnce(ctx)
		if err == nil {
			return tag, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		if attempt < d.config.ScanRetries-1 {
			select {
			case <-time.After(d.config.ScanInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// ScanTag switches to reader mode, polls for an HF14A tag, and restores
// emulator mode before returning.
func (d *Device) ScanTag(ctx context.Context) (*HF14ATag, error) {
	var tag *HF14ATag
	err := d.withReaderMode(ctx, func(ctx context.Context) error {
		t, err := d.scanWithRetry(ctx)
		if err != nil {
			return err
		}
		tag = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// ScanResult is the outcome of a scan-and-save operation.
type ScanResult struct {
	Tag   *HF14ATag
	Image []byte
}

// ScanAndSave detects a tag and reads pageCount pages of its image, all
// under one reader-mode guard. Emulator mode is restored on every exit
// path, including a bulk-read failure partway through.
func (d *Device) ScanAndSave(ctx context.Context, pageCount int) (*ScanResult, error) {
	var result *ScanResult
	err := d.withReaderMode(ctx, func(ctx context.Context) error {
		tag, err := d.scanWithRetry(ctx)
		if err != nil {
			return err
		}
		image, err := d.bulkRead(ctx, "scan and save", cmdNTAGReadEmuPage, NTAGPageSize, 0, pageCount)
		if err != nil {
			return err
		}
		result = &ScanResult{Tag: tag, Image: image}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
