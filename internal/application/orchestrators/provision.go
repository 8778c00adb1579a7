package orchestrators

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"adventcal/internal/adapters/qr"
	"adventcal/internal/domain/door"
	"adventcal/internal/domain/provision"
)

// ProvisionInput carries the caller's authorization.
type ProvisionInput struct {
	Authz Capability
}

// ProvisionDeps holds dependencies for Provision.
type ProvisionDeps struct {
	Calendar door.Calendar
	Encoder  qr.Encoder
}

// ProvisionResult is the finished bundle: a zip archive holding one PNG
// per (day, kid) pair, entries in enumeration order.
type ProvisionResult struct {
	Archive  []byte
	FileName string
	Count    int
}

// ExecuteProvision derives the reference for every door and recipient,
// encodes each as a QR PNG and bundles them into one zip archive.
//
// Fail-closed: the first encoder or archive error aborts the whole batch
// and no bundle is returned. A silently incomplete bundle would only be
// discovered after the codes are printed and taped to doors.
// POST: On success the archive holds exactly 2×MaxDay entries with
// deterministic names; references are identical across runs for the same
// calendar
func ExecuteProvision(ctx context.Context, input ProvisionInput, deps ProvisionDeps) (ProvisionResult, error) {
	if !input.Authz.Admin() {
		return ProvisionResult{}, ErrUnauthorized
	}

	codes := provision.Enumerate(deps.Calendar)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, code := range codes {
		png, err := deps.Encoder.Encode(code.Reference, qr.DefaultSize)
		if err != nil {
			slog.Error("provision_event", "event", "encode_failed", "day", code.Day, "kid", code.Kid, "error", err.Error())
			return ProvisionResult{}, fmt.Errorf("day %d kid %d: %w", code.Day, code.Kid, err)
		}
		entry, err := zw.Create(code.FileName)
		if err != nil {
			return ProvisionResult{}, fmt.Errorf("create archive entry %s: %w", code.FileName, err)
		}
		if _, err := entry.Write(png); err != nil {
			return ProvisionResult{}, fmt.Errorf("write archive entry %s: %w", code.FileName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return ProvisionResult{}, fmt.Errorf("finalize archive: %w", err)
	}

	slog.Info("provision_event", "event", "bundle_built", "codes", len(codes))
	return ProvisionResult{
		Archive:  buf.Bytes(),
		FileName: fmt.Sprintf("advent_qr_codes_%d.zip", deps.Calendar.Year),
		Count:    len(codes),
	}, nil
}
