// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/lockup/lib/codec"
)

// Compression selects the snapshot body codec.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression validates a compression name. The empty string
// means CompressionZstd.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case "":
		return CompressionZstd, nil
	case CompressionNone, CompressionZstd, CompressionLZ4:
		return Compression(name), nil
	default:
		return "", fmt.Errorf("state: unknown snapshot compression %q (want none, zstd, or lz4)", name)
	}
}

const (
	snapshotFormat  = "lockup-snapshot"
	snapshotVersion = 1
)

// SnapshotHeader precedes the record stream as a uvarint length and a
// CBOR value. It is always uncompressed so a reader can inspect it
// without decoding the body.
type SnapshotHeader struct {
	Format      string      `cbor:"format" json:"format"`
	Version     int         `cbor:"version" json:"version"`
	Compression Compression `cbor:"compression" json:"compression"`
	Records     int         `cbor:"records" json:"records"`
	CreatedAt   int64       `cbor:"created_at" json:"created_at"`
}

// Export writes every record in store to w: a SnapshotHeader followed
// by the compressed sequence of Entry values. The records come from a
// single View, so the snapshot is consistent.
func Export(ctx context.Context, store Store, w io.Writer, compression Compression, createdAt int64) (SnapshotHeader, error) {
	if _, err := ParseCompression(string(compression)); err != nil {
		return SnapshotHeader{}, err
	}

	var entries []Entry
	err := store.View(ctx, func(tx Tx) error {
		return tx.Scan(func(entry Entry) error {
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return SnapshotHeader{}, fmt.Errorf("state: reading records for snapshot: %w", err)
	}

	header := SnapshotHeader{
		Format:      snapshotFormat,
		Version:     snapshotVersion,
		Compression: compression,
		Records:     len(entries),
		CreatedAt:   createdAt,
	}
	encoded, err := codec.Marshal(header)
	if err != nil {
		return header, fmt.Errorf("state: encoding snapshot header: %w", err)
	}
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(encoded)))
	if _, err := w.Write(append(prefix[:n], encoded...)); err != nil {
		return header, fmt.Errorf("state: writing snapshot header: %w", err)
	}

	body, err := compressWriter(w, compression)
	if err != nil {
		return header, err
	}
	encoder := codec.NewEncoder(body)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			body.Close()
			return header, fmt.Errorf("state: writing snapshot record: %w", err)
		}
	}
	if err := body.Close(); err != nil {
		return header, fmt.Errorf("state: finishing snapshot body: %w", err)
	}
	return header, nil
}

// Import reads a snapshot written by Export and restores it into
// store in one Update. The store must be empty, and the record count
// must match the header; otherwise nothing is written.
func Import(ctx context.Context, store Store, r io.Reader) (SnapshotHeader, error) {
	buffered := bufio.NewReader(r)

	header, err := readHeader(buffered)
	if err != nil {
		return header, err
	}
	if header.Format != snapshotFormat {
		return header, fmt.Errorf("state: not a snapshot (format %q)", header.Format)
	}
	if header.Version != snapshotVersion {
		return header, fmt.Errorf("state: unsupported snapshot version %d", header.Version)
	}

	body, err := compressReader(buffered, header.Compression)
	if err != nil {
		return header, err
	}
	defer body.Close()

	var entries []Entry
	decoder := codec.NewDecoder(body)
	for {
		var entry Entry
		err := decoder.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return header, fmt.Errorf("state: reading snapshot record %d: %w", len(entries), err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != header.Records {
		return header, fmt.Errorf("state: snapshot holds %d records, header says %d", len(entries), header.Records)
	}

	err = store.Update(ctx, func(tx Tx) error {
		existing := 0
		if err := tx.Scan(func(Entry) error {
			existing++
			return nil
		}); err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("state: import target holds %d records; it must be empty", existing)
		}
		for _, entry := range entries {
			if err := tx.Restore(entry); err != nil {
				return err
			}
		}
		return nil
	})
	return header, err
}

// maxHeaderSize bounds the header allocation for corrupt input.
const maxHeaderSize = 64 << 10

// ReadHeader reads only the header of a snapshot.
func ReadHeader(r io.Reader) (SnapshotHeader, error) {
	return readHeader(bufio.NewReader(r))
}

func readHeader(r *bufio.Reader) (SnapshotHeader, error) {
	var header SnapshotHeader
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return header, fmt.Errorf("state: reading snapshot header length: %w", err)
	}
	if length == 0 || length > maxHeaderSize {
		return header, fmt.Errorf("state: snapshot header length %d out of range", length)
	}
	encoded := make([]byte, length)
	if _, err := io.ReadFull(r, encoded); err != nil {
		return header, fmt.Errorf("state: reading snapshot header: %w", err)
	}
	if err := codec.Unmarshal(encoded, &header); err != nil {
		return header, fmt.Errorf("state: decoding snapshot header: %w", err)
	}
	return header, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("state: creating zstd writer: %w", err)
		}
		return encoder, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("state: unknown snapshot compression %q", compression)
	}
}

type zstdReadCloser struct{ *zstd.Decoder }

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func compressReader(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("state: creating zstd reader: %w", err)
		}
		return zstdReadCloser{decoder}, nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("state: unknown snapshot compression %q", compression)
	}
}
