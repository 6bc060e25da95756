/*
Copyright © 2018 the Synaer authors.
This file is part of Synaer.

Synaer is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Synaer is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Synaer.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// CubeByteOrder is the byte order of binary table files.
var CubeByteOrder binary.ByteOrder = binary.LittleEndian

// ReadCube reads exactly n single-precision values from a headerless
// binary table. It is an error for r to hold more or fewer values.
func ReadCube(r io.Reader, n int) ([]float64, error) {
	br := bufio.NewReader(r)
	v32 := make([]float32, n)
	if err := binary.Read(br, CubeByteOrder, v32); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("synaer: table holds fewer than %d values: %w", n, ErrLoad)
		}
		return nil, fmt.Errorf("synaer: reading table: %v: %w", err, ErrLoad)
	}
	if _, err := br.ReadByte(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("synaer: reading table: %v: %w", err, ErrLoad)
		}
		return nil, fmt.Errorf("synaer: table holds more than %d values: %w", n, ErrLoad)
	}
	v := make([]float64, n)
	for i, x := range v32 {
		v[i] = float64(x)
	}
	return v, nil
}

// LoadCube reads a binary table of n values from path. If path does not
// exist but path+".zst" does, the zstd-compressed file is read instead.
func LoadCube(path string, n int) ([]float64, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if _, zerr := os.Stat(path + ".zst"); os.IsNotExist(zerr) {
			return nil, fmt.Errorf("synaer: opening table: neither %s nor %s.zst exists: %w", path, path, ErrLoad)
		}
		return loadCompressedCube(path+".zst", n)
	}
	if err != nil {
		return nil, fmt.Errorf("synaer: opening table: %v: %w", err, ErrLoad)
	}
	defer f.Close()
	v, err := ReadCube(f, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func loadCompressedCube(path string, n int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("synaer: opening table: %v: %w", err, ErrLoad)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("synaer: creating zstd reader for %s: %v: %w", path, err, ErrLoad)
	}
	defer zr.Close()
	v, err := ReadCube(zr, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// WriteCube writes values to w in the format read by ReadCube.
// Values are rounded to single precision.
func WriteCube(w io.Writer, values []float64) error {
	v32 := make([]float32, len(values))
	for i, x := range values {
		v32[i] = float32(x)
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, CubeByteOrder, v32); err != nil {
		return fmt.Errorf("synaer: writing table: %w", err)
	}
	return bw.Flush()
}

// CompressCube writes values to w as a zstd-compressed binary table.
func CompressCube(w io.Writer, values []float64) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("synaer: creating zstd writer: %w", err)
	}
	if err := WriteCube(zw, values); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("synaer: closing zstd writer: %w", err)
	}
	return nil
}
