// Package dmi decodes and encodes BYOND icon containers: a PNG whose
// trailing zTXt chunk carries a key/value description of the icon's
// states (name, dirs, frames, delay, rewind), and whose raster is a flat
// vertical strip of width×height sub-images in state order.
package dmi

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"strings"
)

// ErrNotPNG is returned when the input does not begin with a PNG
// signature.
var ErrNotPNG = errors.New("dmi: not a PNG file")

// ErrNoDescription is returned when a PNG carries no zTXt chunk holding a
// BYOND-flavored description, so no icon states could be recovered.
var ErrNoDescription = errors.New("dmi: no icon description found in zTXt chunk")

// ErrRasterMismatch is returned when the decoded raster's dimensions are
// not an exact multiple of the described icon_size.
var ErrRasterMismatch = errors.New("dmi: raster dimensions do not match description")

const zTXtKeyword = "Description"

// Icon is a decoded icon container: a single raster image sliced into
// named, directional, animated states.
type Icon struct {
	Width, Height int
	States        []IconState
}

// IconState is one named entry in an Icon: a dirs*frames grid of
// sub-images, in frame-major (frame outer, dir inner) order, matching the
// order PerformOperation composes them in.
type IconState struct {
	Name   string
	Dirs   int
	Frames int
	Images []image.Image
	Delay  []float32
	Rewind bool
}

// Decode parses a DMI file: the PNG raster via the standard library, and
// the BYOND description via a manual zTXt chunk walk, since image/png
// discards ancillary chunks.
func Decode(r io.Reader) (*Icon, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dmi: read: %w", err)
	}
	if !bytes.HasPrefix(raw, pngSignature[:]) {
		return nil, ErrNotPNG
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("dmi: decode raster: %w", err)
	}

	desc, err := extractDescription(raw)
	if err != nil {
		return nil, err
	}

	icon, err := parseDescription(desc)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if icon.Width == 0 || icon.Height == 0 {
		return nil, ErrRasterMismatch
	}
	if bounds.Dx()%icon.Width != 0 || bounds.Dy()%icon.Height != 0 {
		return nil, ErrRasterMismatch
	}
	cols := bounds.Dx() / icon.Width

	index := 0
	for i := range icon.States {
		st := &icon.States[i]
		n := st.Dirs * st.Frames
		st.Images = make([]image.Image, n)
		for j := 0; j < n; j++ {
			row := index / cols
			col := index % cols
			x0 := bounds.Min.X + col*icon.Width
			y0 := bounds.Min.Y + row*icon.Height
			sub := image.NewNRGBA(image.Rect(0, 0, icon.Width, icon.Height))
			draw.Draw(sub, sub.Bounds(), img, image.Point{X: x0, Y: y0}, draw.Src)
			st.Images[j] = sub
			index++
		}
	}
	return icon, nil
}

// Encode writes an Icon back out as a DMI: a flat vertical strip raster
// (one row per state-direction-frame triple, in Icon.States order) plus
// its zTXt description chunk.
func Encode(icon *Icon, w io.Writer) error {
	total := 0
	for _, st := range icon.States {
		total += st.Dirs * st.Frames
	}
	if total == 0 {
		return errors.New("dmi: icon has no frames to encode")
	}

	strip := image.NewNRGBA(image.Rect(0, 0, icon.Width, icon.Height*total))
	row := 0
	for _, st := range icon.States {
		for _, frame := range st.Images {
			dst := image.Rect(0, row*icon.Height, icon.Width, (row+1)*icon.Height)
			draw.Draw(strip, dst, frame, frame.Bounds().Min, draw.Src)
			row++
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, strip); err != nil {
		return fmt.Errorf("dmi: encode raster: %w", err)
	}

	desc := buildDescription(icon)
	withText, err := insertZTXt(buf.Bytes(), desc)
	if err != nil {
		return fmt.Errorf("dmi: embed description: %w", err)
	}
	_, err = w.Write(withText)
	return err
}

var pngSignature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// extractDescription walks a PNG's chunks looking for a zTXt chunk with
// keyword "Description", and zlib-inflates its compressed text.
func extractDescription(raw []byte) (string, error) {
	pos := 8
	for pos+8 <= len(raw) {
		length := binary.BigEndian.Uint32(raw[pos : pos+4])
		typ := string(raw[pos+4 : pos+8])
		dataStart := pos + 8
		dataEnd := dataStart + int(length)
		if dataEnd > len(raw) {
			break
		}
		data := raw[dataStart:dataEnd]
		if typ == "zTXt" {
			nul := bytes.IndexByte(data, 0)
			if nul >= 0 && string(data[:nul]) == zTXtKeyword {
				zr, err := zlib.NewReader(bytes.NewReader(data[nul+2:]))
				if err != nil {
					return "", fmt.Errorf("dmi: inflate description: %w", err)
				}
				defer zr.Close()
				text, err := io.ReadAll(zr)
				if err != nil {
					return "", fmt.Errorf("dmi: inflate description: %w", err)
				}
				return string(text), nil
			}
		}
		pos = dataEnd + 4 // skip CRC
		if typ == "IEND" {
			break
		}
	}
	return "", ErrNoDescription
}

// insertZTXt rebuilds a PNG byte stream with a zTXt chunk holding text
// inserted immediately before the IEND chunk.
func insertZTXt(raw []byte, text string) ([]byte, error) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write([]byte(text)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	data := append([]byte(zTXtKeyword), 0, 0) // keyword NUL compression-method
	data = append(data, compressed.Bytes()...)
	chunk := makeChunk("zTXt", data)

	iend := bytes.LastIndex(raw, []byte("IEND"))
	if iend < 12 {
		return nil, errors.New("dmi: malformed PNG, no IEND chunk")
	}
	insertAt := iend - 4 // back up over the length field preceding "IEND"
	out := make([]byte, 0, len(raw)+len(chunk))
	out = append(out, raw[:insertAt]...)
	out = append(out, chunk...)
	out = append(out, raw[insertAt:]...)
	return out, nil
}

func makeChunk(typ string, data []byte) []byte {
	buf := make([]byte, 0, 12+len(data))
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(data)))
	buf = append(buf, lenField[:]...)
	buf = append(buf, []byte(typ)...)
	buf = append(buf, data...)

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	var crcField [4]byte
	binary.BigEndian.PutUint32(crcField[:], crc.Sum32())
	buf = append(buf, crcField[:]...)
	return buf
}

// parseDescription parses the BYOND-flavored text format:
//
//	# BEGIN DMI
//	version = 4.0
//	        width = 32
//	        height = 32
//	state = "name"
//	        dirs = 4
//	        frames = 2
//	        delay = 1,1
//	        rewind = 1
//	# END DMI
func parseDescription(text string) (*Icon, error) {
	icon := &Icon{}
	var cur *IconState

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "width":
			icon.Width, _ = strconv.Atoi(value)
		case "height":
			icon.Height, _ = strconv.Atoi(value)
		case "state":
			icon.States = append(icon.States, IconState{Name: strings.Trim(value, `"`), Dirs: 1, Frames: 1})
			cur = &icon.States[len(icon.States)-1]
		case "dirs":
			if cur != nil {
				cur.Dirs, _ = strconv.Atoi(value)
			}
		case "frames":
			if cur != nil {
				cur.Frames, _ = strconv.Atoi(value)
			}
		case "delay":
			if cur != nil {
				for _, part := range strings.Split(value, ",") {
					d, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
					if err == nil {
						cur.Delay = append(cur.Delay, float32(d))
					}
				}
			}
		case "rewind":
			if cur != nil {
				cur.Rewind = strings.TrimSpace(value) == "1"
			}
		}
	}
	if len(icon.States) == 0 {
		return nil, ErrNoDescription
	}
	return icon, nil
}

// buildDescription renders an Icon's states back into the BYOND-flavored
// description text that parseDescription reads.
func buildDescription(icon *Icon) string {
	var b strings.Builder
	b.WriteString("# BEGIN DMI\n")
	b.WriteString("version = 4.0\n")
	fmt.Fprintf(&b, "\twidth = %d\n", icon.Width)
	fmt.Fprintf(&b, "\theight = %d\n", icon.Height)
	for _, st := range icon.States {
		fmt.Fprintf(&b, "state = %q\n", st.Name)
		fmt.Fprintf(&b, "\tdirs = %d\n", st.Dirs)
		fmt.Fprintf(&b, "\tframes = %d\n", st.Frames)
		if len(st.Delay) > 0 {
			parts := make([]string, len(st.Delay))
			for i, d := range st.Delay {
				parts[i] = strconv.FormatFloat(float64(d), 'g', -1, 32)
			}
			fmt.Fprintf(&b, "\tdelay = %s\n", strings.Join(parts, ","))
		}
		if st.Rewind {
			b.WriteString("\trewind = 1\n")
		}
	}
	b.WriteString("# END DMI\n")
	return b.String()
}
