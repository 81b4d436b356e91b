// Package dfs0 writes a fixed-format binary time-series container: a header
// declaring named, unit-tagged channels, then a stream of records carrying
// the elapsed seconds since the start time and one float32 per channel.
//
// The channel schema is fixed at creation time; records are appended in time
// order. A reader for the same layout is provided for verification.
package dfs0

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var magic = [4]byte{'D', 'F', 'S', '0'}

const formatVersion uint16 = 1

const (
	ValueFloat32 uint8 = 1

	DataInstantaneous uint8 = 1
)

var (
	ErrBadMagic   = errors.New("not a dfs0 container")
	ErrValueCount = errors.New("value count does not match channel count")
)

// Channel is one named, typed series in the container.
type Channel struct {
	Name      string
	Unit      string
	ValueType uint8
	DataKind  uint8
}

// Builder accumulates the file header. Channels cannot change once the file
// is created.
type Builder struct {
	title      string
	appTitle   string
	appVersion uint32
	start      time.Time
	channels   []Channel
}

func NewBuilder(title, appTitle string, appVersion uint32) *Builder {
	return &Builder{title: title, appTitle: appTitle, appVersion: appVersion}
}

// SetStartTime anchors the relative time axis. Record times are elapsed
// seconds since this instant.
func (b *Builder) SetStartTime(t time.Time) { b.start = t }

// AddChannel declares one instantaneous float32 channel.
func (b *Builder) AddChannel(name, unit string) {
	b.channels = append(b.channels, Channel{
		Name:      name,
		Unit:      unit,
		ValueType: ValueFloat32,
		DataKind:  DataInstantaneous,
	})
}

// Create writes the header and returns the open file ready for records. The
// file only comes into existence here, once the schema is determinate.
func (b *Builder) Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating dfs0 file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := b.writeHeader(w); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing dfs0 header: %w", err)
	}

	return &File{f: f, w: w, channels: len(b.channels)}, nil
}

func (b *Builder) writeHeader(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := writeString(w, b.title); err != nil {
		return err
	}
	if err := writeString(w, b.appTitle); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, b.appVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, b.start.UTC().UnixNano()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b.channels))); err != nil {
		return err
	}
	for _, ch := range b.channels {
		if err := writeString(w, ch.Name); err != nil {
			return err
		}
		if err := writeString(w, ch.Unit); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, ch.ValueType); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, ch.DataKind); err != nil {
			return err
		}
	}
	return nil
}

// File is an open container positioned after the header.
type File struct {
	f        *os.File
	w        *bufio.Writer
	channels int
}

// WriteRecord appends one time step: elapsed seconds since the start time and
// one value per declared channel, in declaration order.
func (f *File) WriteRecord(elapsed float64, values []float32) error {
	if len(values) != f.channels {
		return fmt.Errorf("%w: got %d, want %d", ErrValueCount, len(values), f.channels)
	}
	if err := binary.Write(f.w, binary.LittleEndian, elapsed); err != nil {
		return err
	}
	return binary.Write(f.w, binary.LittleEndian, values)
}

func (f *File) Close() error {
	if err := f.w.Flush(); err != nil {
		f.f.Close()
		return err
	}
	return f.f.Close()
}

// Contents is a fully decoded container, for verification.
type Contents struct {
	Title      string
	AppTitle   string
	AppVersion uint32
	Start      time.Time
	Channels   []Channel
	Records    []Record
}

type Record struct {
	Elapsed float64
	Values  []float32
}

// Read decodes a whole container file.
func Read(path string) (*Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dfs0 file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	if gotMagic != magic {
		return nil, ErrBadMagic
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported dfs0 version: %d", version)
	}

	var c Contents
	if c.Title, err = readString(r); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	if c.AppTitle, err = readString(r); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.AppVersion); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	var startNanos int64
	if err := binary.Read(r, binary.LittleEndian, &startNanos); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	c.Start = time.Unix(0, startNanos).UTC()

	var channelCount uint32
	if err := binary.Read(r, binary.LittleEndian, &channelCount); err != nil {
		return nil, fmt.Errorf("reading dfs0 header: %w", err)
	}
	for i := uint32(0); i < channelCount; i++ {
		var ch Channel
		if ch.Name, err = readString(r); err != nil {
			return nil, fmt.Errorf("reading dfs0 channel %d: %w", i, err)
		}
		if ch.Unit, err = readString(r); err != nil {
			return nil, fmt.Errorf("reading dfs0 channel %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &ch.ValueType); err != nil {
			return nil, fmt.Errorf("reading dfs0 channel %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &ch.DataKind); err != nil {
			return nil, fmt.Errorf("reading dfs0 channel %d: %w", i, err)
		}
		c.Channels = append(c.Channels, ch)
	}

	for {
		var rec Record
		err := binary.Read(r, binary.LittleEndian, &rec.Elapsed)
		if err == io.EOF {
			return &c, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading dfs0 record: %w", err)
		}
		rec.Values = make([]float32, channelCount)
		if err := binary.Read(r, binary.LittleEndian, rec.Values); err != nil {
			return nil, fmt.Errorf("reading dfs0 record: %w", err)
		}
		c.Records = append(c.Records, rec)
	}
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
