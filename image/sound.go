package image

import (
	"encoding/binary"
	"io"

	"github.com/shroomkit/wz/errs"
)

// GUID is a 16-byte DirectShow media type identifier, stored and compared
// as the raw bytes the format serializes (Data1/Data2/Data3 little-endian,
// Data4 verbatim) rather than as any textual GUID representation.
type GUID [16]byte

var (
	mediaTypeStream         = GUID{0x83, 0xEB, 0x36, 0xE4, 0x4F, 0x52, 0xCE, 0x11, 0x9F, 0x53, 0x00, 0x20, 0xAF, 0x0B, 0xA7, 0x70}
	mediaSubtypeMpeg1Packet = GUID{0x87, 0xEB, 0x36, 0xE4, 0x4F, 0x52, 0xCE, 0x11, 0x9F, 0x53, 0x00, 0x20, 0xAF, 0x0B, 0xA7, 0x70}
	mediaSubtypeWave        = GUID{0x8B, 0xEB, 0x36, 0xE4, 0x4F, 0x52, 0xCE, 0x11, 0x9F, 0x53, 0x00, 0x20, 0xAF, 0x0B, 0xA7, 0x70}
)

const (
	waveFormatPCM = 0x0001
	waveFormatMP3 = 0x0055

	waveHeaderSize = 18
	pcmHeaderSize  = 44
)

// MediaHeader is the DirectShow AM_MEDIA_TYPE prefix every sound object
// carries ahead of its format-specific sub-header.
type MediaHeader struct {
	Unknown1   uint8
	MajorType  GUID
	SubType    GUID
	SampleSize uint16
	FormatType GUID
}

// WaveHeader mirrors a WAVEFORMATEX structure's fixed fields.
type WaveHeader struct {
	Format         uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraSize      uint16
}

// Mpeg3WaveHeader extends WaveHeader with the MPEGLAYER3WAVEFORMAT fields
// used when the wave sub-type's format tag is MP3.
type Mpeg3WaveHeader struct {
	Wave           WaveHeader
	ID             uint16
	Flags          uint32
	BlockSize      uint16
	FramesPerBlock uint16
	CodecDelay     uint16
}

// SoundFormatKind names which of SoundHeader's format-specific fields is
// populated, mirroring the sub_type/format dispatch the original media
// header performs.
type SoundFormatKind uint8

const (
	SoundFormatMpeg1 SoundFormatKind = iota
	SoundFormatMpeg3
	SoundFormatPCM
)

// SoundHeader is a sound object's fully-parsed header: the media type
// prefix plus the dispatched format-specific sub-header.
type SoundHeader struct {
	Media      MediaHeader
	FormatKind SoundFormatKind

	Mpeg1 [73]byte
	Mpeg3 Mpeg3WaveHeader
	PCM   WaveHeader
}

// Sound is a Sound_DX8 object: its header plus the position and size of
// the raw (still encoded, e.g. MP3 or PCM) audio frame that follows.
type Sound struct {
	Unknown   uint8
	Size      int32
	LenMs     int32
	Header    SoundHeader
	offsetPos int64 // local position of the first audio data byte
}

// DataSize is the audio payload's byte length: Size, plus the 44-byte
// canonical WAV header the PCM format prepends at playback time.
func (s Sound) DataSize() int64 {
	n := int64(s.Size)
	if s.Header.FormatKind == SoundFormatPCM {
		n += pcmHeaderSize
	}

	return n
}

func readGUID(r io.Reader) (GUID, error) {
	var g GUID
	_, err := io.ReadFull(r, g[:])

	return g, err
}

func readWaveHeader(r io.Reader) (WaveHeader, error) {
	var buf [waveHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return WaveHeader{}, err
	}

	return WaveHeader{
		Format:         binary.LittleEndian.Uint16(buf[0:2]),
		Channels:       binary.LittleEndian.Uint16(buf[2:4]),
		SamplesPerSec:  binary.LittleEndian.Uint32(buf[4:8]),
		AvgBytesPerSec: binary.LittleEndian.Uint32(buf[8:12]),
		BlockAlign:     binary.LittleEndian.Uint16(buf[12:14]),
		BitsPerSample:  binary.LittleEndian.Uint16(buf[14:16]),
		ExtraSize:      binary.LittleEndian.Uint16(buf[16:18]),
	}, nil
}

func readMpeg3WaveHeader(r io.Reader) (Mpeg3WaveHeader, error) {
	wav, err := readWaveHeader(r)
	if err != nil {
		return Mpeg3WaveHeader{}, err
	}

	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Mpeg3WaveHeader{}, err
	}

	return Mpeg3WaveHeader{
		Wave:           wav,
		ID:             binary.LittleEndian.Uint16(buf[0:2]),
		Flags:          binary.LittleEndian.Uint32(buf[2:6]),
		BlockSize:      binary.LittleEndian.Uint16(buf[6:8]),
		FramesPerBlock: binary.LittleEndian.Uint16(buf[8:10]),
		CodecDelay:     binary.LittleEndian.Uint16(buf[10:12]),
	}, nil
}

// readSoundHeader reads a sound object's MediaHeader and dispatches on its
// sub-type GUID to the matching format-specific sub-header.
func readSoundHeader(src *Reader) (SoundHeader, error) {
	pos := src.src.Pos()

	unknown1, err := src.src.ReadByte()
	if err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}

	majorType, err := readGUID(src.src)
	if err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}
	if majorType != mediaTypeStream {
		return SoundHeader{}, errs.AtPos(pos, errs.ErrBadSoundMajor)
	}

	subType, err := readGUID(src.src)
	if err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}

	var sampleSizeBuf [2]byte
	if _, err := io.ReadFull(src.src, sampleSizeBuf[:]); err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}
	sampleSize := binary.LittleEndian.Uint16(sampleSizeBuf[:])

	formatType, err := readGUID(src.src)
	if err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}

	media := MediaHeader{
		Unknown1:   unknown1,
		MajorType:  majorType,
		SubType:    subType,
		SampleSize: sampleSize,
		FormatType: formatType,
	}

	hdrLen, err := src.src.ReadByte()
	if err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}

	sub := make([]byte, hdrLen)
	if _, err := io.ReadFull(src.src, sub); err != nil {
		return SoundHeader{}, errs.AtPos(pos, err)
	}

	switch subType {
	case mediaSubtypeMpeg1Packet:
		var body [73]byte
		copy(body[:], sub)

		return SoundHeader{Media: media, FormatKind: SoundFormatMpeg1, Mpeg1: body}, nil

	case mediaSubtypeWave:
		wav, err := readWaveHeader(bytesReader(sub))
		if err != nil {
			return SoundHeader{}, errs.AtPos(pos, err)
		}

		switch wav.Format {
		case waveFormatPCM:
			return SoundHeader{Media: media, FormatKind: SoundFormatPCM, PCM: wav}, nil
		case waveFormatMP3:
			mp3, err := readMpeg3WaveHeader(bytesReader(sub))
			if err != nil {
				return SoundHeader{}, errs.AtPos(pos, err)
			}

			return SoundHeader{Media: media, FormatKind: SoundFormatMpeg3, Mpeg3: mp3}, nil
		default:
			return SoundHeader{}, errs.AtPos(pos, errs.ErrBadWaveFormat)
		}

	default:
		return SoundHeader{}, errs.AtPos(pos, errs.ErrBadSoundSubtype)
	}
}

// bytesReader is a tiny helper local to this file: readWaveHeader and
// readMpeg3WaveHeader want an io.Reader over an already-captured buffer so
// the same parsing code serves both the live stream and a re-parse of the
// sub-header bytes already read once.
func bytesReader(b []byte) io.Reader {
	return &sliceReader{b: b}
}

type sliceReader struct {
	b []byte
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}

	n := copy(p, r.b)
	r.b = r.b[n:]

	return n, nil
}

// readSound reads a complete Sound_DX8 object: its unknown byte, size,
// duration, dispatched header, and the local position its raw audio frame
// starts at.
func readSound(r *Reader) (Sound, error) {
	unknown, err := r.src.ReadByte()
	if err != nil {
		return Sound{}, errs.AtPos(r.src.Pos(), err)
	}

	size, err := r.readInt()
	if err != nil {
		return Sound{}, err
	}

	lenMs, err := r.readInt()
	if err != nil {
		return Sound{}, err
	}

	hdr, err := readSoundHeader(r)
	if err != nil {
		return Sound{}, err
	}

	return Sound{
		Unknown:   unknown,
		Size:      size,
		LenMs:     lenMs,
		Header:    hdr,
		offsetPos: r.src.LocalPos(),
	}, nil
}

// ReadData seeks to and reads a sound's raw opaque audio payload.
func (r *Reader) ReadData(s Sound) ([]byte, error) {
	if err := r.src.SeekToLocal(s.offsetPos); err != nil {
		return nil, errs.AtPos(r.src.Pos(), err)
	}

	buf := make([]byte, s.DataSize())
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, errs.AtPos(r.src.Pos(), err)
	}

	return buf, nil
}
