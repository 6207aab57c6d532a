package audioring

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/smallnest/ringbuffer"
)

// Frame is one chunk of PCM audio received from a recording client.
type Frame struct {
	Data       []byte
	Timestamp  time.Time
	SampleRate int32
	Channels   int16
}

const frameHeaderSize = 8 + 4 + 2 + 4 // timestamp + sampleRate + channels + dataLen

func (f *Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, frameHeaderSize+len(f.Data))
	binary.LittleEndian.PutUint64(buf[0:], uint64(f.Timestamp.UnixNano()))
	binary.LittleEndian.PutUint32(buf[8:], uint32(f.SampleRate))
	binary.LittleEndian.PutUint16(buf[12:], uint16(f.Channels))
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(f.Data)))
	copy(buf[frameHeaderSize:], f.Data)
	return buf, nil
}

func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < frameHeaderSize {
		return errors.New("frame too short")
	}
	f.Timestamp = time.Unix(0, int64(binary.LittleEndian.Uint64(data[0:])))
	f.SampleRate = int32(binary.LittleEndian.Uint32(data[8:]))
	f.Channels = int16(binary.LittleEndian.Uint16(data[12:]))
	dataLen := int(binary.LittleEndian.Uint32(data[14:]))
	if len(data[frameHeaderSize:]) < dataLen {
		return errors.New("frame data truncated")
	}
	f.Data = make([]byte, dataLen)
	copy(f.Data, data[frameHeaderSize:frameHeaderSize+dataLen])
	return nil
}

// Ring buffers audio frames during a recording. When full, the oldest
// frames are evicted so a stalled consumer never blocks the socket reader.
type Ring interface {
	Enqueue(frame Frame) error
	Dequeue() (Frame, bool)
	// DrainAll empties the ring and returns the buffered frames in order.
	DrainAll() []Frame
	Len() int
	Capacity() int
}

var ErrFrameTooLarge = errors.New("audio frame too large for buffer")

type ring struct {
	size int
	rb   *ringbuffer.RingBuffer
}

func New(size int) Ring {
	return &ring{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false),
	}
}

func (r *ring) Capacity() int { return r.size }

func (r *ring) Len() int { return r.rb.Length() }

// Frames are stored length-prefixed: 4 bytes little-endian size, then the
// marshaled frame.
func (r *ring) Enqueue(frame Frame) error {
	data, err := frame.MarshalBinary()
	if err != nil {
		return err
	}

	required := len(data) + 4
	if required > r.rb.Capacity() {
		return ErrFrameTooLarge
	}

	for r.rb.Free() < required {
		if !r.skipOldest() {
			r.rb.Reset()
			break
		}
	}

	var sizeBytes [4]byte
	binary.LittleEndian.PutUint32(sizeBytes[:], uint32(len(data)))
	if _, err := r.rb.Write(sizeBytes[:]); err != nil {
		return err
	}
	_, err = r.rb.Write(data)
	return err
}

func (r *ring) Dequeue() (Frame, bool) {
	if r.rb.IsEmpty() {
		return Frame{}, false
	}

	var sizeBytes [4]byte
	if n, err := r.rb.Read(sizeBytes[:]); err != nil || n != 4 {
		return Frame{}, false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes[:]))

	data := make([]byte, size)
	if n, err := r.rb.Read(data); err != nil || n != size {
		return Frame{}, false
	}

	var frame Frame
	if err := frame.UnmarshalBinary(data); err != nil {
		return Frame{}, false
	}
	return frame, true
}

func (r *ring) DrainAll() []Frame {
	var frames []Frame
	for {
		frame, ok := r.Dequeue()
		if !ok {
			return frames
		}
		frames = append(frames, frame)
	}
}

func (r *ring) skipOldest() bool {
	if r.rb.IsEmpty() {
		return false
	}

	var sizeBytes [4]byte
	if n, err := r.rb.Read(sizeBytes[:]); err != nil || n != 4 {
		return false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes[:]))
	if size > 0 {
		skip := make([]byte, size)
		if n, err := r.rb.Read(skip); err != nil || n != size {
			return false
		}
	}
	return true
}
