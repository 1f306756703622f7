package mvfs

import (
	"io"

	"golang.org/x/text/transform"

	"github.com/mvfslib/mvfs/codec"
)

// PosState tracks the get-area position invariants a StreamBuffer must
// enforce across reads: nothing unusual has happened yet (PosInitial), a
// failed pushback or a read after an append-mode write broke the normal
// read sequence until the next seek (PosBroken), a
// pushed-back byte is waiting to be re-read (PosPushbackPending), or the
// buffer is positioned at end-of-stream because a prior append-mode write
// advanced it there (PosAtEnd). Grounded on virt_filebuf.h's posstate
// bitset (_pos_initial/_pos_broken/_pbackwas/_pos_ate).
type PosState uint8

const (
	PosInitial         PosState = 0
	PosBroken          PosState = 1 << 0
	PosPushbackPending PosState = 1 << 1
	PosAtEnd           PosState = 1 << 2
)

// DefaultBufferChunkSize is the growth unit a StreamBuffer's backing region
// is rounded up to, matching virt_filebuf.h's buffer_chunk_size.
const DefaultBufferChunkSize = 256

// ErrEmptyFlush is returned by Sync/Close when the put area converts to
// zero bytes — the source's flush_buffer treats this as a hard failure
// rather than a silent no-op (spec's supplemented "flush-empty-is-failure"
// behavior).
var ErrEmptyFlush = NewError(InvalidPath, "flush", "", io.EOF)

// StreamBuffer is a buffered byte stream over a single File, modeled on
// std::basic_filebuf<char> (virt_filebuf.h). It owns a single growable
// byte region split into a get area (bytes already decoded from the
// file's content on Open) and a put area (the bytes from putAreaStart to
// the end of content that the next flush writes back: the whole content,
// or in App mode the bytes appended since Open or the last flush); unlike
// a real OS file, both areas
// live in the same in-memory region, since there is no separate kernel
// page cache to desynchronize from.
//
// A StreamBuffer is not safe for concurrent use — see the package-level
// concurrency note on FilesystemRoot.
type StreamBuffer struct {
	file *File
	mode OpenMode

	decoder, encoder transform.Transformer

	buf          []byte // capacity region; len(buf) is the current capacity
	pos          int    // current get/put cursor
	fend         int    // length of valid content
	putAreaStart int    // where unflushed put-area bytes begin

	pushback byte
	posState PosState

	chunkSize int
}

// NewStreamBuffer constructs an unopened StreamBuffer that rounds its
// backing region to multiples of chunkSize (DefaultBufferChunkSize if
// chunkSize <= 0).
func NewStreamBuffer(chunkSize int) *StreamBuffer {
	if chunkSize <= 0 {
		chunkSize = DefaultBufferChunkSize
	}
	return &StreamBuffer{chunkSize: chunkSize}
}

// IsOpen reports whether the buffer currently has a file attached.
func (sb *StreamBuffer) IsOpen() bool { return sb.file != nil }

// Open attaches sb to the file named by path under folder, applying mode
// (spec §4.6). If the file doesn't exist and mode allows creation
// (write-only Out, or any mode with Trunc or App), it is created; In|Out
// without Trunc or App fails with NotFound. Creation synthesizes missing
// parent folders when
// createParents is set. cdc selects the byte<->stream conversion; pass
// codec.Identity for raw bytes.
func (sb *StreamBuffer) Open(folder *Folder, path Path, mode OpenMode, createParents bool, cdc codec.Codec) error {
	if sb.file != nil {
		return NewError(Exists, "open", path.Raw(), nil)
	}

	normalized, ok := NormalizeMode(mode)
	if !ok {
		return NewError(InvalidPath, "open", path.Raw(), nil)
	}
	mode = normalized
	onlyOut := mode&(Out|In) == Out

	sb.decoder = codec.NewDecoder(cdc)
	sb.encoder = codec.NewEncoder(cdc)

	var file *File
	if entry, err := folder.Lookup(path); err == nil {
		f, ok := AsFile(entry)
		if !ok {
			return NewError(Permission, "open", path.Raw(), nil)
		}
		file = f
	} else if !isErrKind(err, NotFound) {
		return err
	}

	if file != nil {
		if !(mode&Trunc != 0 || onlyOut) || mode&App != 0 {
			if err := sb.initBufferFrom(file, mode); err != nil {
				return err
			}
			sb.file = file
			sb.mode = mode
			return nil
		}
		file.Truncate()
	} else if mode&(Trunc|App) != 0 || onlyOut {
		f, err := folder.CreateFile(path, createParents)
		if err != nil {
			return err
		}
		file = f
	} else {
		return NewError(NotFound, "open", path.Raw(), nil)
	}

	sb.createBuffer(sb.chunkSize)
	sb.putAreaStart, sb.fend, sb.pos = 0, 0, 0
	sb.file = file
	sb.mode = mode
	return nil
}

func (sb *StreamBuffer) initBufferFrom(file *File, mode OpenMode) error {
	converted, err := codec.Decode(sb.decoder, file.ReadAll())
	if err != nil {
		return err
	}

	sb.createBuffer(len(converted))
	copy(sb.buf, converted)
	sb.fend = len(converted)

	if mode&Ate != 0 {
		sb.pos = sb.fend
	} else {
		sb.pos = 0
	}
	if mode&App != 0 {
		sb.putAreaStart = sb.fend
	} else {
		sb.putAreaStart = 0
	}
	return nil
}

func (sb *StreamBuffer) roundToChunk(minSize int) int {
	chunk := sb.chunkSize
	if chunk <= 0 {
		chunk = DefaultBufferChunkSize
	}
	if minSize <= 0 {
		return chunk
	}
	return ((minSize + chunk - 1) / chunk) * chunk
}

func (sb *StreamBuffer) createBuffer(minSize int) {
	sb.buf = make([]byte, sb.roundToChunk(minSize))
}

// extendBuffer grows the backing region by at least one unit, preserving
// content, mirroring virt_filebuf.h's extend_buffer.
func (sb *StreamBuffer) extendBuffer() {
	newBuf := make([]byte, sb.roundToChunk(len(sb.buf)+1))
	copy(newBuf, sb.buf[:sb.fend])
	sb.buf = newBuf
}

// ShowManyC reports how many bytes are available to read without blocking.
func (sb *StreamBuffer) ShowManyC() int {
	if sb.file == nil || sb.mode&In == 0 {
		return 0
	}
	return sb.fend - sb.pos
}

// UnreadByte backs the get cursor up by one position without checking what
// was there, the Traits::eof()-argument case of pbackfail.
func (sb *StreamBuffer) UnreadByte() error {
	return sb.pback(0, false)
}

// PushBack backs the get cursor up by one position and arranges for ch to
// be the next byte UFlow/ReadByte returns, even if it differs from what is
// actually in the buffer at that position.
func (sb *StreamBuffer) PushBack(ch byte) error {
	return sb.pback(ch, true)
}

func (sb *StreamBuffer) pback(ch byte, hasCh bool) error {
	if sb.file == nil || sb.mode&In == 0 {
		return io.EOF
	}
	if sb.pos <= 0 || sb.posState != PosInitial {
		sb.posState |= PosBroken
		return io.EOF
	}
	sb.pos--
	if !hasCh {
		return nil
	}
	if sb.buf[sb.pos] != ch {
		sb.pushback = ch
		sb.posState |= PosPushbackPending
	}
	return nil
}

// WriteByte appends or overwrites a single byte at the put cursor, growing
// the backing region if needed. Grounded on virt_filebuf.h's overflow,
// including its quirk of advancing pos unconditionally even in append mode,
// where the byte actually lands at fend rather than pos — preserved as-is
// rather than "fixed" (spec's non-transactional/fragile-behavior stance).
func (sb *StreamBuffer) WriteByte(ch byte) error {
	if sb.file == nil || sb.mode&Out == 0 || sb.posState&PosBroken != 0 {
		return io.ErrClosedPipe
	}

	p := sb.pos
	if sb.mode&App != 0 {
		p = sb.fend
	}
	if p >= len(sb.buf) {
		sb.extendBuffer()
	}

	sb.buf[p] = ch
	p++

	if sb.mode&App != 0 {
		sb.posState = PosAtEnd
	}
	if p > sb.fend {
		sb.fend = p
	}
	sb.pos++
	return nil
}

// Write implements io.Writer by repeated WriteByte.
func (sb *StreamBuffer) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := sb.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Underflow returns the next byte without consuming it, or ok=false at
// EOF/broken state.
func (sb *StreamBuffer) Underflow() (ch byte, ok bool) {
	if sb.posState&PosBroken != 0 {
		return 0, false
	}
	if sb.posState&PosAtEnd != 0 {
		sb.posState |= PosBroken
		return 0, false
	}
	if sb.posState&PosPushbackPending != 0 {
		return sb.pushback, true
	}
	if sb.file == nil || sb.mode&In == 0 || sb.pos >= sb.fend {
		return 0, false
	}
	return sb.buf[sb.pos], true
}

// UFlow returns the next byte and advances the get cursor past it, or
// ok=false at EOF/broken state.
func (sb *StreamBuffer) UFlow() (ch byte, ok bool) {
	if sb.posState&PosBroken != 0 {
		return 0, false
	}
	if sb.posState&PosAtEnd != 0 {
		sb.posState |= PosBroken
		return 0, false
	}
	if sb.posState&PosPushbackPending != 0 {
		ch := sb.pushback
		sb.posState &^= PosPushbackPending
		sb.pos++
		return ch, true
	}
	if sb.file == nil || sb.mode&In == 0 || sb.pos >= sb.fend {
		return 0, false
	}
	ch = sb.buf[sb.pos]
	sb.pos++
	return ch, true
}

// ReadByte implements io.ByteReader via UFlow.
func (sb *StreamBuffer) ReadByte() (byte, error) {
	ch, ok := sb.UFlow()
	if !ok {
		return 0, io.EOF
	}
	return ch, nil
}

// Read implements io.Reader. A pending pushback byte, if any, is consumed
// first; the rest is served directly from the get area.
func (sb *StreamBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	if sb.posState&PosPushbackPending != 0 {
		ch, ok := sb.UFlow()
		if !ok {
			return 0, io.EOF
		}
		p[0] = ch
		n = 1
	}
	if n == len(p) {
		return n, nil
	}
	if sb.posState&PosBroken != 0 {
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	if sb.posState&PosAtEnd != 0 {
		sb.posState |= PosBroken
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	if sb.file == nil || sb.mode&In == 0 || sb.pos >= sb.fend {
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	avail := sb.fend - sb.pos
	want := len(p) - n
	if want > avail {
		want = avail
	}
	copy(p[n:n+want], sb.buf[sb.pos:sb.pos+want])
	sb.pos += want
	n += want
	return n, nil
}

// SetBuf attempts to swap in buf as the backing region, preserving
// content. It rejects a nil or zero-length buf, or one shorter than the
// current content, returning an error and leaving the buffer unchanged.
func (sb *StreamBuffer) SetBuf(buf []byte) error {
	if buf == nil || len(buf) == 0 || len(buf) < sb.fend {
		return NewError(InvalidPath, "setbuf", "", nil)
	}
	copy(buf, sb.buf[:sb.fend])
	sb.buf = buf
	return nil
}

// Seek implements io.Seeker, mirroring seekoff's beg/cur/end cases
// (seekpos's pos-only case is the io.SeekStart branch here). A
// zero-offset io.SeekCurrent is the "just tell me the position" shortcut
// that does not reset posState the way an actual position change does.
// Negative results from a seek before the start of the buffer are clamped
// to zero: Go slice indices cannot go negative the way C++ pointer
// arithmetic technically (if unportably) permits.
func (sb *StreamBuffer) Seek(offset int64, whence int) (int64, error) {
	if sb.file == nil {
		return -1, NewError(NotFound, "seek", "", nil)
	}

	switch whence {
	case io.SeekStart:
		sb.pos = int(offset)
	case io.SeekCurrent:
		if offset == 0 {
			if sb.posState&PosBroken != 0 {
				return -1, io.ErrClosedPipe
			}
			return int64(sb.pos), nil
		}
		sb.pos += int(offset)
	case io.SeekEnd:
		sb.pos = sb.fend + int(offset)
	default:
		return -1, NewError(InvalidPath, "seek", "", nil)
	}

	if sb.pos > sb.fend {
		sb.pos = sb.fend
	}
	if sb.pos < 0 {
		sb.pos = 0
	}
	sb.posState = PosInitial
	return int64(sb.pos), nil
}

// Sync flushes the put area to the underlying file if the buffer is open
// for output; a no-op otherwise.
func (sb *StreamBuffer) Sync() error {
	if sb.file == nil {
		return nil
	}
	if sb.mode&Out != 0 {
		return sb.flushBuffer()
	}
	return nil
}

func (sb *StreamBuffer) flushBuffer() error {
	converted, err := codec.Encode(sb.encoder, sb.buf[sb.putAreaStart:sb.fend])
	if err != nil {
		return err
	}
	if len(converted) == 0 {
		return ErrEmptyFlush
	}
	if sb.mode&App != 0 {
		sb.file.Append(converted)
		sb.putAreaStart = sb.fend
	} else {
		sb.file.Write(converted)
	}
	return nil
}

// Close flushes (if open for output) and detaches sb from its file. sb may
// be reused with a fresh Open afterward.
func (sb *StreamBuffer) Close() error {
	if sb.file == nil {
		return nil
	}

	var err error
	if sb.mode&Out != 0 {
		err = sb.flushBuffer()
	}

	sb.file = nil
	sb.decoder = nil
	sb.encoder = nil
	sb.mode = 0
	sb.pushback = 0
	sb.posState = PosInitial
	sb.buf = nil
	sb.pos, sb.fend, sb.putAreaStart = 0, 0, 0

	return err
}

// Imbue swaps in a new codec for subsequent flushes without closing the
// stream, mirroring virt_filebuf.h's imbue(locale). Content already
// decoded into the get area on Open is unaffected.
func (sb *StreamBuffer) Imbue(cdc codec.Codec) {
	sb.decoder = codec.NewDecoder(cdc)
	sb.encoder = codec.NewEncoder(cdc)
}
