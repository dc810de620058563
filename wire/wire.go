// Package wire implements the datagram formats shared by discovery and the
// UDP throughput test. Every message starts with a fixed header of magic
// cookie, protocol version and type tag; anything that fails an explicit
// length or tag check decodes to an error and is dropped by the caller.
package wire

import (
	"encoding/binary"
	"errors"
	"time"
)

const (
	// MagicCookie marks a datagram as belonging to this protocol.
	MagicCookie uint32 = 0xabcddcba
	// ProtocolVersion is bumped on any incompatible layout change.
	ProtocolVersion byte = 1
)

type MsgType byte

const (
	Inv     MsgType = 0x0
	Probe   MsgType = 0x1
	Offer   MsgType = 0x2
	Request MsgType = 0x3
	Data    MsgType = 0x4
)

func (t MsgType) String() string {
	switch t {
	case Probe:
		return "Probe"
	case Offer:
		return "Offer"
	case Request:
		return "Request"
	case Data:
		return "Data"
	}
	return "Invalid"
}

// ServiceThroughput is the only service a probe can ask for today.
const ServiceThroughput byte = 1

// EndMarkerSeq is the reserved sequence number of the end-of-stream
// datagram; real sequence numbers start at 0 and never reach it.
const EndMarkerSeq = ^uint64(0)

const (
	HeaderSize     = 6 // cookie + version + type
	ProbeSize      = HeaderSize + 1
	OfferSize      = HeaderSize + 4
	RequestSize    = HeaderSize + 22
	DataHeaderSize = HeaderSize + 8
	EndMarkerSize  = DataHeaderSize + 8
)

var ErrMalformed = errors.New("malformed message")

type ProbeMsg struct {
	Service byte
}

type OfferMsg struct {
	TCPPort uint16
	UDPPort uint16
}

type RequestMsg struct {
	ByteCount   uint64 // 0 = duration-bound
	Rate        uint64 // bytes/s, 0 = unpaced
	DatagramLen uint16
	Duration    time.Duration // truncated to milliseconds on the wire
}

type DataMsg struct {
	Seq     uint64
	Payload []byte
	// End marks the end-of-stream datagram; Seq is EndMarkerSeq and
	// TotalSent carries the sender's datagram count.
	End       bool
	TotalSent uint64
}

// Message is the tagged decode result; exactly one of the pointer fields
// is set for a valid message.
type Message struct {
	Type    MsgType
	Probe   *ProbeMsg
	Offer   *OfferMsg
	Request *RequestMsg
	Data    *DataMsg
}

func putHeader(b []byte, t MsgType) {
	binary.BigEndian.PutUint32(b[0:], MagicCookie)
	b[4] = ProtocolVersion
	b[5] = byte(t)
}

func EncodeProbe(service byte) []byte {
	b := make([]byte, ProbeSize)
	putHeader(b, Probe)
	b[6] = service
	return b
}

func EncodeOffer(tcpPort, udpPort uint16) []byte {
	b := make([]byte, OfferSize)
	putHeader(b, Offer)
	binary.BigEndian.PutUint16(b[6:], tcpPort)
	binary.BigEndian.PutUint16(b[8:], udpPort)
	return b
}

func EncodeRequest(m RequestMsg) []byte {
	b := make([]byte, RequestSize)
	putHeader(b, Request)
	binary.BigEndian.PutUint64(b[6:], m.ByteCount)
	binary.BigEndian.PutUint64(b[14:], m.Rate)
	binary.BigEndian.PutUint16(b[22:], m.DatagramLen)
	binary.BigEndian.PutUint32(b[24:], uint32(m.Duration/time.Millisecond))
	return b
}

// EncodeData frames one payload datagram. The payload is copied so the
// sender may reuse its buffer.
func EncodeData(seq uint64, payload []byte) []byte {
	b := make([]byte, DataHeaderSize+len(payload))
	putHeader(b, Data)
	binary.BigEndian.PutUint64(b[6:], seq)
	copy(b[DataHeaderSize:], payload)
	return b
}

func EncodeEndMarker(totalSent uint64) []byte {
	b := make([]byte, EndMarkerSize)
	putHeader(b, Data)
	binary.BigEndian.PutUint64(b[6:], EndMarkerSeq)
	binary.BigEndian.PutUint64(b[DataHeaderSize:], totalSent)
	return b
}

// Decode parses one datagram. Unknown cookies, versions, tags and short
// or oversized layouts all return ErrMalformed; discovery and the UDP
// receiver drop such datagrams silently.
func Decode(b []byte) (Message, error) {
	if len(b) < HeaderSize {
		return Message{}, ErrMalformed
	}
	if binary.BigEndian.Uint32(b[0:]) != MagicCookie || b[4] != ProtocolVersion {
		return Message{}, ErrMalformed
	}
	switch MsgType(b[5]) {
	case Probe:
		if len(b) != ProbeSize {
			return Message{}, ErrMalformed
		}
		return Message{Type: Probe, Probe: &ProbeMsg{Service: b[6]}}, nil
	case Offer:
		if len(b) != OfferSize {
			return Message{}, ErrMalformed
		}
		return Message{Type: Offer, Offer: &OfferMsg{
			TCPPort: binary.BigEndian.Uint16(b[6:]),
			UDPPort: binary.BigEndian.Uint16(b[8:]),
		}}, nil
	case Request:
		if len(b) != RequestSize {
			return Message{}, ErrMalformed
		}
		return Message{Type: Request, Request: &RequestMsg{
			ByteCount:   binary.BigEndian.Uint64(b[6:]),
			Rate:        binary.BigEndian.Uint64(b[14:]),
			DatagramLen: binary.BigEndian.Uint16(b[22:]),
			Duration:    time.Duration(binary.BigEndian.Uint32(b[24:])) * time.Millisecond,
		}}, nil
	case Data:
		if len(b) < DataHeaderSize {
			return Message{}, ErrMalformed
		}
		seq := binary.BigEndian.Uint64(b[6:])
		if seq == EndMarkerSeq {
			if len(b) != EndMarkerSize {
				return Message{}, ErrMalformed
			}
			return Message{Type: Data, Data: &DataMsg{
				Seq:       seq,
				End:       true,
				TotalSent: binary.BigEndian.Uint64(b[DataHeaderSize:]),
			}}, nil
		}
		return Message{Type: Data, Data: &DataMsg{
			Seq:     seq,
			Payload: b[DataHeaderSize:],
		}}, nil
	}
	return Message{}, ErrMalformed
}
