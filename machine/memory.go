package machine

import (
	"encoding/binary"
	"io"
)

// Memory is a flat little-endian byte store.
type Memory struct {
	Data []byte
}

// check validates an access of length bytes at address.
func (mem *Memory) check(address uint32, length int) (err error) {
	switch length {
	case 1, 2, 4:
	default:
		err = ErrLength
		return
	}

	if uint64(address)+uint64(length) > uint64(len(mem.Data)) {
		err = ErrAddress(address)
	}

	return
}

// Read returns length (1, 2 or 4) bytes at address, zero-extended.
func (mem *Memory) Read(address uint32, length int) (value uint32, err error) {
	err = mem.check(address, length)
	if err != nil {
		return
	}

	data := mem.Data[address : address+uint32(length)]
	switch length {
	case 1:
		value = uint32(data[0])
	case 2:
		value = uint32(binary.LittleEndian.Uint16(data))
	case 4:
		value = binary.LittleEndian.Uint32(data)
	}

	return
}

// Write stores the low length (1, 2 or 4) bytes of value at address.
func (mem *Memory) Write(address uint32, length int, value uint32) (err error) {
	err = mem.check(address, length)
	if err != nil {
		return
	}

	data := mem.Data[address : address+uint32(length)]
	switch length {
	case 1:
		data[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(data, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(data, value)
	}

	return
}

// Load copies an image into memory at address, returning the bytes read.
func (mem *Memory) Load(input io.Reader, address uint32) (n int, err error) {
	if uint64(address) > uint64(len(mem.Data)) {
		err = ErrAddress(address)
		return
	}

	n, err = io.ReadFull(input, mem.Data[address:])
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
		return
	}
	if err == nil {
		// Memory is full; anything left over does not fit.
		var extra [1]byte
		if m, _ := input.Read(extra[:]); m > 0 {
			err = ErrAddress(uint32(len(mem.Data)))
		}
	}

	return
}
