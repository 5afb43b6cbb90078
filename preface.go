package h2session

import (
	"bufio"
	"bytes"
	"io"
)

// ClientPreface is the fixed 24-octet sequence a client must send before any
// frame, so a server expecting HTTP/1.1 can cheaply reject an HTTP/2 stream.
//
// https://tools.ietf.org/html/rfc7540#section-3.5
const ClientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// writePreface writes the client connection preface to w.
func writePreface(w *bufio.Writer) error {
	_, err := w.WriteString(ClientPreface)
	return err
}

// readPreface reads exactly len(ClientPreface) bytes from r and compares
// them byte-for-byte against ClientPreface, returning ErrBadPreface on any
// mismatch or short read.
func readPreface(r *bufio.Reader) error {
	buf := make([]byte, len(ClientPreface))
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrBadPreface
		}
		return err
	}
	if !bytes.Equal(buf, []byte(ClientPreface)) {
		return ErrBadPreface
	}
	return nil
}
