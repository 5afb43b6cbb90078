package h2session

import "io"

// Transport is the byte-stream a Session reads frames from and writes
// frames to. A net.Conn, a *tls.Conn, or any other io.ReadWriteCloser
// satisfies it; the session never assumes a particular concrete type, so
// embedders can hand it a pipe in tests.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}
