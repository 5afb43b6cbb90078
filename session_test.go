package h2session

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newSessionPair(t *testing.T) (client, server *Session) {
	t.Helper()
	c1, c2 := net.Pipe()

	client = New(c1, RoleClient, false, nil, Config{})
	server = New(c2, RoleServer, false, nil, Config{})

	done := make(chan error, 2)
	go func() { done <- client.Start(nil) }()
	go func() { done <- server.Start(nil) }()

	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}

	t.Cleanup(func() {
		client.Close(ErrCodeNone)
		server.Close(ErrCodeNone)
	})

	return client, server
}

func waitForEvent(t *testing.T, surface *EventSurface, want EventType) Event {
	t.Helper()
	ch := make(chan Event, 8)
	unsub := surface.Subscribe(func(ev Event) {
		if ev.Type == want {
			select {
			case ch <- ev:
			default:
			}
		}
	})
	defer unsub()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event %s", want)
		return Event{}
	}
}

func TestSessionHandshakeExchangesSettings(t *testing.T) {
	client, server := newSessionPair(t)
	_ = client
	_ = server
	// newSessionPair already blocks until both sides' WriteSettings returned,
	// which only happens once each side's SETTINGS ACK arrived.
}

func TestSessionRequestResponseRoundTrip(t *testing.T) {
	client, server := newSessionPair(t)

	serverGotHeaders := make(chan uint32, 1)
	server.Subscribe(func(ev Event) {
		if ev.Type == EventFrameReceived {
			if _, ok := ev.Frame.(*Headers); ok {
				select {
				case serverGotHeaders <- ev.StreamID:
				default:
				}
			}
		}
	})

	reqHeaders := []HeaderField{}
	addField := func(k, v string) {
		hf := HeaderField{}
		hf.Set(k, v)
		reqHeaders = append(reqHeaders, hf)
	}
	addField(":method", "GET")
	addField(":path", "/")
	addField(":scheme", "https")
	addField(":authority", "example.com")

	streamID, err := client.SendRequest(reqHeaders, true)
	require.NoError(t, err)
	require.EqualValues(t, 1, streamID)

	var gotStreamID uint32
	select {
	case gotStreamID = <-serverGotHeaders:
	case <-time.After(2 * time.Second):
		t.Fatal("server never observed the request HEADERS frame")
	}
	require.Equal(t, streamID, gotStreamID)

	st, ok := server.registry.Get(gotStreamID)
	require.True(t, ok)
	require.Eventually(t, func() bool { return len(st.Headers()) > 0 }, time.Second, time.Millisecond)

	hdrs := st.Headers()
	require.Equal(t, ":method", hdrs[0].Key())
	require.Equal(t, "GET", hdrs[0].Value())

	respHeaders := []HeaderField{}
	respField := func(k, v string) {
		hf := HeaderField{}
		hf.Set(k, v)
		respHeaders = append(respHeaders, hf)
	}
	respField(":status", "200")

	clientGotResponse := make(chan struct{}, 1)
	client.Subscribe(func(ev Event) {
		if ev.Type == EventFrameReceived {
			if d, ok := ev.Frame.(*Data); ok && d.EndStream() {
				select {
				case clientGotResponse <- struct{}{}:
				default:
				}
			}
		}
	})

	require.NoError(t, server.WriteHeaders(gotStreamID, respHeaders, false))
	require.NoError(t, server.SendData(gotStreamID, []byte("hello"), true))

	select {
	case <-clientGotResponse:
	case <-time.After(2 * time.Second):
		t.Fatal("client never observed the response DATA frame")
	}

	cst, ok := client.registry.Get(streamID)
	require.True(t, ok)
	require.Eventually(t, func() bool { return cst.Closed() }, time.Second, time.Millisecond)
}

func TestSessionPingRoundTrip(t *testing.T) {
	client, _ := newSessionPair(t)

	var data [PingDataSize]byte
	copy(data[:], "ABCDEFGH")

	err := client.Ping(data)
	require.NoError(t, err)
}

func TestSessionSendRequestRejectsPromisedPath(t *testing.T) {
	client, _ := newSessionPair(t)

	client.promised.Insert(2, "/a")

	hf := []HeaderField{}
	addField := func(k, v string) {
		f := HeaderField{}
		f.Set(k, v)
		hf = append(hf, f)
	}
	addField(":method", "GET")
	addField(":path", "/a")

	_, err := client.SendRequest(hf, true)
	require.Same(t, ErrResourcePromised, err)
}

func TestSessionCloseWritesSelfInitiatedGoAway(t *testing.T) {
	client, server := newSessionPair(t)

	gotGoAway := make(chan ErrorCode, 1)
	server.Subscribe(func(ev Event) {
		if ev.Type == EventFrameReceived {
			if ga, ok := ev.Frame.(*GoAway); ok {
				select {
				case gotGoAway <- ga.Code():
				default:
				}
			}
		}
	})

	require.NoError(t, client.Close(ErrCodeEnhanceYourCalm))

	select {
	case code := <-gotGoAway:
		require.Equal(t, ErrCodeEnhanceYourCalm, code)
	case <-time.After(2 * time.Second):
		t.Fatal("server never observed the client's self-initiated GOAWAY")
	}
}

func TestSessionSecureModeRejectsNonSettingsFirstFrame(t *testing.T) {
	c1, c2 := net.Pipe()

	server := New(c2, RoleServer, true, nil, Config{})

	closed := make(chan struct{})
	server.Subscribe(func(ev Event) {
		if ev.Type == EventSessionDisposed {
			close(closed)
		}
	})

	done := make(chan error, 1)
	go func() { done <- server.Start(nil) }()

	// A peer that skips SETTINGS entirely and sends a raw PING first, on a
	// secure session, must be met with PROTOCOL_ERROR rather than dispatched.
	_, err := c1.Write([]byte(ClientPreface))
	require.NoError(t, err)

	ping := AcquireFrameHeader()
	ping.SetBody(&Ping{})
	bw := bufio.NewWriter(c1)
	_, err = ping.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("server never disposed after a non-SETTINGS first frame on a secure session")
	}

	<-done
	_ = c1.Close()
}

func TestSessionGoAwayAbandonsUnprocessedStreams(t *testing.T) {
	client, server := newSessionPair(t)

	st1, err := client.SendRequest([]HeaderField{{key: []byte(":method"), value: []byte("GET")}}, true)
	require.NoError(t, err)

	closedCh := make(chan uint32, 1)
	client.Subscribe(func(ev Event) {
		if ev.Type == EventStreamClosed {
			select {
			case closedCh <- ev.StreamID:
			default:
			}
		}
	})

	require.NoError(t, server.WriteGoAway(ErrCodeNone, nil))

	select {
	case id := <-closedCh:
		require.Equal(t, st1, id)
	case <-time.After(2 * time.Second):
		t.Fatal("client never observed its stream closing after GOAWAY")
	}
}
