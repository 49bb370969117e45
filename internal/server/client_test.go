package server

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWritePumpPreservesOrder(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer clientSide.Close()

	client := NewClient(1, serverSide, 16, time.Second)
	go client.writePump(context.Background())

	require.NoError(t, client.Send([]byte{1, 2}))
	require.NoError(t, client.Send([]byte{3}))
	require.NoError(t, client.Send([]byte{4, 5, 6}))

	require.NoError(t, clientSide.SetReadDeadline(time.Now().Add(2*time.Second)))
	got := make([]byte, 6)
	_, err := io.ReadFull(clientSide, got)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)

	require.NoError(t, client.Close())
	_, err = clientSide.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.EOF)
}

func TestSendQueueFullDropsClient(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer clientSide.Close()
	defer serverSide.Close()

	// No pump running: the queue fills up like a stalled client's would
	client := NewClient(1, serverSide, 1, time.Second)

	require.NoError(t, client.Send([]byte{1}))
	err := client.Send([]byte{2})
	require.ErrorContains(t, err, "send queue full")
	// The overflow closed the client, later sends bounce immediately
	err = client.Send([]byte{3})
	require.ErrorContains(t, err, "client closed")
}

func TestCloseFlushesQueuedFrames(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer clientSide.Close()

	client := NewClient(1, serverSide, 4, time.Second)
	require.NoError(t, client.Send([]byte{7, 8}))
	require.NoError(t, client.Send([]byte{9}))
	require.NoError(t, client.Close())

	go client.writePump(context.Background())

	require.NoError(t, clientSide.SetReadDeadline(time.Now().Add(2*time.Second)))
	got := make([]byte, 3)
	_, err := io.ReadFull(clientSide, got)
	require.NoError(t, err)
	require.Equal(t, []byte{7, 8, 9}, got)

	_, err = clientSide.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.EOF)
}
