package ipc

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeFraming(t *testing.T) {
	var buf bytes.Buffer
	env, err := NewEnvelope(TypeTrain, TrainCommand{UnitType: "Zerg_Drone"})
	require.NoError(t, err)
	require.NoError(t, WriteEnvelope(&buf, env))

	length := binary.LittleEndian.Uint32(buf.Bytes()[:4])
	assert.Equal(t, buf.Len()-4, int(length))

	got, err := ReadEnvelope(&buf)
	require.NoError(t, err)
	assert.Equal(t, TypeTrain, got.Type)

	var cmd TrainCommand
	require.NoError(t, got.Decode(&cmd))
	assert.Equal(t, "Zerg_Drone", cmd.UnitType)
}

func TestNewEnvelope_NilData(t *testing.T) {
	env, err := NewEnvelope(TypeAck, nil)
	require.NoError(t, err)
	assert.Nil(t, env.Data)
}

func TestReadEnvelope_RejectsBadLengths(t *testing.T) {
	for _, n := range []uint32{0, MaxMessageSize + 1} {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, n))
		_, err := ReadEnvelope(&buf)
		assert.Error(t, err, "length %d", n)
	}

	var short bytes.Buffer
	require.NoError(t, binary.Write(&short, binary.LittleEndian, uint32(10)))
	short.WriteString("{}")
	_, err := ReadEnvelope(&short)
	assert.Error(t, err)
}

func TestConnection_Call(t *testing.T) {
	core, bridge := net.Pipe()
	defer core.Close()
	defer bridge.Close()

	c := NewConnection(core, nil, zerolog.Nop())

	go func() {
		env, err := ReadEnvelope(bridge)
		if err != nil {
			return
		}
		res := CommandResult{OK: true}
		if env.Type == TypeBuild {
			res = CommandResult{OK: false, Error: "insufficient_minerals"}
		}
		reply, _ := NewEnvelope(TypeCommandResult, res)
		_ = WriteEnvelope(bridge, reply)
	}()

	res, err := c.Call(TypeBuild, BuildCommand{UnitType: "Zerg_Hatchery"})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "insufficient_minerals", res.Error)
}

func TestConnection_CallUnexpectedReply(t *testing.T) {
	core, bridge := net.Pipe()
	defer core.Close()
	defer bridge.Close()

	c := NewConnection(core, nil, zerolog.Nop())
	go func() {
		if _, err := ReadEnvelope(bridge); err != nil {
			return
		}
		reply, _ := NewEnvelope(TypeGameState, nil)
		_ = WriteEnvelope(bridge, reply)
	}()

	_, err := c.Call(TypeGather, WorkerCommand{ActorID: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected message type")
}

func TestConnection_ReadLoopDispatches(t *testing.T) {
	core, bridge := net.Pipe()
	defer bridge.Close()

	c := NewConnection(core, nil, zerolog.Nop())
	c.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		var hello HelloMessage
		if err := env.Decode(&hello); err != nil {
			return nil, err
		}
		ack, err := NewEnvelope(TypeAck, AckMessage{Status: hello.Player})
		return &ack, err
	})

	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()

	// Unknown types are skipped without a reply.
	unknown, _ := NewEnvelope("mystery", nil)
	require.NoError(t, WriteEnvelope(bridge, unknown))

	hello, _ := NewEnvelope(TypeHello, HelloMessage{Player: "Overmind", Race: "Zerg"})
	require.NoError(t, WriteEnvelope(bridge, hello))

	reply, err := ReadEnvelope(bridge)
	require.NoError(t, err)
	assert.Equal(t, TypeAck, reply.Type)
	var ack AckMessage
	require.NoError(t, reply.Decode(&ack))
	assert.Equal(t, "Overmind", ack.Status)

	bridge.Close()
	<-done
}
