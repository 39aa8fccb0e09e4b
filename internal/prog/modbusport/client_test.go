// internal/prog/modbusport/client_test.go
package modbusport

import (
	"context"
	"errors"
	"testing"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackworks/dccid/internal/identify"
)

// fakeModbus scripts the two functions the client uses; the embedded
// interface satisfies the rest.
type fakeModbus struct {
	modbus.Client

	readAddr  uint16
	readData  []byte
	readErr   error
	writeAddr uint16
	writeVal  uint16
	writeErr  error
}

func (f *fakeModbus) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	f.readAddr = address
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.readData, nil
}

func (f *fakeModbus) WriteSingleRegister(address, value uint16) ([]byte, error) {
	f.writeAddr = address
	f.writeVal = value
	return nil, f.writeErr
}

func TestReadCVBigEndianRegister(t *testing.T) {
	fake := &fakeModbus{readData: []byte{0x00, 0x97}}
	c := &Client{client: fake}

	v, err := c.ReadCV(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, uint8(151), v)
	assert.Equal(t, uint16(8), fake.readAddr)
}

func TestReadCVAppliesBaseAddress(t *testing.T) {
	fake := &fakeModbus{readData: []byte{0x00, 0x01}}
	c := &Client{client: fake, base: 1000}

	_, err := c.ReadCV(context.Background(), 250)
	require.NoError(t, err)
	assert.Equal(t, uint16(1250), fake.readAddr)
}

func TestReadCVIllegalAddressIsAbsent(t *testing.T) {
	fake := &fakeModbus{readErr: &modbus.ModbusError{
		FunctionCode:  0x83,
		ExceptionCode: modbus.ExceptionCodeIllegalDataAddress,
	}}
	c := &Client{client: fake}

	_, err := c.ReadCV(context.Background(), 261)
	assert.ErrorIs(t, err, identify.ErrCVAbsent)
}

func TestReadCVOtherExceptionPassesThrough(t *testing.T) {
	me := &modbus.ModbusError{
		FunctionCode:  0x83,
		ExceptionCode: modbus.ExceptionCodeServerDeviceFailure,
	}
	c := &Client{client: &fakeModbus{readErr: me}}

	_, err := c.ReadCV(context.Background(), 8)
	require.Error(t, err)
	assert.NotErrorIs(t, err, identify.ErrCVAbsent)
}

func TestReadCVValueOutOfByteRange(t *testing.T) {
	c := &Client{client: &fakeModbus{readData: []byte{0x01, 0x00}}}

	_, err := c.ReadCV(context.Background(), 8)
	require.Error(t, err)
}

func TestWriteCV(t *testing.T) {
	fake := &fakeModbus{}
	c := &Client{client: fake, base: 100}

	require.NoError(t, c.WriteCV(context.Background(), 31, 0))
	assert.Equal(t, uint16(131), fake.writeAddr)
	assert.Equal(t, uint16(0), fake.writeVal)
}

func TestWriteCVErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	c := &Client{client: &fakeModbus{writeErr: boom}}

	err := c.WriteCV(context.Background(), 31, 0)
	assert.ErrorIs(t, err, boom)
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Client{client: &fakeModbus{}}
	_, err := c.ReadCV(ctx, 8)
	assert.ErrorIs(t, err, context.Canceled)
}
