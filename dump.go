package ringbuf

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.ObjectMarshaler = (*RingBuffer)(nil)

// MarshalLogObject lets a RingBuffer be logged with zap.Object.
func (r *RingBuffer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("cap", r.Cap())
	enc.AddInt("len", r.Len())
	enc.AddInt("write", r.write)
	enc.AddInt("read", r.read)
	enc.AddString("state", r.State().String())
	enc.AddBool("owned", r.owned)
	enc.AddBool("released", r.released)
	return nil
}

// Dump logs the cursors and occupancy of r at debug level.
func Dump(logger *zap.Logger, msg string, r *RingBuffer) {
	if ce := logger.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(zap.Object("ring", r))
	}
}
