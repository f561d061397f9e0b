package cart

import (
	"context"

	"go.uber.org/zap"
)

// ManagerOption configures a Manager instance.
type ManagerOption func(*Manager)

// OperationLogger records cart mutations and their reconciliation outcome.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes one cart operation.
type OperationLog struct {
	Operation string
	ItemID    string
	GameKeyID string
	Quantity  int64
	Status    string
	Error     error
}

// WithOperationLogger wires a logger that receives callbacks for every
// operation.
func WithOperationLogger(logger OperationLogger) ManagerOption {
	return func(manager *Manager) {
		manager.logger = logger
	}
}

// ZapOperationLogger adapts a zap logger to the OperationLogger contract.
type ZapOperationLogger struct {
	logger *zap.Logger
}

// NewZapOperationLogger wires a zap-backed operation logger.
func NewZapOperationLogger(logger *zap.Logger) *ZapOperationLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapOperationLogger{logger: logger}
}

// LogOperation emits one structured log line per cart operation.
func (adapter *ZapOperationLogger) LogOperation(_ context.Context, entry OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
	}
	if entry.ItemID != "" {
		fields = append(fields, zap.String("item_id", entry.ItemID))
	}
	if entry.GameKeyID != "" {
		fields = append(fields, zap.String("game_key_id", entry.GameKeyID))
	}
	if entry.Quantity != 0 {
		fields = append(fields, zap.Int64("quantity", entry.Quantity))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		adapter.logger.Warn("cart operation failed", fields...)
		return
	}
	adapter.logger.Info("cart operation", fields...)
}
