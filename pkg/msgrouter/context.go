package msgrouter

import "context"

type ctxKey string

const (
	messageTypeKey ctxKey = "message_type"
)

func MessageTypeFromCtx(ctx context.Context) string {
	messageType, _ := ctx.Value(messageTypeKey).(string)
	return messageType
}
