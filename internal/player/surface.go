package player

import "context"

// Surface is the embedded web content host executing the vendor player
// script. Exec forwards an already-serialized script statement and returns
// once the surface acknowledges the forward; any application-level response
// arrives later as a named event fed into Controller.HandleEvent. The command
// content is not validated here, a malformed statement is the surface's error
// to report.
type Surface interface {
	Exec(ctx context.Context, command string) error
}
