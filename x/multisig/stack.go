package multisig

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/app"
	"github.com/signet-one/signet/x"
	"github.com/signet-one/signet/x/utils"
)

// NewStack assembles the standard processing chain around the engine:
// logging, panic recovery, a deliver-time savepoint, and a router with
// all four operations registered. A nil executor dispatches executed
// actions back through the returned router, so register action targets
// on it before serving traffic.
func NewStack(auth x.Authenticator, executor Executor, notifier Notifier) (signet.Handler, *app.Router) {
	r := app.NewRouter()
	if executor == nil {
		executor = NewRouterExecutor(r)
	}
	RegisterRoutes(r, auth, executor, notifier)

	stack := app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)
	return stack, r
}
