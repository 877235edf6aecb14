package bridge

import (
	"context"

	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/reception"
	"github.com/feral-file/ff-portal/internal/swap"
)

// receiver joins the two inbound pipelines behind the gateway's capability
// interface: transfers go to the reception state machine, revert
// notifications to the swap revert handler.
type receiver struct {
	arrivals   reception.StateMachine
	reversions swap.RevertHandler
}

// NewReceiver composes the reception state machine and the revert handler
// into a gateway.AssetReceiver
func NewReceiver(arrivals reception.StateMachine, reversions swap.RevertHandler) gateway.AssetReceiver {
	return &receiver{
		arrivals:   arrivals,
		reversions: reversions,
	}
}

func (r *receiver) OnArrive(ctx context.Context, arrival *gateway.Arrival) error {
	return r.arrivals.HandleArrival(ctx, arrival)
}

func (r *receiver) OnReverted(ctx context.Context, reversion *gateway.Reversion) error {
	_, err := r.reversions.HandleReversion(ctx, reversion)
	return err
}
