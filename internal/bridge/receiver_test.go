package bridge_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-portal/internal/bridge"
	"github.com/feral-file/ff-portal/internal/gateway"
	mockspkg "github.com/feral-file/ff-portal/internal/mocks"
)

func TestReceiverRoutesArrivals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	arrivals := mockspkg.NewMockStateMachine(ctrl)
	reversions := mockspkg.NewMockRevertHandler(ctrl)
	receiver := bridge.NewReceiver(arrivals, reversions)

	arrival := &gateway.Arrival{MessageID: "m1"}
	arrivals.EXPECT().HandleArrival(gomock.Any(), arrival).Return(nil)

	assert.NoError(t, receiver.OnArrive(context.Background(), arrival))
}

func TestReceiverRoutesReversions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	arrivals := mockspkg.NewMockStateMachine(ctrl)
	reversions := mockspkg.NewMockRevertHandler(ctrl)
	receiver := bridge.NewReceiver(arrivals, reversions)

	reversion := &gateway.Reversion{MessageID: "m2"}
	reversions.EXPECT().HandleReversion(gomock.Any(), reversion).Return(uint256.NewInt(900), nil)

	assert.NoError(t, receiver.OnReverted(context.Background(), reversion))
}

func TestReceiverPropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	arrivals := mockspkg.NewMockStateMachine(ctrl)
	reversions := mockspkg.NewMockRevertHandler(ctrl)
	receiver := bridge.NewReceiver(arrivals, reversions)

	arrivals.EXPECT().HandleArrival(gomock.Any(), gomock.Any()).Return(assert.AnError)
	reversions.EXPECT().HandleReversion(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	assert.ErrorIs(t, receiver.OnArrive(context.Background(), &gateway.Arrival{}), assert.AnError)
	assert.ErrorIs(t, receiver.OnReverted(context.Background(), &gateway.Reversion{}), assert.AnError)
}
