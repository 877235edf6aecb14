package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/gateway"
	"github.com/feral-file/ff-portal/internal/mocks"
	"github.com/feral-file/ff-portal/internal/wire"
)

var localContract = domain.AssetRef{0x10, 0xca, 0x11}

func relayConfig() gateway.Config {
	return gateway.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "PORTAL_MESSAGES",
		RelayID:        trustedRelay,
		LocalChainID:   uint64(domain.ChainBaseSepolia),
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectTimeout: time.Second,
		ConnectionName: "portal-test",
	}
}

func newTestRelay(t *testing.T, ctrl *gomock.Controller) (gateway.RelayClient, *mocks.MockJetStream) {
	t.Helper()

	js := mocks.NewMockJetStream(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().
		Connect(gomock.Eq("nats://localhost:4222"), gomock.Any()).
		Return(conn, js, nil)

	relay, err := gateway.NewRelayClient(relayConfig(), localContract, natsJS, adapter.NewJSON())
	require.NoError(t, err)
	return relay, js
}

func TestRelaySendPublishesEnvelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relay, js := newTestRelay(t, ctrl)

	var published []byte
	js.EXPECT().
		Publish(gomock.Any(), gomock.Eq("portal.outbound.11155111"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			published = data
			return &jetstream.PubAck{Stream: "PORTAL_MESSAGES", Sequence: 1}, nil
		})

	revert := &wire.RevertDescriptor{
		AbortAddress:  localContract,
		CallOnRevert:  true,
		RevertAddress: localContract,
		GasLimit:      250_000,
	}
	messageID, err := relay.Send(context.Background(), domain.ChainEthereumSepolia,
		domain.MessageKindTransfer, []byte{0x01, 0x02}, revert)
	require.NoError(t, err)
	assert.NotEmpty(t, messageID)

	var env gateway.Envelope
	require.NoError(t, json.Unmarshal(published, &env))
	assert.Equal(t, messageID, env.MessageID)
	assert.Equal(t, trustedRelay, env.RelayID)
	assert.Equal(t, uint64(domain.ChainBaseSepolia), env.SourceChainID)
	assert.Equal(t, localContract.String(), env.Sender)
	assert.Equal(t, domain.MessageKindTransfer, env.Kind)
	assert.Empty(t, env.Amount)
	require.NotNil(t, env.Revert)
	assert.Equal(t, uint64(250_000), env.Revert.GasLimit)
}

func TestRelaySendWithValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relay, js := newTestRelay(t, ctrl)

	var published []byte
	js.EXPECT().
		Publish(gomock.Any(), gomock.Eq("portal.outbound.1"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			published = data
			return &jetstream.PubAck{Stream: "PORTAL_MESSAGES", Sequence: 2}, nil
		})

	_, err := relay.SendWithValue(context.Background(), domain.ChainEthereumMainnet,
		uint256.NewInt(42_000), remoteContract, domain.MessageKindRevert, nil, nil)
	require.NoError(t, err)

	var env gateway.Envelope
	require.NoError(t, json.Unmarshal(published, &env))
	assert.Equal(t, "42000", env.Amount)
	assert.Equal(t, remoteContract.String(), env.AssetRef)
	assert.Equal(t, domain.MessageKindRevert, env.Kind)
}

func TestRelaySendWithValueValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relay, _ := newTestRelay(t, ctrl)
	ctx := context.Background()

	_, err := relay.SendWithValue(ctx, domain.ChainEthereumMainnet, nil, remoteContract,
		domain.MessageKindTransfer, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	_, err = relay.SendWithValue(ctx, domain.ChainEthereumMainnet, uint256.NewInt(0), remoteContract,
		domain.MessageKindTransfer, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	_, err = relay.SendWithValue(ctx, domain.ChainEthereumMainnet, uint256.NewInt(1), nil,
		domain.MessageKindTransfer, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestRelayPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relay, js := newTestRelay(t, ctrl)

	js.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("no responders"))

	_, err := relay.Send(context.Background(), domain.ChainEthereumSepolia,
		domain.MessageKindTransfer, nil, nil)
	assert.ErrorContains(t, err, "failed to publish envelope")
}

func TestRelayConnectFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("connection refused")).
		AnyTimes()

	cfg := relayConfig()
	cfg.ConnectTimeout = time.Millisecond

	_, err := gateway.NewRelayClient(cfg, localContract, natsJS, adapter.NewJSON())
	assert.ErrorContains(t, err, "failed to connect to NATS relay")
}

func TestRelayClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	js := mocks.NewMockJetStream(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(conn, js, nil)
	conn.EXPECT().Close()

	relay, err := gateway.NewRelayClient(relayConfig(), localContract, natsJS, adapter.NewJSON())
	require.NoError(t, err)
	relay.Close()
}
