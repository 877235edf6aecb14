package bridge_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-portal/internal/adapter"
	"github.com/feral-file/ff-portal/internal/bridge"
	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
	mockspkg "github.com/feral-file/ff-portal/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testBridgeMocks contains all the mocks needed for testing the bridge
type testBridgeMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mockspkg.MockNatsJetStream
	natsConn  *mockspkg.MockNatsConn
	jetStream *mockspkg.MockJetStream
	gateway   *mockspkg.MockGateway
}

// setupTestBridge creates all the mocks for testing
func setupTestBridge(t *testing.T) *testBridgeMocks {
	ctrl := gomock.NewController(t)

	return &testBridgeMocks{
		ctrl:      ctrl,
		natsJS:    mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:  mockspkg.NewMockNatsConn(ctrl),
		jetStream: mockspkg.NewMockJetStream(ctrl),
		gateway:   mockspkg.NewMockGateway(ctrl),
	}
}

// tearDownTestBridge cleans up the test mocks
func tearDownTestBridge(mocks *testBridgeMocks) {
	mocks.ctrl.Finish()
}

func testConfig() bridge.Config {
	return bridge.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "PORTAL_MESSAGES",
		ConsumerName:   "portal-bridge",
		MaxReconnects:  10,
		ReconnectWait:  1 * time.Second,
		ConnectionName: "test-bridge",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     5,
	}
}

func TestBridge_NewBridge_Success(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	config := testConfig()

	// Mock NATS connection
	mocks.natsJS.
		EXPECT().
		Connect(config.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	b, err := bridge.NewBridge(config, mocks.natsJS, mocks.gateway, adapter.NewJSON())

	assert.NoError(t, err)
	assert.NotNil(t, b)
}

func TestBridge_NewBridge_ConnectError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	// Mock NATS connection to return error
	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.gateway, adapter.NewJSON())

	assert.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestBridge_Run_CreateConsumerError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	ctx := context.Background()
	config := testConfig()

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	b, err := bridge.NewBridge(config, mocks.natsJS, mocks.gateway, adapter.NewJSON())
	require.NoError(t, err)

	// Mock CreateOrUpdateConsumer to return error
	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			"PORTAL_MESSAGES",
			jetstream.ConsumerConfig{
				Durable:       config.ConsumerName,
				AckPolicy:     jetstream.AckExplicitPolicy,
				AckWait:       config.AckWaitTimeout,
				MaxDeliver:    config.MaxDeliver,
				FilterSubject: "portal.inbound.>",
			}).
		Return(nil, assert.AnError)

	err = b.Run(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestBridge_Run_ConsumeError(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	ctx := context.Background()

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.gateway, adapter.NewJSON())
	require.NoError(t, err)

	consumer := mockspkg.NewMockNatsConsumer(mocks.ctrl)
	consumer.EXPECT().
		Consume(gomock.Any()).
		Return(nil, assert.AnError)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(consumer, nil)

	err = b.Run(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create subscription")
}

// runBridgeWithMessage runs the bridge, delivers one raw message to the
// captured handler, and returns once the message has been acknowledged one
// way or another.
func runBridgeWithMessage(t *testing.T, mocks *testBridgeMocks, data []byte, expectAck func(msg *mockspkg.MockJetStreamMessage, done chan struct{})) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.gateway, adapter.NewJSON())
	require.NoError(t, err)

	handlerCh := make(chan adapter.MessageHandler, 1)

	consumeCtx := mockspkg.NewMockConsumeContext(mocks.ctrl)
	consumeCtx.EXPECT().Stop()

	consumer := mockspkg.NewMockNatsConsumer(mocks.ctrl)
	consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlerCh <- handler
			return consumeCtx, nil
		})

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(consumer, nil)

	runDone := make(chan error, 1)
	go func() {
		runDone <- b.Run(ctx)
	}()

	var handler adapter.MessageHandler
	select {
	case handler = <-handlerCh:
	case <-time.After(5 * time.Second):
		t.Fatal("bridge never started consuming")
	}

	done := make(chan struct{})
	msg := mockspkg.NewMockJetStreamMessage(mocks.ctrl)
	msg.EXPECT().Data().Return(data).AnyTimes()
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()
	expectAck(msg, done)

	handler(msg)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("message was never acknowledged")
	}

	cancel()
	select {
	case err := <-runDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge never shut down")
	}
}

func TestBridge_Run_AcksProcessedMessage(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	data := []byte(`{"message_id":"m1","relay_id":"relay-main","source_chain_id":11155111,"kind":"transfer"}`)

	mocks.gateway.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		Return(nil)

	runBridgeWithMessage(t, mocks, data, func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
		msg.EXPECT().Ack().DoAndReturn(func() error {
			close(done)
			return nil
		})
	})
}

func TestBridge_Run_AcksTerminalRejection(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	data := []byte(`{"message_id":"m2","relay_id":"relay-impostor","source_chain_id":11155111,"kind":"transfer"}`)

	// replayed or unauthorized messages can never succeed on redelivery
	mocks.gateway.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		Return(domain.ErrReplayDetected)

	runBridgeWithMessage(t, mocks, data, func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
		msg.EXPECT().Ack().DoAndReturn(func() error {
			close(done)
			return nil
		})
	})
}

func TestBridge_Run_NaksTransientFailure(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	data := []byte(`{"message_id":"m3","relay_id":"relay-main","source_chain_id":11155111,"kind":"transfer"}`)

	mocks.gateway.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	runBridgeWithMessage(t, mocks, data, func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
		msg.EXPECT().Nak().DoAndReturn(func() error {
			close(done)
			return nil
		})
	})
}

func TestBridge_Run_TermsUnparseableMessage(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	// the gateway is never reached
	runBridgeWithMessage(t, mocks, []byte("not json"), func(msg *mockspkg.MockJetStreamMessage, done chan struct{}) {
		msg.EXPECT().Term().DoAndReturn(func() error {
			close(done)
			return nil
		})
	})
}

func TestBridge_Close(t *testing.T) {
	mocks := setupTestBridge(t)
	defer tearDownTestBridge(mocks)

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)
	mocks.natsConn.EXPECT().Close()

	b, err := bridge.NewBridge(testConfig(), mocks.natsJS, mocks.gateway, adapter.NewJSON())
	require.NoError(t, err)
	b.Close()
}
