package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
)

type stubProvider struct {
	data *fleet.DashboardData
}

func (p *stubProvider) Dashboard() *fleet.DashboardData { return p.data }

func testDashboard() *fleet.DashboardData {
	return &fleet.DashboardData{
		Summary: fleet.SummaryData{TotalFCs: 2, TotalSubs: 3},
		FCs: []fleet.FCSummary{
			{FCID: "42", FCName: "Deep Divers", TotalSubs: 2},
			{FCID: "77", FCName: "Ghost Fleet", TotalSubs: 1},
		},
		Submarines: []fleet.SubmarineView{
			{FCID: "42", Name: "Alpha"},
			{FCID: "42", Name: "Beta"},
			{FCID: "77", Name: "Phantom"},
		},
	}
}

// receive pops one queued message or fails the test.
func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	default:
		t.Fatal("expected a queued message")
		return Message{}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.Run(ctx) }()

	client := NewClient(h, nil, "alice", nil, nil)
	h.Register <- client
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister <- client
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	// The hub closes the send channel on unregister.
	_, open := <-client.send
	assert.False(t, open)
}

func TestClientSendAfterCloseIsSafe(t *testing.T) {
	h := NewHub()
	client := NewClient(h, nil, "alice", nil, nil)

	// The read pump can still be answering a control message when the hub
	// shuts the client down.
	client.closeSend()
	assert.NotPanics(t, func() {
		client.Send(Message{Type: MessageTypePong})
	})

	// Closing twice stays idempotent.
	assert.NotPanics(t, client.closeSend)

	_, open := <-client.send
	assert.False(t, open)
}

func TestDeliverFiltersDashboardPerViewer(t *testing.T) {
	h := NewHub()
	admin := NewClient(h, nil, "admin", nil, nil)
	scoped := NewClient(h, nil, "viewer", map[string]bool{"42": true}, nil)
	h.clients[admin] = true
	h.clients[scoped] = true

	data := testDashboard()
	h.deliver(outbound{msg: Message{Type: MessageTypeDashboardUpdate, Data: data}})

	adminMsg := receive(t, admin)
	assert.Equal(t, MessageTypeDashboardUpdate, adminMsg.Type)
	assert.Same(t, data, adminMsg.Data)

	scopedMsg := receive(t, scoped)
	scopedData, ok := scopedMsg.Data.(*fleet.DashboardData)
	require.True(t, ok)
	require.Len(t, scopedData.FCs, 1)
	assert.Equal(t, "42", scopedData.FCs[0].FCID)
	for _, sub := range scopedData.Submarines {
		assert.Equal(t, "42", sub.FCID)
	}
}

func TestDeliverRoutesFCUpdatesByRoom(t *testing.T) {
	h := NewHub()
	joined := NewClient(h, nil, "joined", nil, nil)
	joined.setRoom("42", true)
	outside := NewClient(h, nil, "outside", nil, nil)
	blocked := NewClient(h, nil, "blocked", map[string]bool{"77": true}, nil)
	blocked.setRoom("42", true)
	h.clients[joined] = true
	h.clients[outside] = true
	h.clients[blocked] = true

	h.deliver(outbound{
		msg:  Message{Type: MessageTypeFCUpdate, Data: fleet.FCSummary{FCID: "42"}},
		fcID: "42",
	})

	msg := receive(t, joined)
	assert.Equal(t, MessageTypeFCUpdate, msg.Type)

	// Viewers outside the room, or without scope on the FC, get nothing.
	assert.Empty(t, outside.send)
	assert.Empty(t, blocked.send)
}

func TestDeliverDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	client := NewClient(h, nil, "slow", nil, nil)
	h.clients[client] = true

	for i := 0; i < cap(client.send); i++ {
		client.send <- Message{Type: MessageTypePong}
	}

	// Must not block; the extra message is dropped.
	h.deliver(outbound{msg: Message{Type: MessageTypePluginConnected}})
	assert.Len(t, client.send, cap(client.send))
}

func TestHandleControlPing(t *testing.T) {
	h := NewHub()
	client := NewClient(h, nil, "alice", nil, nil)

	client.handleControl(controlMessage{Type: MessageTypePing})
	assert.Equal(t, MessageTypePong, receive(t, client).Type)
}

func TestHandleControlJoinFC(t *testing.T) {
	h := NewHub()
	client := NewClient(h, nil, "viewer", map[string]bool{"42": true}, nil)

	client.handleControl(controlMessage{Type: MessageTypeJoinFC, FCID: "42"})
	assert.True(t, client.inRoom("42"))
	assert.Empty(t, client.send)

	client.handleControl(controlMessage{Type: MessageTypeLeaveFC, FCID: "42"})
	assert.False(t, client.inRoom("42"))

	// Joining an FC outside the viewer's scope is refused.
	client.handleControl(controlMessage{Type: MessageTypeJoinFC, FCID: "77"})
	assert.False(t, client.inRoom("77"))
	assert.Equal(t, MessageTypeError, receive(t, client).Type)
}

func TestHandleControlRequestUpdate(t *testing.T) {
	h := NewHub()
	provider := &stubProvider{data: testDashboard()}
	client := NewClient(h, nil, "viewer", map[string]bool{"77": true}, provider)

	client.handleControl(controlMessage{Type: MessageTypeRequestUpdate})

	msg := receive(t, client)
	assert.Equal(t, MessageTypeDashboardUpdate, msg.Type)
	data, ok := msg.Data.(*fleet.DashboardData)
	require.True(t, ok)
	require.Len(t, data.FCs, 1)
	assert.Equal(t, "77", data.FCs[0].FCID)
}

func TestBroadcastQueueDoesNotBlockWhenFull(t *testing.T) {
	h := NewHub()
	for i := 0; i < cap(h.broadcast); i++ {
		h.Broadcast(MessageTypePong, nil)
	}
	// One past capacity is dropped, not deadlocked.
	h.Broadcast(MessageTypePong, nil)
	assert.Len(t, h.broadcast, cap(h.broadcast))
}
