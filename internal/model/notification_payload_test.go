package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadTagFollowsConcreteType(t *testing.T) {
	typ, raw, err := EncodePayload(FriendRequestPayload{FriendshipID: "F1", RequesterID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, NotificationFriendRequest, typ)

	p, err := DecodePayload(typ, raw)
	require.NoError(t, err)
	req, ok := p.(*FriendRequestPayload)
	require.True(t, ok)
	assert.Equal(t, "F1", req.FriendshipID)
	assert.Equal(t, "U1", req.RequesterID)
}

func TestDecodeRejectsMismatchedShape(t *testing.T) {
	_, raw, err := EncodePayload(MessagePayload{SenderID: "U1", MessageID: 42})
	require.NoError(t, err)

	_, err = DecodePayload(NotificationFriendRequest, raw)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := DecodePayload("party_invite", []byte(`{}`))
	assert.Error(t, err)
}

func TestEncodeRejectsMissingFields(t *testing.T) {
	_, _, err := EncodePayload(GameUpdatePayload{})
	assert.Error(t, err)
	_, _, err = EncodePayload(nil)
	assert.Error(t, err)
}

func TestMessagePayloadKeepsLargeIDsAsString(t *testing.T) {
	_, raw, err := EncodePayload(MessagePayload{SenderID: "U1", MessageID: 1790000000000000001})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sender_id":"U1","message_id":"1790000000000000001"}`, string(raw))
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("Ub", "Ua"), PairKey("Ua", "Ub"))
	assert.Equal(t, "Ua:Ub", PairKey("Ub", "Ua"))
}

func TestJoinListNormalises(t *testing.T) {
	assert.Equal(t, "dribbling,passing", JoinList([]string{" dribbling", "", "passing", "dribbling"}))
	u := UserInfo{Skills: ""}
	assert.Empty(t, u.SkillList())
}
