package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChatDirect(t *testing.T) {
	msg, err := DecodeChat([]byte(`{"to": "bob", "content": "hi"}`))
	require.NoError(t, err)
	require.NotNil(t, msg.To)
	assert.Equal(t, "bob", *msg.To)
	assert.Equal(t, "hi", msg.Content)
}

func TestDecodeChatBroadcast(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"null to", `{"to": null, "content": "hello all"}`},
		{"absent to", `{"content": "hello all"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeChat([]byte(tt.data))
			require.NoError(t, err)
			assert.Nil(t, msg.To)
			assert.Equal(t, "hello all", msg.Content)
		})
	}
}

func TestDecodeChatEmptyContent(t *testing.T) {
	msg, err := DecodeChat([]byte(`{"content": ""}`))
	require.NoError(t, err)
	assert.Equal(t, "", msg.Content)
}

func TestDecodeChatUnknownFieldsTolerated(t *testing.T) {
	msg, err := DecodeChat([]byte(`{"content": "x", "extra": 42}`))
	require.NoError(t, err)
	assert.Equal(t, "x", msg.Content)
}

func TestDecodeChatRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing content", `{"to": "bob"}`},
		{"null content", `{"content": null}`},
		{"numeric content", `{"content": 5}`},
		{"numeric to", `{"to": 5, "content": "x"}`},
		{"not json", `hello there`},
		{"array", `[1, 2, 3]`},
		{"bare null", `null`},
		{"empty", ``},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeChat([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeAuth(t *testing.T) {
	req, err := DecodeAuth([]byte(`{"token": "token-alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "token-alice", req.Token)

	req, err = DecodeAuth([]byte(`{"token": ""}`))
	require.NoError(t, err)
	assert.Equal(t, "", req.Token)
}

func TestDecodeAuthRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing token", `{"user": "alice"}`},
		{"null token", `{"token": null}`},
		{"numeric token", `{"token": 7}`},
		{"not json", `token-alice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAuth([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestServerMessageEncodeKeepsNullTo(t *testing.T) {
	data, err := ServerMessage{From: "SYSTEM", Content: "alice joined the chat"}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"SYSTEM","to":null,"content":"alice joined the chat"}`, string(data))
}

func TestServerMessageEncodeDirect(t *testing.T) {
	to := "bob"
	data, err := ServerMessage{From: "alice", To: &to, Content: "hi"}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"alice","to":"bob","content":"hi"}`, string(data))
}

func TestNotices(t *testing.T) {
	data, err := AuthSuccessNotice().Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"auth_success","message":"Authenticated"}`, string(data))

	data, err = AuthFailedNotice().Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"auth_failed","message":"Invalid token"}`, string(data))
}
