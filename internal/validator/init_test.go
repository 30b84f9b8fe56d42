package validator

import (
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestClientMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     proto.ClientToServerMessage
		wantErr bool
	}{
		{"move", proto.ClientToServerMessage{Type: "move", Position: intPtr(4)}, false},
		{"rematch", proto.ClientToServerMessage{Type: "rematch"}, false},
		{"position too high", proto.ClientToServerMessage{Type: "move", Position: intPtr(9)}, true},
		{"negative position", proto.ClientToServerMessage{Type: "move", Position: intPtr(-1)}, true},
		{"unknown type", proto.ClientToServerMessage{Type: "resign"}, true},
		{"missing type", proto.ClientToServerMessage{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomTags(t *testing.T) {
	v := GetValidator()

	assert.NoError(t, v.Var("x", "mark"))
	assert.NoError(t, v.Var("O", "mark"))
	assert.Error(t, v.Var("", "mark"))
	assert.Error(t, v.Var("Z", "mark"))

	assert.NoError(t, v.Var("", "cell"))
	assert.NoError(t, v.Var("o", "cell"))
	assert.Error(t, v.Var("-", "cell"))

	assert.NoError(t, v.Var("Hard", "difficulty"))
	assert.Error(t, v.Var("medium", "difficulty"))

	assert.NoError(t, v.Var([]string{"X", "", "", "", "O", "", "", "", ""}, "len=9,dive,cell"))
	assert.Error(t, v.Var([]string{"X"}, "len=9,dive,cell"))
}
